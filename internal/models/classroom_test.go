package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRoomAcceptsUpstreamShapes(t *testing.T) {
	raw := `{"id":"7","name":"Biology","code":"ABC123","description":"","professor_name":"Ada Lovelace"}`

	var class ClassRoom
	require.NoError(t, json.Unmarshal([]byte(raw), &class))
	class.Normalize()

	assert.Equal(t, "Ada Lovelace", class.ProfessorName)
	assert.NotNil(t, class.Students)
	assert.NotNil(t, class.Materials)
	assert.NotNil(t, class.Assignments)
}

func TestAssignmentPointsDefaulting(t *testing.T) {
	raw := `[{"id":"a","points":"50"},{"id":"b","points":"abc"},{"id":"c"},{"id":"d","points":0}]`

	var assignments []Assignment
	require.NoError(t, json.Unmarshal([]byte(raw), &assignments))
	for i := range assignments {
		assignments[i].Normalize()
	}

	assert.Equal(t, Points(50), assignments[0].Points)
	assert.Equal(t, Points(100), assignments[1].Points)
	assert.Equal(t, Points(100), assignments[2].Points)
	assert.Equal(t, Points(100), assignments[3].Points)
}

func TestParsePoints(t *testing.T) {
	assert.Equal(t, 100, ParsePoints(""))
	assert.Equal(t, 100, ParsePoints("abc"))
	assert.Equal(t, 25, ParsePoints("25"))
	assert.Equal(t, 25, ParsePoints("25pts"))
	assert.Equal(t, 100, ParsePoints("-4"))
}

func TestTimestampLayouts(t *testing.T) {
	for _, raw := range []string{"2024-03-01T10:00:00Z", "2024-03-01T10:00", "2024-03-01"} {
		ts, err := ParseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, time.March, ts.Month())
	}

	_, err := ParseTimestamp("yesterday")
	require.Error(t, err)
}

func TestTimestampJSON(t *testing.T) {
	var material Material
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-01","deadline":null}`), &material))
	assert.Nil(t, material.Deadline)
	assert.Equal(t, 1, material.Date.Day())

	out, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestTimestampJSONAcceptsHTTPDates(t *testing.T) {
	var material Material
	require.NoError(t, json.Unmarshal([]byte(`{"date":"Mon, 01 Jan 2024 10:00:00 GMT"}`), &material))
	assert.Equal(t, time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC), material.Date.UTC())

	require.NoError(t, json.Unmarshal([]byte(`{"date":"Mon, 01 Jan 2024 10:00:00 +0700"}`), &material))
	assert.Equal(t, 3, material.Date.UTC().Hour())
}

func TestTimestampJSONDegradesUnknownValues(t *testing.T) {
	var classes []ClassRoom
	payload := `[{"id":"1","name":"Math","materials":[{"title":"Notes","date":"sometime soon"},{"title":"Old","date":12345}]}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &classes))
	require.Len(t, classes, 1)
	require.Len(t, classes[0].Materials, 2)
	assert.True(t, classes[0].Materials[0].Date.IsZero())
	assert.True(t, classes[0].Materials[1].Date.IsZero())
	assert.Equal(t, "Notes", classes[0].Materials[0].Title)
}

func TestCloneIsDeep(t *testing.T) {
	grade := 90.0
	class := ClassRoom{
		ID: "c1",
		Assignments: []Assignment{{
			ID:          "a1",
			Submissions: []Submission{{StudentID: "s1", Grade: &grade}},
		}},
	}

	clone := class.Clone()
	*clone.Assignments[0].Submissions[0].Grade = 10
	clone.Assignments[0].Title = "changed"

	assert.Equal(t, 90.0, *class.Assignments[0].Submissions[0].Grade)
	assert.Empty(t, class.Assignments[0].Title)
}

func TestUpsertReplacesSameStudent(t *testing.T) {
	a := Assignment{}
	a.Upsert(Submission{StudentID: "s1", Content: "first"})
	a.Upsert(Submission{StudentID: "s2", Content: "other"})
	a.Upsert(Submission{StudentID: "s1", Content: "second"})

	require.Len(t, a.Submissions, 2)
	assert.Equal(t, "second", a.Submissions[0].Content)
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-3-5", DateKey(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
}

func TestParseLeadingInt(t *testing.T) {
	n, ok := ParseLeadingInt("85.5")
	assert.True(t, ok)
	assert.Equal(t, 85, n)

	_, ok = ParseLeadingInt("-")
	assert.False(t, ok)

	_, ok = ParseLeadingInt("")
	assert.False(t, ok)
}
