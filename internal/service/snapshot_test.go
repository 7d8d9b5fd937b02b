package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/models"
)

func TestSnapshotDiscardsStaleReload(t *testing.T) {
	snap := NewSnapshot()
	first := snap.BeginReload()
	second := snap.BeginReload()

	assert.True(t, snap.Replace(second, []models.ClassRoom{{ID: "new"}}))
	assert.False(t, snap.Replace(first, []models.ClassRoom{{ID: "old"}}))

	classes := snap.Classes()
	require.Len(t, classes, 1)
	assert.Equal(t, "new", classes[0].ID)
	assert.True(t, snap.Loaded())
}

func TestSnapshotUpdateIsAtomic(t *testing.T) {
	snap := NewSnapshot()
	snap.Append(models.ClassRoom{ID: "c1", Name: "Biology"})

	err := snap.Update("c1", func(c *models.ClassRoom) error {
		c.Name = "changed"
		return errors.New("boom")
	})
	require.Error(t, err)

	class, err := snap.Class("c1")
	require.NoError(t, err)
	assert.Equal(t, "Biology", class.Name)

	require.NoError(t, snap.Update("c1", func(c *models.ClassRoom) error {
		c.Materials = append(c.Materials, models.Material{ID: "m1"})
		return nil
	}))
	class, _ = snap.Class("c1")
	assert.Len(t, class.Materials, 1)
}

func TestSnapshotReadsAreCopies(t *testing.T) {
	snap := NewSnapshot()
	snap.Append(models.ClassRoom{ID: "c1", Name: "Biology"})

	class, err := snap.Class("c1")
	require.NoError(t, err)
	class.Name = "mutated"

	again, _ := snap.Class("c1")
	assert.Equal(t, "Biology", again.Name)
}

func TestSnapshotRemove(t *testing.T) {
	snap := NewSnapshot()
	snap.Append(models.ClassRoom{ID: "c1"})
	snap.Append(models.ClassRoom{ID: "c2"})
	before := snap.Version()

	snap.Remove("c1")
	snap.Remove("missing")

	assert.Len(t, snap.Classes(), 1)
	assert.Equal(t, before+1, snap.Version())
	_, err := snap.Class("c1")
	require.Error(t, err)
}
