package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

type classSource interface {
	Classes() []models.ClassRoom
}

// CalendarService owns the month cursor and, for professors, the in-memory
// day notes. Student events are derived from due dates on every call.
type CalendarService struct {
	role    models.Role
	classes classSource
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	cursor time.Time
	notes  map[string][]string
}

// CalendarServiceParams groups constructor dependencies.
type CalendarServiceParams struct {
	Role    models.Role
	Classes classSource
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewCalendarService constructs the service with the cursor on the current month.
func NewCalendarService(params CalendarServiceParams) *CalendarService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	today := now()
	return &CalendarService{
		role:    params.Role,
		classes: params.Classes,
		logger:  logger,
		now:     now,
		cursor:  time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()),
		notes:   make(map[string][]string),
	}
}

// BuildMonth lays out a month grid. The number of leading blanks is the
// weekday of the 1st with Sunday as 0.
func BuildMonth(year int, month time.Month, today time.Time, hasEvent func(key string) bool) dto.CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()

	grid := dto.CalendarMonth{
		Year:          year,
		Month:         int(month),
		Title:         fmt.Sprintf("%s %d", month.String(), year),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]dto.CalendarDay, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		key := fmt.Sprintf("%d-%d-%d", year, int(month), day)
		grid.Days = append(grid.Days, dto.CalendarDay{
			Day:      day,
			Key:      key,
			HasEvent: hasEvent != nil && hasEvent(key),
			IsToday:  today.Year() == year && today.Month() == month && today.Day() == day,
		})
	}
	return grid
}

// Month renders the month under the cursor.
func (s *CalendarService) Month() dto.CalendarMonth {
	s.mu.Lock()
	cursor := s.cursor
	s.mu.Unlock()
	return s.render(cursor)
}

// Prev moves the cursor back one month and renders it.
func (s *CalendarService) Prev() dto.CalendarMonth {
	return s.render(s.shift(-1))
}

// Next moves the cursor forward one month and renders it.
func (s *CalendarService) Next() dto.CalendarMonth {
	return s.render(s.shift(1))
}

// AddNote appends a note to a day. Only professors keep notes; they live in
// memory for the life of the process.
func (s *CalendarService) AddNote(date, text string) (dto.DayEvents, error) {
	if s.role != models.RoleProfessor {
		return dto.DayEvents{}, appErrors.Clone(appErrors.ErrForbidden, "only professors can add calendar notes")
	}
	key, err := NormalizeDateKey(date)
	if err != nil {
		return dto.DayEvents{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return dto.DayEvents{}, appErrors.Clone(appErrors.ErrValidation, "note text is required")
	}

	s.mu.Lock()
	s.notes[key] = append(s.notes[key], text)
	events := append([]string{}, s.notes[key]...)
	s.mu.Unlock()

	s.logger.Debug("calendar note added", zap.String("date", key))
	return dto.DayEvents{Key: key, Events: events}, nil
}

// DayEvents lists one day's events.
func (s *CalendarService) DayEvents(date string) (dto.DayEvents, error) {
	key, err := NormalizeDateKey(date)
	if err != nil {
		return dto.DayEvents{}, err
	}
	events := s.events()[key]
	if events == nil {
		events = []string{}
	}
	return dto.DayEvents{Key: key, Events: events}, nil
}

func (s *CalendarService) shift(months int) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.cursor.AddDate(0, months, 0)
	return s.cursor
}

func (s *CalendarService) render(cursor time.Time) dto.CalendarMonth {
	events := s.events()
	return BuildMonth(cursor.Year(), cursor.Month(), s.now(), func(key string) bool {
		return len(events[key]) > 0
	})
}

func (s *CalendarService) events() map[string][]string {
	if s.role == models.RoleStudent {
		return StudentEvents(s.classSnapshot())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.notes))
	for k, v := range s.notes {
		out[k] = append([]string{}, v...)
	}
	return out
}

func (s *CalendarService) classSnapshot() []models.ClassRoom {
	if s.classes == nil {
		return nil
	}
	return s.classes.Classes()
}

// StudentEvents derives one event per assignment due date.
func StudentEvents(classes []models.ClassRoom) map[string][]string {
	type dated struct {
		due  time.Time
		text string
	}
	byKey := make(map[string][]dated)
	for _, class := range classes {
		for _, a := range class.Assignments {
			if a.DueDate.IsZero() {
				continue
			}
			local := a.DueDate.In(time.Local)
			key := models.DateKey(local)
			byKey[key] = append(byKey[key], dated{due: local, text: fmt.Sprintf("Assignment: %s (%s)", a.Title, class.Name)})
		}
	}

	out := make(map[string][]string, len(byKey))
	for key, items := range byKey {
		sort.SliceStable(items, func(i, j int) bool { return items[i].due.Before(items[j].due) })
		texts := make([]string, len(items))
		for i, it := range items {
			texts[i] = it.text
		}
		out[key] = texts
	}
	return out
}

// NormalizeDateKey accepts a calendar key (2024-3-5) or an ISO date
// (2024-03-05) and returns the canonical key.
func NormalizeDateKey(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return "", appErrors.Clone(appErrors.ErrValidation, "date must look like YYYY-M-D")
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", appErrors.Clone(appErrors.ErrValidation, "date must look like YYYY-M-D")
		}
		nums[i] = n
	}
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.Local)
	if t.Year() != nums[0] || int(t.Month()) != nums[1] || t.Day() != nums[2] {
		return "", appErrors.Clone(appErrors.ErrValidation, "date does not exist")
	}
	return models.DateKey(t), nil
}
