package dto

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Day      int    `json:"day"`
	Key      string `json:"key"`
	HasEvent bool   `json:"hasEvent"`
	IsToday  bool   `json:"isToday"`
}

// CalendarMonth is the rendered month grid. The first LeadingBlanks cells of
// the first week are empty.
type CalendarMonth struct {
	Year          int           `json:"year"`
	Month         int           `json:"month"`
	Title         string        `json:"title"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
}

// DayEvents lists one day's events.
type DayEvents struct {
	Key    string   `json:"key"`
	Events []string `json:"events"`
}
