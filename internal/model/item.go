package model

import "strings"

// Section is one of the three fixed standup categories.
type Section string

const (
	Yesterday Section = "Yesterday"
	Today     Section = "Today"
	Blockers  Section = "Blockers"
)

// Sections lists the sections in display and export order.
var Sections = []Section{Yesterday, Today, Blockers}

// ParseSection matches a section name case-insensitively.
func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if strings.EqualFold(strings.TrimSpace(s), string(sec)) {
			return sec, true
		}
	}
	return "", false
}

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

var Priorities = []Priority{Low, Medium, High}

func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// Next cycles low -> medium -> high -> low. Unknown values restart at low.
func (p Priority) Next() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return Low
}

// Item is a single standup entry. The JSON field names are the persisted
// record format; ID was added later and is optional on disk.
type Item struct {
	ID        string   `json:"id,omitempty"`
	Section   Section  `json:"section"`
	Text      string   `json:"text"`
	Priority  Priority `json:"priority"`
	Timestamp string   `json:"timestamp"`
	Done      bool     `json:"done"`
}

// DayRecord is the persisted {name, items} pair for one date.
type DayRecord struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Empty is the record returned for dates with nothing stored.
func Empty() DayRecord {
	return DayRecord{Name: "", Items: []Item{}}
}

// Clone returns a copy whose item slice can be mutated independently.
func (r DayRecord) Clone() DayRecord {
	items := make([]Item, len(r.Items))
	copy(items, r.Items)
	return DayRecord{Name: r.Name, Items: items}
}
