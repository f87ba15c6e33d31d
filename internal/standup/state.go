// Package standup holds the active day's record and every mutation on it.
// Each mutating call persists before it returns; when the write fails the
// in-memory change is undone so memory and storage stay in step.
package standup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"standup/internal/model"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "1/2/2006, 3:04:05 PM"
)

var (
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrUnknownSection  = errors.New("unknown section")
	ErrUnknownPriority = errors.New("unknown priority")
)

// Records is the persistence boundary the state writes through.
type Records interface {
	Retrieve(date string) (model.DayRecord, error)
	Persist(date string, rec model.DayRecord) error
}

type State struct {
	records Records
	now     func() time.Time
	newID   func() string

	date  string
	name  string
	items []model.Item
}

type Option func(*State)

func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *State) { s.newID = newID }
}

func New(records Records, opts ...Option) *State {
	s := &State{
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
		items:   []model.Item{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current local date in DateLayout.
func (s *State) Today() string {
	return s.now().Format(DateLayout)
}

func (s *State) Date() string { return s.date }
func (s *State) Name() string { return s.name }

// Items returns a copy of the active items in natural order.
func (s *State) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *State) Snapshot() model.DayRecord {
	return model.DayRecord{Name: s.name, Items: s.items}.Clone()
}

// SetDate makes date active and loads its record. An empty date means today.
func (s *State) SetDate(date string) (model.DayRecord, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.Today()
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	rec, err := s.records.Retrieve(date)
	if err != nil {
		return s.Snapshot(), err
	}
	if rec.Items == nil {
		rec.Items = []model.Item{}
	}
	// Records written before items carried ids get them here; they reach
	// storage with the next mutation.
	for i := range rec.Items {
		if rec.Items[i].ID == "" {
			rec.Items[i].ID = s.newID()
		}
	}
	s.date = date
	s.name = rec.Name
	s.items = rec.Items
	return s.Snapshot(), nil
}

// ShiftDate moves the active date by days.
func (s *State) ShiftDate(days int) (model.DayRecord, error) {
	base, err := time.Parse(DateLayout, s.date)
	if err != nil {
		base = s.now()
	}
	return s.SetDate(base.AddDate(0, 0, days).Format(DateLayout))
}

func (s *State) SetName(name string) error {
	prev := s.name
	s.name = name
	if err := s.persist(); err != nil {
		s.name = prev
		return err
	}
	return nil
}

// AddItem appends an item. Blank text is ignored without a write and
// reports false.
func (s *State) AddItem(section model.Section, text string, priority model.Priority) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}
	sec, ok := model.ParseSection(string(section))
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	pri, ok := model.ParsePriority(string(priority))
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownPriority, priority)
	}

	prev := s.items
	items := make([]model.Item, len(prev), len(prev)+1)
	copy(items, prev)
	s.items = append(items, model.Item{
		ID:        s.newID(),
		Section:   sec,
		Text:      text,
		Priority:  pri,
		Timestamp: s.now().Format(TimestampLayout),
		Done:      false,
	})
	if err := s.persist(); err != nil {
		s.items = prev
		return false, err
	}
	return true, nil
}

// ToggleDone flips done on the item at index. Out of range is a no-op.
func (s *State) ToggleDone(index int) (bool, error) {
	if index < 0 || index >= len(s.items) {
		return false, nil
	}
	s.items[index].Done = !s.items[index].Done
	if err := s.persist(); err != nil {
		s.items[index].Done = !s.items[index].Done
		return false, err
	}
	return true, nil
}

// DeleteItem removes the item at index. Out of range is a no-op.
func (s *State) DeleteItem(index int) (bool, error) {
	if index < 0 || index >= len(s.items) {
		return false, nil
	}
	prev := s.items
	items := make([]model.Item, 0, len(prev)-1)
	items = append(items, prev[:index]...)
	items = append(items, prev[index+1:]...)
	s.items = items
	if err := s.persist(); err != nil {
		s.items = prev
		return false, err
	}
	return true, nil
}

func (s *State) ToggleByID(id string) (bool, error) {
	return s.ToggleDone(s.indexOf(id))
}

func (s *State) DeleteByID(id string) (bool, error) {
	return s.DeleteItem(s.indexOf(id))
}

// ClearAll drops every item for the active date and keeps the name.
func (s *State) ClearAll() error {
	prev := s.items
	s.items = []model.Item{}
	if err := s.persist(); err != nil {
		s.items = prev
		return err
	}
	return nil
}

func (s *State) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) persist() error {
	if s.date == "" {
		return errors.New("no active date")
	}
	return s.records.Persist(s.date, s.Snapshot())
}
