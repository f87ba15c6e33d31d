package standup

import "standup/internal/model"

// ItemView is what a renderer needs to draw one row. Index is the item's
// position in the day record, which is what ToggleDone and DeleteItem take.
type ItemView struct {
	ID        string
	Index     int
	Text      string
	Priority  model.Priority
	Timestamp string
	Done      bool
}

type SectionView struct {
	Section model.Section
	Items   []ItemView
}

// Sections groups items by section in fixed order, keeping natural order
// within each group. Items with an unrecognised section land in Blockers.
func Sections(items []model.Item) []SectionView {
	views := make([]SectionView, len(model.Sections))
	slot := make(map[model.Section]int, len(model.Sections))
	for i, sec := range model.Sections {
		views[i] = SectionView{Section: sec, Items: []ItemView{}}
		slot[sec] = i
	}
	for idx, it := range items {
		i, ok := slot[it.Section]
		if !ok {
			i = slot[model.Blockers]
		}
		views[i].Items = append(views[i].Items, ItemView{
			ID:        it.ID,
			Index:     idx,
			Text:      it.Text,
			Priority:  it.Priority,
			Timestamp: it.Timestamp,
			Done:      it.Done,
		})
	}
	return views
}
