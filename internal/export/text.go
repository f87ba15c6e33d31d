package export

import (
	"fmt"
	"strings"

	"standup/internal/model"
)

// Text renders the clipboard form of a day's standup.
func Text(date string, rec model.DayRecord) string {
	name := rec.Name
	if name == "" {
		name = "(unnamed)"
	}
	header := fmt.Sprintf("Standup — %s\nName: %s\n", date, name)

	blocks := make([]string, 0, len(model.Sections))
	for _, sec := range model.Sections {
		var b strings.Builder
		b.WriteString(string(sec))
		b.WriteString(":")
		n := 0
		for _, it := range rec.Items {
			if it.Section != sec {
				continue
			}
			n++
			b.WriteString(fmt.Sprintf("\n  - [%s] %s", it.Priority, it.Text))
			if it.Done {
				b.WriteString(" (done)")
			}
		}
		if n == 0 {
			b.WriteString("\n  - (none)")
		}
		blocks = append(blocks, b.String())
	}

	return header + "\n" + strings.Join(blocks, "\n\n") + "\n"
}
