package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/xuri/excelize/v2"

	"standup/internal/model"
)

const SheetName = "Standup"

var ErrNoItems = errors.New("no items to export")

// Columns is the header row of the spreadsheet.
var Columns = []string{"Date", "Name", "Section", "Task", "Priority", "Timestamp", "Status"}

type Row struct {
	Date      string
	Name      string
	Section   string
	Task      string
	Priority  string
	Timestamp string
	Status    string
}

func (r Row) values() []any {
	return []any{r.Date, r.Name, r.Section, r.Task, r.Priority, r.Timestamp, r.Status}
}

// Rows projects the record into one row per item in natural order.
func Rows(date string, rec model.DayRecord) ([]Row, error) {
	if len(rec.Items) == 0 {
		return nil, ErrNoItems
	}
	rows := make([]Row, 0, len(rec.Items))
	for _, it := range rec.Items {
		status := "Pending"
		if it.Done {
			status = "Done"
		}
		rows = append(rows, Row{
			Date:      date,
			Name:      rec.Name,
			Section:   string(it.Section),
			Task:      it.Text,
			Priority:  string(it.Priority),
			Timestamp: it.Timestamp,
			Status:    status,
		})
	}
	return rows, nil
}

var unsafeFileChars = regexp.MustCompile(`[\s/\\]+`)

// Filename is standup_<name>_<date>.xlsx with whitespace and path
// separators collapsed to underscores.
func Filename(name, date string) string {
	if name == "" {
		name = "user"
	}
	return unsafeFileChars.ReplaceAllString(fmt.Sprintf("standup_%s_%s.xlsx", name, date), "_")
}

// WriteXLSX writes a single-sheet workbook with a header row.
func WriteXLSX(path string, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoItems
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := r.values()
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Spreadsheet writes the record into dir and returns the file path. Nothing
// is created when the record has no items.
func Spreadsheet(dir, date string, rec model.DayRecord) (string, error) {
	rows, err := Rows(date, rec)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(rec.Name, date))
	if err := WriteXLSX(path, rows); err != nil {
		return "", err
	}
	return path, nil
}
