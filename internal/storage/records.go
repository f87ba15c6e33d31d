package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"standup/internal/model"
)

const (
	keyPrefix = "standup:"
	themeKey  = keyPrefix + "theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// RecordKey is the key a day record is stored under.
func RecordKey(date string) string {
	return keyPrefix + date
}

// Persist writes rec under the key for date.
func (s *Store) Persist(date string, rec model.DayRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", date, err)
	}
	if err := s.Set(RecordKey(date), string(data)); err != nil {
		return fmt.Errorf("write record %s: %w", date, err)
	}
	return nil
}

// Retrieve loads the record for date exactly as it was stored. Missing or
// undecodable data yields an empty record; only database failures are
// returned as errors.
func (s *Store) Retrieve(date string) (model.DayRecord, error) {
	raw, ok, err := s.Get(RecordKey(date))
	if err != nil {
		return model.Empty(), fmt.Errorf("read record %s: %w", date, err)
	}
	if !ok {
		return model.Empty(), nil
	}
	return decodeRecord(raw), nil
}

func decodeRecord(raw string) model.DayRecord {
	if strings.TrimSpace(raw) == "" {
		return model.Empty()
	}
	var rec model.DayRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return model.Empty()
	}
	return rec
}

// Dates lists dates that have a stored record.
func (s *Store) Dates() ([]string, error) {
	keys, err := s.Keys(keyPrefix)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == themeKey {
			continue
		}
		dates = append(dates, strings.TrimPrefix(k, keyPrefix))
	}
	return dates, nil
}

// Theme returns the stored theme preference, light when unset.
func (s *Store) Theme() (string, error) {
	v, ok, err := s.Get(themeKey)
	if err != nil {
		return ThemeLight, err
	}
	if !ok || v != ThemeDark {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.Set(themeKey, theme)
}
