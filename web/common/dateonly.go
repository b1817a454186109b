package common

import (
	"encoding/json"
	"fmt"
	"time"

	"stafflow.com/stafflow/utils"
)

// DateOnly binds a yyyy-MM-dd JSON string. Attendance, leave and holiday
// payloads all carry dates without a time component.
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.ParseInLocation(utils.DateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date format: %v", err)
	}

	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(utils.DateLayout))
}
