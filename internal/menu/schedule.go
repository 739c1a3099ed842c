package menu

import (
	"encoding/json"
	"strings"

	"menu-reconciler/internal/common/logger"
)

// dayNameToWeekday maps source day names to the numeric weekday convention of
// the target platform. Saturday opens the week.
var dayNameToWeekday = map[string]int{
	"Saturday":  1,
	"Sunday":    2,
	"Monday":    3,
	"Tuesday":   4,
	"Wednesday": 5,
	"Thursday":  6,
	"Friday":    7,
}

type sourceShift struct {
	StartTime string `json:"StartTime"`
	EndTime   string `json:"EndTime"`
}

type sourceDaySchedule struct {
	DayOfWeek string        `json:"DayOfWeek"`
	Shifts    []sourceShift `json:"Shifts"`
}

// TranscodeShifts converts a raw JSON weekly schedule in the named-day format
// into the numeric-weekday ShiftEntry form. It never fails: empty input,
// unparseable JSON, or a non-list top level all yield an empty slice, and
// day entries with unknown names or malformed shapes are dropped one by one.
func TranscodeShifts(raw string, log logger.Logger) []ShiftEntry {
	out := []ShiftEntry{}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "[]" {
		return out
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		log.Warn("shifts value is not a JSON list, dropping", map[string]interface{}{
			"raw":   trimmed,
			"error": err.Error(),
		})
		return out
	}

	for i, entry := range entries {
		var day sourceDaySchedule
		if err := json.Unmarshal(entry, &day); err != nil {
			log.Warn("skipping malformed day entry in shifts", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}

		weekday, ok := dayNameToWeekday[day.DayOfWeek]
		if !ok {
			log.Warn("skipping unknown day name in shifts", map[string]interface{}{
				"dayOfWeek": day.DayOfWeek,
			})
			continue
		}

		for _, shift := range day.Shifts {
			if shift.StartTime == "" || shift.EndTime == "" {
				continue
			}
			out = append(out, ShiftEntry{
				Weekday:   weekday,
				AllDay:    false,
				StartHour: shift.StartTime,
				StopHour:  shift.EndTime,
			})
		}
	}

	return out
}
