// internal/workers/poi/opening-hours/schedule.go
package openinghours

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"poi-workers/internal/models"
)

type Format string

const (
	FormatDaySchedule Format = "day-schedule"
	FormatHourlyFlags Format = "hourly-flags"
	FormatUnparseable Format = "unparseable"
)

// Schedule is a raw opening-hours value resolved to exactly one encoding.
// The encoding is decided once by Parse and never re-sniffed.
type Schedule interface {
	Format() Format
	IsOpenAt(day time.Weekday, hour int) bool
}

// Period is a half-open [Start, End) range of whole hours, End <= 24.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (p Period) contains(hour int) bool {
	return hour >= p.Start && hour < p.End
}

// DaySchedule holds the periods of each weekday, indexed by time.Weekday.
// Overnight ranges are already split onto the following day.
type DaySchedule struct {
	Days [7][]Period
}

func (DaySchedule) Format() Format { return FormatDaySchedule }

func (s DaySchedule) IsOpenAt(day time.Weekday, hour int) bool {
	for _, p := range s.Days[day] {
		if p.contains(hour) {
			return true
		}
	}
	return false
}

func (s *DaySchedule) add(day time.Weekday, r minuteRange) {
	start := r.start / 60
	end := r.end
	if end == 0 {
		end = minutesPerDay
	}

	if end > r.start {
		s.Days[day] = append(s.Days[day], Period{Start: start, End: ceilHour(end)})
		return
	}

	s.Days[day] = append(s.Days[day], Period{Start: start, End: 24})
	next := (day + 1) % 7
	s.Days[next] = append(s.Days[next], Period{Start: 0, End: ceilHour(end)})
}

// HourlyFlags is a (weekday, hour) table. Hours without an entry are closed.
type HourlyFlags struct {
	Open [7][24]bool
}

func (HourlyFlags) Format() Format { return FormatHourlyFlags }

func (f HourlyFlags) IsOpenAt(day time.Weekday, hour int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	return f.Open[day][hour]
}

type Unparseable struct {
	Reason string
}

func (Unparseable) Format() Format { return FormatUnparseable }

func (Unparseable) IsOpenAt(time.Weekday, int) bool { return false }

var (
	flagPattern    = regexp.MustCompile(`(?i)\b(mo|tu|we|th|fr|sa|su)[a-z]*:(\d{1,2}):(open|closed)\b`)
	dayLinePattern = regexp.MustCompile(`^([A-Za-z]+(?:\s*[-–]\s*[A-Za-z]+)?)\s*:\s*(.+)$`)
)

// Parse resolves a raw opening-hours value. It never fails: values that
// match no known encoding come back as Unparseable.
func Parse(raw models.RawOpeningHours) Schedule {
	if raw.IsZero() {
		return Unparseable{Reason: "no opening hours"}
	}
	if raw.Invalid != "" {
		return Unparseable{Reason: "unsupported opening hours value"}
	}
	if len(raw.Days) > 0 {
		return parseDayMap(raw.Days)
	}

	text := strings.TrimSpace(raw.Text)
	lower := strings.ToLower(text)
	if strings.Contains(lower, ":open") || strings.Contains(lower, ":closed") {
		return parseFlags(text)
	}

	if strings.HasPrefix(text, "{") {
		var nested models.RawOpeningHours
		if err := json.Unmarshal([]byte(text), &nested); err != nil || len(nested.Days) == 0 {
			return Unparseable{Reason: "malformed day map"}
		}
		return parseDayMap(nested.Days)
	}

	return parseDayLines(text)
}

func parseFlags(text string) Schedule {
	matches := flagPattern.FindAllStringSubmatch(text, -1)

	var flags HourlyFlags
	found := 0
	for _, m := range matches {
		day, ok := weekdayFromAbbrev(m[1])
		if !ok {
			continue
		}
		hour, err := strconv.Atoi(m[2])
		if err != nil || hour > 23 {
			continue
		}
		flags.Open[day][hour] = strings.EqualFold(m[3], "open")
		found++
	}

	if found == 0 {
		return Unparseable{Reason: "no valid hourly flags"}
	}
	return flags
}

func parseDayMap(days map[string]string) Schedule {
	var schedule DaySchedule
	parsed := 0

	for key, value := range days {
		weekdays, ok := parseWeekdays(key)
		if !ok {
			continue
		}
		ranges, ok := parseDayText(value)
		if !ok {
			continue
		}
		for _, day := range weekdays {
			for _, r := range ranges {
				schedule.add(day, r)
			}
		}
		parsed++
	}

	if parsed == 0 {
		return Unparseable{Reason: "no parseable weekday entries"}
	}
	return schedule
}

// parseDayLines accepts "Monday: 9 am to 5 pm" lines separated by newlines
// or "|", or a single range list applied to every day.
func parseDayLines(text string) Schedule {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '|' })

	var schedule DaySchedule
	parsed := 0
	for _, line := range lines {
		m := dayLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		weekdays, ok := parseWeekdays(m[1])
		if !ok {
			continue
		}
		ranges, ok := parseDayText(m[2])
		if !ok {
			continue
		}
		for _, day := range weekdays {
			for _, r := range ranges {
				schedule.add(day, r)
			}
		}
		parsed++
	}
	if parsed > 0 {
		return schedule
	}

	ranges, ok := parseDayText(text)
	if !ok {
		return Unparseable{Reason: "unrecognized opening hours text"}
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, r := range ranges {
			schedule.add(day, r)
		}
	}
	return schedule
}

var weekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func weekdayFromAbbrev(abbrev string) (time.Weekday, bool) {
	key := strings.ToLower(strings.TrimSpace(abbrev))
	if len(key) < 2 {
		return 0, false
	}
	for i, name := range weekdayNames {
		if strings.HasPrefix(name, key[:2]) && (len(key) == 2 || strings.HasPrefix(name, key)) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// parseWeekdays accepts a single day name or an inclusive range such as
// "Mon-Fri", wrapping past Saturday.
func parseWeekdays(key string) ([]time.Weekday, bool) {
	key = strings.NewReplacer("–", "-", "—", "-").Replace(key)
	if from, to, found := strings.Cut(key, "-"); found {
		start, ok := weekdayFromAbbrev(from)
		if !ok {
			return nil, false
		}
		end, ok := weekdayFromAbbrev(to)
		if !ok {
			return nil, false
		}
		days := []time.Weekday{start}
		for d := start; d != end; {
			d = (d + 1) % 7
			days = append(days, d)
		}
		return days, true
	}

	day, ok := weekdayFromAbbrev(key)
	if !ok {
		return nil, false
	}
	return []time.Weekday{day}, true
}
