// internal/workers/poi/opening-hours/timeparse.go
package openinghours

import (
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// minuteRange is a parsed "<t> to <t>" range in minutes after midnight.
// end <= start means the range runs past midnight.
type minuteRange struct {
	start int
	end   int
}

type clock struct {
	hour     int
	minute   int
	meridiem string
}

var (
	rangePattern = regexp.MustCompile(`^(.+?)\s*(?:\bto\b|–|—|-)\s*(.+)$`)
	clockPattern = regexp.MustCompile(`^(\d{1,2})(?:[:.h](\d{2}))?\s*(am|pm|a\.m\.?|p\.m\.?|a|p)?$`)
	spaceFolder  = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2009", " ")
)

func normalizeText(s string) string {
	s = strings.ToLower(spaceFolder.Replace(s))
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}

// parseDayText parses one weekday's value. ok is false when any part of the
// value is not understood.
func parseDayText(text string) ([]minuteRange, bool) {
	t := normalizeText(text)
	switch t {
	case "":
		return nil, false
	case "closed", "close", "closed all day":
		return nil, true
	case "24 hours", "open 24 hours", "24h", "24/7", "open 24/7":
		return []minuteRange{{start: 0, end: minutesPerDay}}, true
	}

	parts := strings.FieldsFunc(t, func(r rune) bool { return r == ';' || r == ',' })
	ranges := make([]minuteRange, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, ok := parseRange(part)
		if !ok {
			return nil, false
		}
		ranges = append(ranges, r)
	}
	return ranges, len(ranges) > 0
}

func parseRange(s string) (minuteRange, bool) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return minuteRange{}, false
	}
	from, ok := parseClock(m[1])
	if !ok {
		return minuteRange{}, false
	}
	to, ok := parseClock(m[2])
	if !ok {
		return minuteRange{}, false
	}

	end, ok := to.minutes()
	if !ok {
		return minuteRange{}, false
	}

	var start int
	if from.meridiem == "" && to.meridiem != "" && from.hour >= 1 && from.hour <= 12 {
		// "5 to 10 pm" borrows the closing meridiem unless that would put
		// the opening after the closing, as in "11 to 2 pm".
		start, _ = from.with(to.meridiem).minutes()
		if start > end {
			start, _ = from.with(opposite(to.meridiem)).minutes()
		}
	} else {
		start, ok = from.minutes()
		if !ok {
			return minuteRange{}, false
		}
	}

	if start >= minutesPerDay {
		return minuteRange{}, false
	}
	if end == minutesPerDay {
		end = 0
	}
	return minuteRange{start: start, end: end}, true
}

func parseClock(s string) (clock, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "noon":
		return clock{hour: 12, meridiem: "pm"}, true
	case "midnight":
		return clock{hour: 12, meridiem: "am"}, true
	}

	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return clock{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return clock{}, false
	}

	c := clock{hour: hour, minute: minute}
	switch strings.ReplaceAll(m[3], ".", "") {
	case "am", "a":
		c.meridiem = "am"
	case "pm", "p":
		c.meridiem = "pm"
	}
	return c, true
}

func (c clock) with(meridiem string) clock {
	c.meridiem = meridiem
	return c
}

// minutes converts to minutes after midnight. 24:00 yields minutesPerDay.
func (c clock) minutes() (int, bool) {
	if c.meridiem == "" {
		if c.hour > 24 || (c.hour == 24 && c.minute > 0) {
			return 0, false
		}
		return c.hour*60 + c.minute, true
	}

	if c.hour < 1 || c.hour > 12 {
		return 0, false
	}
	hour := c.hour % 12
	if c.meridiem == "pm" {
		hour += 12
	}
	return hour*60 + c.minute, true
}

func opposite(meridiem string) string {
	if meridiem == "am" {
		return "pm"
	}
	return "am"
}

func ceilHour(minutes int) int {
	return (minutes + 59) / 60
}
