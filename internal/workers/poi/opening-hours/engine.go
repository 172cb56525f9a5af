// internal/workers/poi/opening-hours/engine.go
package openinghours

import (
	"time"

	"poi-workers/internal/models"
)

const lookaheadHours = 7 * 24

const (
	messageOpen        = "open"
	messageClosingSoon = "open, closing soon"
	messageOpeningSoon = "opening soon"
	messageClosed      = "closed"
	messageUnavailable = "hours unavailable"
)

// Evaluate derives the opening status of s at now. Weekday and hour are
// read in now's location, so callers pass the POI's local time.
func Evaluate(s Schedule, now time.Time) models.OpeningStatus {
	if s == nil || s.Format() == FormatUnparseable {
		return models.OpeningStatus{
			Status:  models.OpeningStateUnavailable,
			Message: messageUnavailable,
		}
	}

	day, hour := now.Weekday(), now.Hour()
	nextDay, nextHour := slot(day, hour, 1)

	open := s.IsOpenAt(day, hour)
	openNext := s.IsOpenAt(nextDay, nextHour)

	status := models.OpeningStatus{
		IsCurrentlyOpen: open,
		IsOpeningSoon:   !open && openNext,
		IsClosingSoon:   open && !openNext,
	}
	if !open {
		status.NextOpening = NextOpening(s, now)
	}

	switch {
	case status.IsClosingSoon:
		status.Status = models.OpeningStateClosingSoon
		status.Message = messageClosingSoon
	case open:
		status.Status = models.OpeningStateOpen
		status.Message = messageOpen
	case status.IsOpeningSoon:
		status.Status = models.OpeningStateOpeningSoon
		status.Message = messageOpeningSoon
	case status.NextOpening != nil:
		status.Status = models.OpeningStateClosed
		status.Message = messageClosed + ", opens at " + status.NextOpening.Display
	default:
		status.Status = models.OpeningStateClosed
		status.Message = messageClosed
	}
	return status
}

// EvaluatePOI parses and evaluates the POI's raw schedule.
func EvaluatePOI(poi models.POI, now time.Time) models.OpeningStatus {
	return Evaluate(Parse(poi.Metadata.OpeningHours), now)
}

// NextOpening returns the first closed-to-open transition strictly after now
// and at most seven days ahead, or nil when the schedule never opens.
func NextOpening(s Schedule, now time.Time) *models.NextOpening {
	if s == nil || s.Format() == FormatUnparseable {
		return nil
	}

	day, hour := now.Weekday(), now.Hour()
	for offset := 1; offset <= lookaheadHours; offset++ {
		d, h := slot(day, hour, offset)
		pd, ph := slot(day, hour, offset-1)
		if !s.IsOpenAt(d, h) || s.IsOpenAt(pd, ph) {
			continue
		}

		at := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+offset, 0, 0, 0, now.Location())
		today := sameDay(at, now)
		return &models.NextOpening{
			Time:    at,
			Weekday: at.Weekday().String(),
			IsToday: today,
			Display: formatOpening(at, today),
		}
	}
	return nil
}

// Annotate returns copies of pois carrying their opening status at now.
func Annotate(pois []models.ScoredPOI, now time.Time) []models.ScoredPOI {
	out := make([]models.ScoredPOI, len(pois))
	for i, poi := range pois {
		status := EvaluatePOI(poi.POI, now)
		poi.OpeningStatus = &status
		out[i] = poi
	}
	return out
}

// Filter keeps open, closing-soon and opening-soon POIs in that bucket
// order, preserving rank within each bucket, up to limit. Closed and
// unavailable POIs are returned in Excluded.
func Filter(annotated []models.ScoredPOI, limit int) FilterResult {
	var open, closing, opening, excluded []models.ScoredPOI
	for _, poi := range annotated {
		state := models.OpeningStateUnavailable
		if poi.OpeningStatus != nil {
			state = poi.OpeningStatus.Status
		}
		switch state {
		case models.OpeningStateOpen:
			open = append(open, poi)
		case models.OpeningStateClosingSoon:
			closing = append(closing, poi)
		case models.OpeningStateOpeningSoon:
			opening = append(opening, poi)
		default:
			excluded = append(excluded, poi)
		}
	}

	included := make([]models.ScoredPOI, 0, len(open)+len(closing)+len(opening))
	included = append(included, open...)
	included = append(included, closing...)
	included = append(included, opening...)

	result := FilterResult{Excluded: excluded}
	if limit > 0 && len(included) > limit {
		result.Truncated = len(included) - limit
		included = included[:limit]
	}
	result.Included = included
	return result
}

func slot(day time.Weekday, hour, offset int) (time.Weekday, int) {
	idx := (int(day)*24 + hour + offset) % lookaheadHours
	return time.Weekday(idx / 24), idx % 24
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatOpening(at time.Time, today bool) string {
	if today {
		return at.Format("3:04 PM")
	}
	return at.Format("Monday 3:04 PM")
}
