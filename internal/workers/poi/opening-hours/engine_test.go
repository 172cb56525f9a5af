package openinghours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi-workers/internal/models"
)

// 2024-01-15 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
}

func weekdays(value string) models.RawOpeningHours {
	m := map[string]string{}
	for _, d := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		m[d] = value
	}
	return days(m)
}

func TestEvaluate_NineToFive(t *testing.T) {
	s := Parse(weekdays("9 am to 5 pm"))

	tests := []struct {
		name        string
		now         time.Time
		open        bool
		openingSoon bool
		closingSoon bool
		status      models.OpeningState
	}{
		{"mid morning", monday(10, 0), true, false, false, models.OpeningStateOpen},
		{"early morning", monday(6, 0), false, false, false, models.OpeningStateClosed},
		{"hour before opening", monday(8, 15), false, true, false, models.OpeningStateOpeningSoon},
		{"last hour", monday(16, 30), true, false, true, models.OpeningStateClosingSoon},
		{"closing hour is exclusive", monday(17, 0), false, false, false, models.OpeningStateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Evaluate(s, tt.now)
			assert.Equal(t, tt.open, status.IsCurrentlyOpen)
			assert.Equal(t, tt.openingSoon, status.IsOpeningSoon)
			assert.Equal(t, tt.closingSoon, status.IsClosingSoon)
			assert.Equal(t, tt.status, status.Status)
		})
	}
}

func TestEvaluate_NextOpeningDisplay(t *testing.T) {
	s := Parse(weekdays("9 am to 5 pm"))

	early := Evaluate(s, monday(6, 0))
	require.NotNil(t, early.NextOpening)
	assert.True(t, early.NextOpening.IsToday)
	assert.Equal(t, "9:00 AM", early.NextOpening.Display)
	assert.Equal(t, "closed, opens at 9:00 AM", early.Message)

	evening := Evaluate(s, monday(18, 0))
	require.NotNil(t, evening.NextOpening)
	assert.False(t, evening.NextOpening.IsToday)
	assert.Equal(t, "Tuesday", evening.NextOpening.Weekday)
	assert.Equal(t, "Tuesday 9:00 AM", evening.NextOpening.Display)

	friday := Evaluate(s, time.Date(2024, 1, 19, 18, 0, 0, 0, time.UTC))
	require.NotNil(t, friday.NextOpening)
	assert.Equal(t, time.Date(2024, 1, 22, 9, 0, 0, 0, time.UTC), friday.NextOpening.Time)
}

func TestEvaluate_ClosedEveryDay(t *testing.T) {
	m := map[string]string{}
	for _, name := range weekdayNames {
		m[name] = "closed"
	}
	s := Parse(days(m))
	require.Equal(t, FormatDaySchedule, s.Format())

	for hour := 0; hour < 24; hour += 5 {
		status := Evaluate(s, monday(hour, 0))
		assert.False(t, status.IsCurrentlyOpen)
		assert.Nil(t, status.NextOpening)
		assert.Equal(t, models.OpeningStateClosed, status.Status)
		assert.Equal(t, "closed", status.Message)
	}
}

func TestEvaluate_HourlyFlagsClosingSoon(t *testing.T) {
	s := Parse(text("Mo:9:open,Mo:10:closed"))

	status := Evaluate(s, monday(9, 0))
	assert.True(t, status.IsCurrentlyOpen)
	assert.True(t, status.IsClosingSoon)
	assert.Equal(t, models.OpeningStateClosingSoon, status.Status)
	assert.Equal(t, "open, closing soon", status.Message)
}

func TestEvaluate_Unavailable(t *testing.T) {
	status := EvaluatePOI(models.POI{ID: "x", Metadata: models.POIMetadata{OpeningHours: text("by appointment")}}, monday(12, 0))

	assert.Equal(t, models.OpeningStateUnavailable, status.Status)
	assert.Equal(t, "hours unavailable", status.Message)
	assert.False(t, status.IsCurrentlyOpen)
	assert.Nil(t, status.NextOpening)
}

func TestEvaluate_ContinuousAcrossMidnight(t *testing.T) {
	always := Parse(text("24 hours"))
	status := Evaluate(always, time.Date(2024, 1, 21, 23, 30, 0, 0, time.UTC))
	assert.True(t, status.IsCurrentlyOpen)
	assert.False(t, status.IsClosingSoon)

	overnight := Parse(days(map[string]string{"Saturday": "6 pm to 2 am"}))
	late := Evaluate(overnight, time.Date(2024, 1, 20, 23, 0, 0, 0, time.UTC))
	assert.True(t, late.IsCurrentlyOpen)
	assert.False(t, late.IsClosingSoon)

	small := Evaluate(overnight, time.Date(2024, 1, 21, 1, 10, 0, 0, time.UTC))
	assert.True(t, small.IsCurrentlyOpen)
	assert.True(t, small.IsClosingSoon)
}

func TestEvaluate_StatusConsistencyAcrossWeek(t *testing.T) {
	schedules := []Schedule{
		Parse(weekdays("9 am to 5 pm")),
		Parse(days(map[string]string{"Friday": "6 pm to 2 am", "Sunday": "11 am to 2 pm; 7 pm to 10 pm"})),
		Parse(text("Mo:9:open,Mo:10:closed,We:23:open,Th:0:open")),
	}

	start := time.Date(2024, 1, 14, 0, 30, 0, 0, time.UTC)
	for _, s := range schedules {
		for h := 0; h < lookaheadHours; h++ {
			now := start.Add(time.Duration(h) * time.Hour)
			status := Evaluate(s, now)

			assert.False(t, status.IsCurrentlyOpen && status.IsOpeningSoon, now.String())
			if status.IsClosingSoon {
				assert.True(t, status.IsCurrentlyOpen, now.String())
			}

			next := NextOpening(s, now)
			if next != nil {
				assert.True(t, next.Time.After(now), now.String())
				assert.False(t, next.Time.After(now.Add(7*24*time.Hour)), now.String())
			}
		}
	}
}

func scored(id string, state models.OpeningState) models.ScoredPOI {
	return models.ScoredPOI{
		POI:           models.POI{ID: id, Title: id},
		OpeningStatus: &models.OpeningStatus{Status: state},
	}
}

func TestFilter(t *testing.T) {
	ranked := []models.ScoredPOI{
		scored("opening", models.OpeningStateOpeningSoon),
		scored("closed", models.OpeningStateClosed),
		scored("open-1", models.OpeningStateOpen),
		scored("closing", models.OpeningStateClosingSoon),
		scored("unknown", models.OpeningStateUnavailable),
		scored("open-2", models.OpeningStateOpen),
		{POI: models.POI{ID: "unannotated"}},
	}

	result := Filter(ranked, 20)
	ids := func(pois []models.ScoredPOI) []string {
		out := make([]string, 0, len(pois))
		for _, p := range pois {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"open-1", "open-2", "closing", "opening"}, ids(result.Included))
	assert.Equal(t, []string{"closed", "unknown", "unannotated"}, ids(result.Excluded))
	assert.Zero(t, result.Truncated)

	capped := Filter(ranked, 2)
	assert.Equal(t, []string{"open-1", "open-2"}, ids(capped.Included))
	assert.Equal(t, 2, capped.Truncated)
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	input := []models.ScoredPOI{{POI: models.POI{ID: "a", Metadata: models.POIMetadata{OpeningHours: text("24 hours")}}}}

	out := Annotate(input, monday(3, 0))

	assert.Nil(t, input[0].OpeningStatus)
	require.NotNil(t, out[0].OpeningStatus)
	assert.Equal(t, models.OpeningStateOpen, out[0].OpeningStatus.Status)
}
