package scorerelevance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi-workers/internal/common/logger"
	"poi-workers/internal/models"
)

func createTestHandler(t *testing.T) *Handler {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	h.now = func() time.Time { return testNow }
	return h
}

func TestHandler_Execute_DetectsDietFromUtterance(t *testing.T) {
	input := &Input{
		Utterance: "show me vegetarian restaurants",
		POIs: []models.POI{
			{ID: "grill", Title: "La Brasa", Category: "Steakhouse", Score: 0.8},
			{ID: "green", Title: "Green Leaf", Category: "Vegetarian restaurant", Score: 0.8},
		},
	}

	out, err := createTestHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)

	require.NotNil(t, out.DietaryIntent)
	assert.Equal(t, models.DietVegetarian, out.DietaryIntent.Type)
	assert.Equal(t, 0.9, out.DietaryIntent.Confidence)
	require.Len(t, out.Ranked, 2)
	assert.Equal(t, "green", out.Ranked[0].ID)
	assert.Equal(t, models.SearchTypeGeneral, out.Ranked[0].SearchType)
}

func TestHandler_Execute_ContextIntentWinsAndLimit(t *testing.T) {
	input := &Input{
		Utterance:   "vegan please",
		UserContext: models.UserContext{DietaryIntent: &models.DietaryIntent{Type: models.DietKeto, Confidence: 0.6}},
		POIs:        []models.POI{{ID: "a", Score: 0.2}, {ID: "b", Score: 0.9}, {ID: "c", Score: 0.5}},
		Limit:       2,
	}

	out, err := createTestHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.DietKeto, out.DietaryIntent.Type)
	assert.Equal(t, 3, out.TotalScored)
	require.Len(t, out.Ranked, 2)
	assert.Equal(t, "b", out.Ranked[0].ID)
	assert.Equal(t, "c", out.Ranked[1].ID)
}
