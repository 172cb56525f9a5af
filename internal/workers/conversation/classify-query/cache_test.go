package classifyquery

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poi-workers/internal/common/logger"
)

func TestCachingAnalyzer_MissThenHit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	next := new(MockAnalyzer)
	next.On("AnalyzeFollowUp", mock.Anything, "Is the first one open?", previousTurn()).
		Return(&FollowUpAnalysis{IsFollowUp: true, Confidence: 0.8, TargetPOI: "first"}, nil).
		Once()

	cache := NewCachingAnalyzer(next, client, time.Minute, logger.NewTestLogger(t))

	first, err := cache.AnalyzeFollowUp(context.Background(), "Is the first one open?", previousTurn())
	require.NoError(t, err)
	second, err := cache.AnalyzeFollowUp(context.Background(), "Is the first one open?", previousTurn())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	next.AssertNumberOfCalls(t, "AnalyzeFollowUp", 1)

	key := cacheKey("Is the first one open?", previousTurn())
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestCachingAnalyzer_KeyDependsOnPreviousIDs(t *testing.T) {
	a := cacheKey("the first one", previousTurn())
	b := cacheKey("The first one!", previousTurn())
	c := cacheKey("the first one", previousTurn()[:2])

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, cacheKeyPrefix)
}

func TestCachingAnalyzer_RedisErrorsDegrade(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	key := cacheKey("tell me more", previousTurn())
	analysis := &FollowUpAnalysis{IsFollowUp: true, Confidence: 0.7}
	data, _ := json.Marshal(analysis)

	redisMock.ExpectGet(key).SetErr(errors.New("connection reset"))
	redisMock.ExpectSet(key, data, time.Minute).SetErr(errors.New("connection reset"))

	next := new(MockAnalyzer)
	next.On("AnalyzeFollowUp", mock.Anything, mock.Anything, mock.Anything).Return(analysis, nil)

	got, err := NewCachingAnalyzer(next, client, time.Minute, logger.NewTestLogger(t)).
		AnalyzeFollowUp(context.Background(), "tell me more", previousTurn())

	require.NoError(t, err)
	assert.Equal(t, analysis, got)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachingAnalyzer_DoesNotCacheFailures(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	key := cacheKey("x", nil)
	redisMock.ExpectGet(key).RedisNil()

	next := new(MockAnalyzer)
	next.On("AnalyzeFollowUp", mock.Anything, mock.Anything, mock.Anything).Return(nil, ErrAnalyzerFailed)

	_, err := NewCachingAnalyzer(next, client, time.Minute, logger.NewTestLogger(t)).AnalyzeFollowUp(context.Background(), "x", nil)

	assert.ErrorIs(t, err, ErrAnalyzerFailed)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachingAnalyzer_SkipsUnencodableResults(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	analysis := &FollowUpAnalysis{IsFollowUp: true, Confidence: math.NaN()}
	next := new(MockAnalyzer)
	next.On("AnalyzeFollowUp", mock.Anything, "tell me more", previousTurn()).Return(analysis, nil)

	cache := NewCachingAnalyzer(next, client, time.Minute, logger.NewTestLogger(t))

	got, err := cache.AnalyzeFollowUp(context.Background(), "tell me more", previousTurn())
	require.NoError(t, err)
	assert.Same(t, analysis, got)
	assert.False(t, mr.Exists(cacheKey("tell me more", previousTurn())))

	_, err = cache.AnalyzeFollowUp(context.Background(), "tell me more", previousTurn())
	require.NoError(t, err)
	next.AssertNumberOfCalls(t, "AnalyzeFollowUp", 2)
}
