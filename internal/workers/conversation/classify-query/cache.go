// internal/workers/conversation/classify-query/cache.go
package classifyquery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"poi-workers/internal/common/logger"
	"poi-workers/internal/models"
)

const cacheKeyPrefix = "poi:followup:"

// CachingAnalyzer memoizes analyzer verdicts in Redis keyed by the
// utterance and the previous-turn ids. Redis failures degrade to a direct
// call.
type CachingAnalyzer struct {
	next   Analyzer
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachingAnalyzer(next Analyzer, client *redis.Client, ttl time.Duration, log logger.Logger) *CachingAnalyzer {
	return &CachingAnalyzer{next: next, redis: client, ttl: ttl, logger: log}
}

func (c *CachingAnalyzer) AnalyzeFollowUp(ctx context.Context, utterance string, previous []models.POI) (*FollowUpAnalysis, error) {
	key := cacheKey(utterance, previous)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var cached FollowUpAnalysis
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return &cached, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("analyzer cache read failed", map[string]interface{}{"error": err})
	}

	analysis, err := c.next.AnalyzeFollowUp(ctx, utterance, previous)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		c.logger.Warn("analyzer result not cacheable", map[string]interface{}{"error": err})
		return analysis, nil
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("analyzer cache write failed", map[string]interface{}{"error": err})
	}
	return analysis, nil
}

func cacheKey(utterance string, previous []models.POI) string {
	h := sha256.New()
	h.Write([]byte(normalize(utterance)))
	for _, p := range previous {
		h.Write([]byte{0})
		h.Write([]byte(p.ID))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
