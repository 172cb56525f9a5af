// internal/workers/poi/resolve-turn/turn.go
package resolveturn

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
	"poi-workers/internal/common/observability"
	"poi-workers/internal/models"
	followuppolicy "poi-workers/internal/workers/conversation/follow-up-policy"
	resolvecontext "poi-workers/internal/workers/conversation/resolve-context"
	fetchpoidetails "poi-workers/internal/workers/data-access/fetch-poi-details"
	searchpois "poi-workers/internal/workers/data-access/search-pois"
	openinghours "poi-workers/internal/workers/poi/opening-hours"
	scorerelevance "poi-workers/internal/workers/poi/score-relevance"
)

type QueryClassifier interface {
	Classify(ctx context.Context, utterance string, previous []models.POI) models.DetectionOutcome
}

type Searcher interface {
	Execute(ctx context.Context, input *searchpois.Input) (*searchpois.Output, error)
}

type Hydrator interface {
	Execute(ctx context.Context, input *fetchpoidetails.Input) (*fetchpoidetails.Output, error)
}

// Dependencies are the collaborators of a turn. Searcher and Hydrator may
// be nil; the turn then relies on the candidates and snapshots it is given.
type Dependencies struct {
	Classifier    QueryClassifier
	Scorer        *scorerelevance.Scorer
	Searcher      Searcher
	Hydrator      Hydrator
	Tracer        trace.Tracer
	Observability *observability.Observability
}

// Turn runs one conversational turn end to end.
type Turn struct {
	config   *Config
	deps     Dependencies
	resolver *resolvecontext.Resolver
	logger   logger.Logger
}

func NewTurn(config *Config, deps Dependencies, log logger.Logger) *Turn {
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("poi-workers")
	}
	return &Turn{
		config:   config,
		deps:     deps,
		resolver: resolvecontext.NewResolver(deps.Scorer),
		logger:   log,
	}
}

// Resolve classifies the utterance, decides between reuse and a fresh
// search, scores the candidates and applies opening hours. Only the data
// adapters can make it fail.
func (t *Turn) Resolve(ctx context.Context, input *Input, now time.Time) (*Output, error) {
	turnID := uuid.NewString()
	ctx, span := t.deps.Tracer.Start(ctx, "resolve-poi-turn", trace.WithAttributes(
		attribute.String("turn.id", turnID),
		attribute.String("session.id", input.SessionID),
	))
	defer span.End()

	out, err := t.resolve(ctx, turnID, input, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("turn.path", string(out.Path)),
		attribute.String("turn.search_type", string(out.Detection.SearchType)),
		attribute.Int("turn.results", len(out.Results)),
	)
	metrics.RankedPOIs.WithLabelValues(string(out.Path)).Observe(float64(len(out.Results)))
	t.deps.Observability.RecordTurn(ctx, string(out.Path), len(out.Results))
	return out, nil
}

func (t *Turn) resolve(ctx context.Context, turnID string, input *Input, now time.Time) (*Output, error) {
	previous, err := t.previous(ctx, input)
	if err != nil {
		return nil, err
	}

	detection := t.deps.Classifier.Classify(ctx, input.Utterance, previous)

	uc := input.UserContext
	if uc.DietaryIntent == nil {
		uc.DietaryIntent = scorerelevance.DetectDietaryIntent(input.Utterance)
	}

	decision := followuppolicy.Decide(detection, len(previous), input.Utterance)
	metrics.FollowUpDecisions.WithLabelValues(strconv.FormatBool(decision.Reuse), string(decision.Reason)).Inc()

	out := &Output{
		TurnID:        turnID,
		SessionID:     input.SessionID,
		Detection:     detection,
		FollowUp:      decision,
		DietaryIntent: uc.DietaryIntent,
		EvaluatedAt:   now,
	}

	var results []models.ScoredPOI
	if decision.Reuse {
		resolved := t.resolver.Resolve(detection, previous, uc, now)
		metrics.ContextResolutions.WithLabelValues(string(resolved.Provenance)).Inc()
		out.Path = PathReuse
		out.Resolution = resolved.Provenance
		results = resolved.POIs
	} else {
		candidates, err := t.candidates(ctx, input, uc)
		if err != nil {
			return nil, err
		}
		out.Path = PathFresh
		results = t.deps.Scorer.Rank(candidates, uc, now, detection.SearchType, models.ProvenanceFreshSearch)
		if t.config.MaxResults > 0 && len(results) > t.config.MaxResults {
			results = results[:t.config.MaxResults]
		}
	}

	results = openinghours.Annotate(results, now)
	for _, poi := range results {
		metrics.OpeningStatuses.WithLabelValues(string(poi.OpeningStatus.Status)).Inc()
	}

	// A question about one named place is answered about that place even
	// when it is closed.
	if detection.IsTimeSensitive() && !detection.HasTarget() {
		filtered := openinghours.Filter(results, t.config.OpeningHoursCap)
		results = filtered.Included
		out.Excluded = filtered.Excluded
		out.Filtered = true
	}

	out.Results = results
	t.logger.Info("turn resolved", map[string]interface{}{
		"turnId":     turnID,
		"path":       out.Path,
		"searchType": detection.SearchType,
		"method":     detection.Method,
		"reason":     decision.Reason,
		"results":    len(results),
	})
	return out, nil
}

// previous returns the snapshots of the previous turn, hydrating them from
// stable ids when the caller sent ids only.
func (t *Turn) previous(ctx context.Context, input *Input) ([]models.POI, error) {
	if len(input.PreviousResults) > 0 || len(input.PreviousPoiIDs) == 0 || t.deps.Hydrator == nil {
		return input.PreviousResults, nil
	}

	hydrated, err := t.deps.Hydrator.Execute(ctx, &fetchpoidetails.Input{POIIDs: input.PreviousPoiIDs})
	if err != nil {
		return nil, err
	}
	return hydrated.PreviousResults, nil
}

func (t *Turn) candidates(ctx context.Context, input *Input, uc models.UserContext) ([]models.POI, error) {
	if input.Candidates != nil || t.deps.Searcher == nil {
		return input.Candidates, nil
	}

	radius := t.config.SearchRadiusKm
	if uc.Preferences.MaxDistanceKm > 0 {
		radius = uc.Preferences.MaxDistanceKm
	}

	found, err := t.deps.Searcher.Execute(ctx, &searchpois.Input{
		Query:    input.Utterance,
		Location: uc.Location,
		RadiusKm: radius,
		Size:     t.config.SearchSize,
	})
	if err != nil {
		return nil, err
	}
	return found.Candidates, nil
}
