// internal/workers/poi/score-relevance/handler.go
package scorerelevance

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "poi-workers/internal/common/errors"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
	"poi-workers/internal/models"
)

const (
	TaskType = "score-poi-relevance"
)

type Handler struct {
	config       *Config
	scorer       *Scorer
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       NewScorerFromConfig(config),
		logger:       scoped,
		errorHandler: commonerrors.NewErrorHandler(scoped),
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_INPUT").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewInvalidInputError(err))
		return
	}

	output := h.execute(&input)

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(input *Input) *Output {
	now := h.now()
	if input.Now != nil {
		now = *input.Now
	}

	uc := input.UserContext
	if uc.DietaryIntent == nil && input.Utterance != "" {
		uc.DietaryIntent = DetectDietaryIntent(input.Utterance)
	}

	searchType := input.SearchType
	if searchType == "" {
		searchType = models.SearchTypeGeneral
	}

	ranked := h.scorer.Rank(input.POIs, uc, now, searchType, models.ProvenanceFreshSearch)
	if input.Limit > 0 && len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}

	h.logger.Debug("ranked pois", map[string]interface{}{
		"scored":   len(input.POIs),
		"returned": len(ranked),
	})

	return &Output{
		Ranked:        ranked,
		DietaryIntent: uc.DietaryIntent,
		TotalScored:   len(input.POIs),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.execute(input), nil
}
