// internal/workers/data-access/search-pois/handler.go
package searchpois

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	commonerrors "poi-workers/internal/common/errors"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
	"poi-workers/internal/workers/data-access/search-pois/queries"
)

const (
	TaskType = "search-pois"
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
		logger:       scoped,
		errorHandler: commonerrors.NewErrorHandler(scoped),
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

	output, err := h.Execute(ctx, &input)
	if err != nil {
		if stdErr, ok := commonerrors.AsStandardError(err); ok {
			metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		}
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

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

// Execute searches the POI index. Failures come back as StandardErrors so
// the job plumbing can map them to retries or BPMN errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	size := input.Size
	if size < 1 {
		size = h.config.DefaultSize
	}

	result, err := queries.Execute(ctx, h.client, queries.SearchQuery{
		Index:    h.config.Index,
		Text:     input.Query,
		Category: input.Category,
		Location: input.Location,
		RadiusKm: input.RadiusKm,
		Size:     size,
	})
	if err != nil {
		return nil, h.mapError(ctx, err)
	}

	h.logger.Debug("search completed", map[string]interface{}{
		"hits": result.TotalHits,
		"took": result.Took,
	})

	return &Output{
		Candidates: result.POIs,
		TotalHits:  result.TotalHits,
		Took:       result.Took,
	}, nil
}

func (h *Handler) mapError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return commonerrors.NewSearchTimeoutError(h.config.Index)
	case errors.Is(err, queries.ErrIndexNotFound), errors.Is(err, queries.ErrMissingIndex):
		return commonerrors.NewIndexNotFoundError(h.config.Index)
	case isTransportError(err):
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	default:
		return commonerrors.NewSearchQueryFailedError(h.config.Index, err)
	}
}

// isTransportError reports errors raised before Elasticsearch answered.
func isTransportError(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr)
}
