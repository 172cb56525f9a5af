// internal/workers/data-access/fetch-poi-details/handler.go
package fetchpoidetails

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "poi-workers/internal/common/errors"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
	"poi-workers/internal/workers/data-access/fetch-poi-details/queries"
)

const (
	TaskType = "fetch-poi-details"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
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

// Execute hydrates previous-turn POIs from their stable ids. Unknown ids
// are reported, not treated as failures.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	pois, missing, err := queries.FetchByIDs(ctx, h.db, input.POIIDs)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, commonerrors.NewQueryTimeoutError(TaskType)
		}
		return nil, commonerrors.NewPOILookupFailedError(err)
	}

	if len(missing) > 0 {
		h.logger.Warn("previous POIs not found", map[string]interface{}{
			"missing": missing,
		})
	}

	return &Output{PreviousResults: pois, Missing: missing}, nil
}
