package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"rul-backend/internal/core"
	"rul-backend/internal/database"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type BackendService struct {
	db       *gorm.DB
	pipeline *core.Pipeline
	upload   UploadConfig
}

func NewBackendService(db *gorm.DB, pipeline *core.Pipeline, upload UploadConfig) *BackendService {
	return &BackendService{db: db, pipeline: pipeline, upload: upload}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))

	r.Get("/predict", s.PredictForm)
	r.Post("/predict", s.Predict)
	r.Get("/predict/monitor", s.RedirectMonitor)
	r.Post("/predict/monitor", s.Monitor)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListRuns))
		r.Get("/{run_id}", RestHandler(s.GetRun))
	})
}

func (s *BackendService) PredictForm(w http.ResponseWriter, r *http.Request) {
	renderView(w, "predict.html", nil)
}

func (s *BackendService) RedirectMonitor(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/predict", http.StatusFound)
}

func (s *BackendService) Predict(w http.ResponseWriter, r *http.Request) {
	dataset, err := receiveUpload(w, r, s.upload)
	if err != nil {
		slog.Info("rejected prediction upload", "error", err)
		WriteError(w, pipelineError(err))
		return
	}
	defer dataset.Cleanup()

	run := s.startRun(r.Context(), database.RunPredict, dataset)

	outcome, err := s.pipeline.Predict(r.Context(), dataset)
	s.finishRun(r.Context(), run, outcome, err)
	if err != nil {
		WriteError(w, pipelineError(err))
		return
	}

	renderPredictions(w, r, run.Id, outcome.Records)
}

func (s *BackendService) Monitor(w http.ResponseWriter, r *http.Request) {
	dataset, err := receiveUpload(w, r, s.upload)
	if err != nil {
		slog.Info("rejected monitoring upload", "error", err)
		WriteError(w, pipelineError(err))
		return
	}
	defer dataset.Cleanup()

	run := s.startRun(r.Context(), database.RunMonitor, dataset)

	outcome, err := s.pipeline.Monitor(r.Context(), dataset)
	s.finishRun(r.Context(), run, outcome, err)
	if err != nil {
		WriteError(w, pipelineError(err))
		return
	}

	renderAlerts(w, outcome.Text)
}

// startRun records the run before the pipeline starts. History is best
// effort: database failures are logged and never fail the request.
func (s *BackendService) startRun(ctx context.Context, kind string, dataset *core.Dataset) *database.Run {
	run := &database.Run{
		Kind:             kind,
		OriginalFilename: dataset.OriginalFilename,
		Bucket:           s.pipeline.Bucket(),
	}
	if err := database.CreateRun(ctx, s.db, run); err != nil {
		slog.Error("error recording run", "kind", kind, "error", err)
	}
	return run
}

func (s *BackendService) finishRun(ctx context.Context, run *database.Run, outcome *core.Outcome, runErr error) {
	completion := database.RunCompletion{Bucket: outcome.Ref.Bucket, ObjectKey: outcome.Ref.Key}
	if runErr != nil {
		completion.ErrorKind = core.ErrorKind(runErr)
	}
	if inv := outcome.Invocation; inv != nil {
		exitCode := inv.ExitCode
		completion.ExitCode = &exitCode
		completion.Stderr = inv.Stderr
	}
	completion.RecordCount = len(outcome.Records)

	// The request may already be cancelled, the record is still written.
	if err := database.CompleteRun(context.WithoutCancel(ctx), s.db, run.Id, completion); err != nil {
		slog.Error("error completing run record", "run_id", run.Id, "error", err)
	}
}

type ListRunsParams struct {
	Kind   string `schema:"kind"`
	Status string `schema:"status"`
	Limit  int    `schema:"limit"`
}

func (s *BackendService) ListRuns(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[ListRunsParams](r)
	if err != nil {
		return nil, err
	}

	filter := database.RunFilter{
		Kind:   strings.ToUpper(params.Kind),
		Status: strings.ToUpper(params.Status),
		Limit:  params.Limit,
	}

	switch filter.Kind {
	case "", database.RunPredict, database.RunMonitor:
	default:
		return nil, CodedErrorf(http.StatusBadRequest, "invalid run kind '%s'", params.Kind)
	}

	switch filter.Status {
	case "", database.JobRunning, database.JobCompleted, database.JobFailed:
	default:
		return nil, CodedErrorf(http.StatusBadRequest, "invalid run status '%s'", params.Status)
	}

	if filter.Limit < 0 || filter.Limit > database.MaxRunLimit {
		return nil, CodedErrorf(http.StatusBadRequest, "limit must be between 0 and %d", database.MaxRunLimit)
	}

	runs, err := database.ListRuns(r.Context(), s.db, filter)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing runs: %w", err)
	}

	return convertRuns(runs), nil
}

func (s *BackendService) GetRun(r *http.Request) (any, error) {
	runId, err := URLParamUUID(r, "run_id")
	if err != nil {
		return nil, err
	}

	run, err := database.GetRun(r.Context(), s.db, runId)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "run %v not found", runId)
		}
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving run: %w", err)
	}

	return convertRun(run), nil
}
