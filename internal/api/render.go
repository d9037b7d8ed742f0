package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"rul-backend/internal/core"
	"rul-backend/pkg/api"
	"strings"

	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type resultView struct {
	RunId       uuid.UUID
	Predictions []api.PredictionRecord
}

func renderPredictions(w http.ResponseWriter, r *http.Request, runId uuid.UUID, records []api.PredictionRecord) {
	if wantsJSON(r) {
		WriteJsonResponse(w, api.PredictResponse{RunId: runId, Predictions: records})
		return
	}
	renderView(w, "result.html", resultView{RunId: runId, Predictions: records})
}

func renderView(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("error rendering view", "view", name, "error", err)
		http.Error(w, "error rendering response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("error writing view", "view", name, "error", err)
	}
}

// renderAlerts writes monitoring output exactly as the job produced it.
func renderAlerts(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		slog.Error("error writing alerts", "error", err)
	}
}

func wantsJSON(r *http.Request) bool {
	for _, accepted := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(accepted))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

type errorResponse struct {
	code    int
	message string
}

var pipelineErrors = []struct {
	err      error
	response errorResponse
}{
	{core.ErrNoFileProvided, errorResponse{http.StatusBadRequest, "No Files Uploaded"}},
	{core.ErrUploadTooLarge, errorResponse{http.StatusRequestEntityTooLarge, "Uploaded file is too large"}},
	{core.ErrStorageUploadFailed, errorResponse{http.StatusBadGateway, "Error uploading dataset to storage"}},
	{core.ErrProcessSpawnFailed, errorResponse{http.StatusInternalServerError, "Error starting the job"}},
	{core.ErrProcessExitedNonZero, errorResponse{http.StatusInternalServerError, "Error occurred during prediction"}},
	{core.ErrOutputParseFailed, errorResponse{http.StatusBadGateway, "Error parsing prediction results"}},
	{core.ErrTimeout, errorResponse{http.StatusGatewayTimeout, "The job did not finish in time"}},
	{core.ErrOverloaded, errorResponse{http.StatusServiceUnavailable, "Too many jobs in progress, try again later"}},
}

// pipelineError converts a pipeline failure into a coded error carrying the
// message that is shown to the client. The cause is kept for logging.
func pipelineError(err error) error {
	for _, e := range pipelineErrors {
		if errors.Is(err, e.err) {
			return &codedError{err: &clientError{message: e.response.message, cause: err}, code: e.response.code}
		}
	}
	return &codedError{
		err:  &clientError{message: "Error occurred while processing the request", cause: err},
		code: http.StatusInternalServerError,
	}
}

type clientError struct {
	message string
	cause   error
}

func (e *clientError) Error() string {
	return e.message
}

func (e *clientError) Unwrap() error {
	return e.cause
}
