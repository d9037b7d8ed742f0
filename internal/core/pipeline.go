package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"rul-backend/internal/metrics"
	"rul-backend/internal/storage"
	"rul-backend/pkg/api"
	"time"
)

const (
	PredictJob = "predict"
	MonitorJob = "monitor"
)

// logged stdout/stderr is truncated to this many bytes
const maxLoggedOutput = 2048

// Dataset is an uploaded file staged on local disk for the duration of one
// request.
type Dataset struct {
	Path             string
	OriginalFilename string
	Size             int64
}

// Cleanup removes the staged file. Safe to call more than once.
func (d *Dataset) Cleanup() {
	if d == nil || d.Path == "" {
		return
	}
	if err := os.Remove(d.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to remove staged dataset", "path", d.Path, "error", err)
	}
}

// Outcome carries everything a pipeline run produced. It is returned even
// when the run fails so callers can record how far it got.
type Outcome struct {
	Ref        storage.ObjectRef
	Stored     bool
	Invocation *Invocation
	Records    []api.PredictionRecord
	Text       string
}

type Pipeline struct {
	store   storage.ObjectStore
	predict *Invoker
	monitor *Invoker
	metrics *metrics.Metrics
}

func NewPipeline(store storage.ObjectStore, predict, monitor *Invoker, m *metrics.Metrics) *Pipeline {
	return &Pipeline{store: store, predict: predict, monitor: monitor, metrics: m}
}

func (p *Pipeline) Bucket() string {
	return p.store.Bucket()
}

// Predict stores the dataset, runs the prediction job against it and parses
// the resulting records. Any failure ends the run.
func (p *Pipeline) Predict(ctx context.Context, dataset *Dataset) (*Outcome, error) {
	out := &Outcome{}

	if err := p.upload(ctx, dataset, out); err != nil {
		return out, err
	}

	inv, err := p.invoke(ctx, p.predict, out)
	if err != nil {
		slog.Error("prediction job failed", "key", out.Ref.Key, "error", err, "stderr", tail(invocationStderr(inv)))
		return out, err
	}

	if len(inv.Stderr) > 0 {
		slog.Warn("prediction job wrote to stderr", "key", out.Ref.Key, "stderr", tail(inv.Stderr))
	}

	records, err := ParsePredictions(inv.Stdout)
	if err != nil {
		slog.Error("failed to parse prediction output", "key", out.Ref.Key, "error", err, "stdout", tail(inv.Stdout))
		return out, err
	}
	out.Records = records

	slog.Info("prediction completed", "key", out.Ref.Key, "records", len(records), "duration", inv.Duration)

	return out, nil
}

// Monitor stores the dataset and runs the monitoring job against it. Its
// stdout is forwarded whatever the exit status; only a job that never ran to
// completion is an error.
func (p *Pipeline) Monitor(ctx context.Context, dataset *Dataset) (*Outcome, error) {
	out := &Outcome{}

	if err := p.upload(ctx, dataset, out); err != nil {
		return out, err
	}

	inv, err := p.invoke(ctx, p.monitor, out)
	if err != nil && !errors.Is(err, ErrProcessExitedNonZero) {
		slog.Error("monitoring job failed", "key", out.Ref.Key, "error", err)
		return out, err
	}
	if err != nil {
		slog.Warn("monitoring job exited with non-zero status", "key", out.Ref.Key, "exit_code", inv.ExitCode)
	}
	if len(inv.Stderr) > 0 {
		slog.Warn("monitoring job wrote to stderr", "key", out.Ref.Key, "stderr", tail(inv.Stderr))
	}

	out.Text = MonitorText(inv.Stdout)

	slog.Info("alerts sent", "key", out.Ref.Key, "bytes", len(out.Text), "duration", inv.Duration)

	return out, nil
}

func (p *Pipeline) upload(ctx context.Context, dataset *Dataset, out *Outcome) error {
	key := storage.NewObjectKey(dataset.OriginalFilename)

	ref, err := storage.UploadFile(ctx, p.store, dataset.Path, key)
	out.Ref = ref
	if err != nil {
		p.metrics.ObserveUpload(ErrorKind(ErrStorageUploadFailed))
		slog.Error("error uploading dataset", "bucket", ref.Bucket, "key", key, "error", err)
		return fmt.Errorf("%w: %w", ErrStorageUploadFailed, err)
	}

	p.metrics.ObserveUpload(ErrorKind(nil))
	out.Stored = true
	slog.Info("dataset uploaded", "bucket", ref.Bucket, "key", key, "filename", dataset.OriginalFilename, "size", dataset.Size)

	return nil
}

func (p *Pipeline) invoke(ctx context.Context, invoker *Invoker, out *Outcome) (*Invocation, error) {
	p.metrics.JobStarted()
	defer p.metrics.JobFinished()

	inv, err := invoker.Run(ctx, out.Ref.String())
	out.Invocation = inv

	p.metrics.ObserveJob(invoker.Name(), ErrorKind(err), invocationDuration(inv))

	return inv, err
}

func invocationDuration(inv *Invocation) (d time.Duration) {
	if inv != nil {
		d = inv.Duration
	}
	return d
}

func invocationStderr(inv *Invocation) []byte {
	if inv == nil {
		return nil
	}
	return inv.Stderr
}

func tail(b []byte) string {
	if len(b) > maxLoggedOutput {
		b = b[len(b)-maxLoggedOutput:]
	}
	return string(b)
}
