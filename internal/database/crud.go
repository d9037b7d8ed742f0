package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRunNotFound = errors.New("run not found")

const (
	DefaultRunLimit = 50
	MaxRunLimit     = 500

	// stderr kept per run
	maxStoredStderr = 4096
)

func CreateRun(ctx context.Context, db *gorm.DB, run *Run) error {
	if run.Id == uuid.Nil {
		run.Id = uuid.New()
	}
	if run.CreationTime.IsZero() {
		run.CreationTime = time.Now().UTC()
	}
	run.Status = JobRunning

	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("error creating run record: %w", err)
	}
	return nil
}

type RunCompletion struct {
	Bucket      string
	ObjectKey   string
	ExitCode    *int
	ErrorKind   string
	Stderr      []byte
	RecordCount int
}

// CompleteRun moves a run to its terminal status. A run with an ErrorKind is
// FAILED, otherwise COMPLETED.
func CompleteRun(ctx context.Context, db *gorm.DB, runId uuid.UUID, completion RunCompletion) error {
	status := JobCompleted
	errorKind := sql.NullString{}
	if completion.ErrorKind != "" {
		status = JobFailed
		errorKind = sql.NullString{String: completion.ErrorKind, Valid: true}
	}

	exitCode := sql.NullInt32{}
	if completion.ExitCode != nil {
		exitCode = sql.NullInt32{Int32: int32(*completion.ExitCode), Valid: true}
	}

	stderr := completion.Stderr
	if len(stderr) > maxStoredStderr {
		stderr = stderr[len(stderr)-maxStoredStderr:]
	}

	result := db.WithContext(ctx).Model(&Run{}).Where("id = ?", runId).Updates(map[string]any{
		"status":          status,
		"bucket":          completion.Bucket,
		"object_key":      completion.ObjectKey,
		"exit_code":       exitCode,
		"error_kind":      errorKind,
		"stderr":          strings.ToValidUTF8(string(stderr), ""),
		"record_count":    completion.RecordCount,
		"completion_time": sql.NullTime{Time: time.Now().UTC(), Valid: true},
	})
	if result.Error != nil {
		return fmt.Errorf("error updating run %v: %w", runId, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("error updating run %v: %w", runId, ErrRunNotFound)
	}
	return nil
}

func GetRun(ctx context.Context, db *gorm.DB, runId uuid.UUID) (Run, error) {
	var run Run
	if err := db.WithContext(ctx).First(&run, "id = ?", runId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return run, ErrRunNotFound
		}
		return run, fmt.Errorf("error querying run %v: %w", runId, err)
	}
	return run, nil
}

type RunFilter struct {
	Kind   string
	Status string
	Limit  int
}

// ListRuns returns runs newest first.
func ListRuns(ctx context.Context, db *gorm.DB, filter RunFilter) ([]Run, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	limit = min(limit, MaxRunLimit)

	query := db.WithContext(ctx).Order("creation_time DESC").Limit(limit)
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var runs []Run
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	return runs, nil
}
