package api

import (
	"rul-backend/internal/database"
	"rul-backend/pkg/api"
)

func convertRun(run database.Run) api.Run {
	apiRun := api.Run{
		Id:               run.Id,
		Kind:             run.Kind,
		Status:           run.Status,
		OriginalFilename: run.OriginalFilename,
		Bucket:           run.Bucket,
		ObjectKey:        run.ObjectKey,
		Stderr:           run.Stderr,
		RecordCount:      run.RecordCount,
		CreationTime:     run.CreationTime,
	}
	if run.ExitCode.Valid {
		exitCode := int(run.ExitCode.Int32)
		apiRun.ExitCode = &exitCode
	}
	if run.ErrorKind.Valid {
		apiRun.ErrorKind = run.ErrorKind.String
	}
	if run.CompletionTime.Valid {
		apiRun.CompletionTime = &run.CompletionTime.Time
	}
	return apiRun
}

func convertRuns(runs []database.Run) []api.Run {
	results := make([]api.Run, 0, len(runs))
	for _, run := range runs {
		results = append(results, convertRun(run))
	}
	return results
}
