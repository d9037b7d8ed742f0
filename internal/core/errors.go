package core

import "errors"

var (
	// ErrNoFileProvided: the request carried no "file" field.
	ErrNoFileProvided = errors.New("no file provided")

	ErrUploadTooLarge = errors.New("uploaded file exceeds size limit")

	// ErrStorageUploadFailed: the dataset could not be written to the object store.
	ErrStorageUploadFailed = errors.New("storage upload failed")

	ErrProcessSpawnFailed = errors.New("process spawn failed")

	ErrProcessExitedNonZero = errors.New("process exited with non-zero status")

	// ErrOutputParseFailed: prediction stdout was not a valid record array.
	ErrOutputParseFailed = errors.New("output parse failed")

	// ErrTimeout: the job outlived its deadline and was killed.
	ErrTimeout = errors.New("job timed out")

	// ErrOverloaded: no job slot became free within the queue timeout.
	ErrOverloaded = errors.New("too many jobs in progress")

	ErrUnexpectedIO = errors.New("unexpected io failure")
)

// ErrorKind returns a stable name for the error class of err, used in run
// history and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "Ok"
	case errors.Is(err, ErrNoFileProvided):
		return "NoFileProvided"
	case errors.Is(err, ErrUploadTooLarge):
		return "UploadTooLarge"
	case errors.Is(err, ErrStorageUploadFailed):
		return "StorageUploadFailed"
	case errors.Is(err, ErrProcessSpawnFailed):
		return "ProcessSpawnFailed"
	case errors.Is(err, ErrProcessExitedNonZero):
		return "ProcessExitedNonZero"
	case errors.Is(err, ErrOutputParseFailed):
		return "OutputParseFailed"
	case errors.Is(err, ErrTimeout):
		return "Timeout"
	case errors.Is(err, ErrOverloaded):
		return "Overloaded"
	default:
		return "UnexpectedIOFailure"
	}
}
