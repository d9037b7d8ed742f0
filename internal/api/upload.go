package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"rul-backend/internal/core"
)

const uploadField = "file"

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// receiveUpload streams the request's "file" part into a staging file under
// cfg.Dir. Nothing is written when the part is missing. The caller owns the
// returned dataset and must call Cleanup.
func receiveUpload(w http.ResponseWriter, r *http.Request, cfg UploadConfig) (*core.Dataset, error) {
	if r.ContentLength > cfg.MaxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", core.ErrUploadTooLarge, cfg.MaxBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBytes)

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrNoFileProvided, err)
	}

	part, err := nextFilePart(reader)
	if err != nil {
		return nil, err
	}
	defer part.Close()

	staged, err := os.CreateTemp(cfg.Dir, "dataset-*")
	if err != nil {
		return nil, fmt.Errorf("%w: error creating staging file: %w", core.ErrUnexpectedIO, err)
	}

	dataset := &core.Dataset{Path: staged.Name(), OriginalFilename: part.FileName()}

	n, err := io.Copy(staged, part)
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		dataset.Cleanup()
		return nil, bodyError(err, "error writing staging file")
	}
	dataset.Size = n

	slog.Debug("dataset staged", "path", dataset.Path, "filename", dataset.OriginalFilename, "size", n)

	return dataset, nil
}

// nextFilePart skips parts until it finds the upload field. Other fields are
// discarded unread.
func nextFilePart(reader *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no '%s' field in form", core.ErrNoFileProvided, uploadField)
		}
		if err != nil {
			return nil, bodyError(err, "error reading multipart body")
		}

		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		part.Close()
	}
}

func bodyError(err error, msg string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", core.ErrUploadTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %s: %w", core.ErrUnexpectedIO, msg, err)
}
