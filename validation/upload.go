package validation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/giygas/mediscript-api/entities"
)

// multipartOverhead is the slack allowed on top of the file limit for
// boundaries, part headers and other form fields.
const multipartOverhead = 1 << 20

// UploadPolicy is the pre-handler filter for prescription uploads
type UploadPolicy struct {
	FieldName string
	MaxSize   int64
}

// ValidateUpload parses the multipart body and returns the accepted file's metadata,
// or an *UploadRejectedError. The parsed form is released before returning.
func (p UploadPolicy) ValidateUpload(w http.ResponseWriter, r *http.Request) (entities.FileInfo, error) {
	limit := p.MaxSize + multipartOverhead
	if r.ContentLength > limit {
		return entities.FileInfo{}, &UploadRejectedError{Reason: RejectTooLarge, Limit: p.MaxSize}
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return entities.FileInfo{}, &UploadRejectedError{Reason: RejectTooLarge, Limit: p.MaxSize, Err: err}
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return entities.FileInfo{}, &UploadRejectedError{Reason: RejectMissing, Err: err}
		default:
			return entities.FileInfo{}, &UploadRejectedError{Reason: RejectMalformed, Err: err}
		}
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[p.FieldName]
	if len(files) == 0 {
		return entities.FileInfo{}, &UploadRejectedError{Reason: RejectMissing}
	}
	if len(files) > 1 {
		return entities.FileInfo{}, &UploadRejectedError{Reason: RejectMalformed, Err: errors.New("more than one file in " + p.FieldName)}
	}

	fh := files[0]
	if fh.Size > p.MaxSize {
		return entities.FileInfo{}, &UploadRejectedError{Reason: RejectTooLarge, Limit: p.MaxSize}
	}

	mimeType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return entities.FileInfo{}, &UploadRejectedError{Reason: RejectType, MimeType: mimeType}
	}

	return entities.FileInfo{
		Filename: fh.Filename,
		MimeType: mimeType,
		Size:     fh.Size,
	}, nil
}
