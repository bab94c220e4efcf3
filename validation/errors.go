package validation

import "fmt"

// ValidationError reports a missing or invalid input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// RejectReason says why an upload was refused before reaching the handler
type RejectReason int

const (
	RejectMissing RejectReason = iota
	RejectType
	RejectTooLarge
	RejectMalformed
)

func (r RejectReason) String() string {
	switch r {
	case RejectType:
		return "type"
	case RejectTooLarge:
		return "size"
	case RejectMalformed:
		return "malformed"
	default:
		return "missing"
	}
}

// UploadRejectedError is returned by ValidateUpload for every refused upload
type UploadRejectedError struct {
	Reason   RejectReason
	Limit    int64  // set for RejectTooLarge
	MimeType string // set for RejectType
	Err      error
}

func (e *UploadRejectedError) Error() string {
	switch e.Reason {
	case RejectTooLarge:
		return fmt.Sprintf("upload exceeds %d bytes", e.Limit)
	case RejectType:
		return fmt.Sprintf("only image files are allowed, got %q", e.MimeType)
	case RejectMalformed:
		if e.Err != nil {
			return fmt.Sprintf("malformed upload: %v", e.Err)
		}
		return "malformed upload"
	default:
		return "no file uploaded"
	}
}

func (e *UploadRejectedError) Unwrap() error {
	return e.Err
}
