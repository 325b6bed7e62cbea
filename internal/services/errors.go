package services

import (
	"errors"
	"strings"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/validation"
)

// ErrOperationInFlight is returned when a submit overlaps another operation
// for the same entity. Overlapping edits are rejected instead of letting the
// last backend response win.
var ErrOperationInFlight = errors.New("another operation for this item is still in progress")

// ValidationError blocks a submit before any network call. Fields maps field
// keys to user-facing messages for inline rendering.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// UploadError aborts a mutating operation because none of the staged images
// could be uploaded; the backend is never called.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// RemoteError is a backend or network failure converted to a structured
// shape. When the backend's message matches a known pattern, Fields carries
// the field-level mapping; otherwise Message holds an operation-level text.
type RemoteError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// remoteProductError maps a backend error onto product form fields. The
// "required fields" message is re-derived against the submitted input so only
// the fields that are actually blank get flagged.
func remoteProductError(apiErr *catalog.APIError, in ProductInput) *RemoteError {
	fields := make(map[string]string)
	msg := apiErr.Message

	switch {
	case strings.Contains(msg, "required fields"):
		if strings.TrimSpace(in.Name) == "" {
			fields["name"] = msg
		}
		if strings.TrimSpace(in.CategoryID) == "" {
			fields["categoryId"] = msg
		}
		if strings.TrimSpace(validation.ExtractText(in.Description)) == "" {
			fields["description"] = msg
		}
		if len(in.ExistingImages)+len(in.NewImages) == 0 {
			fields["images"] = msg
		}
	case strings.Contains(msg, "isMain"):
		fields["images"] = msg
	case strings.Contains(msg, "already exists"):
		fields["name"] = msg
	case strings.Contains(msg, "Invalid category ID"):
		fields["categoryId"] = msg
	}

	message := msg
	if len(fields) == 0 {
		message = statusMessage(apiErr.Status, msg)
	}
	return &RemoteError{Status: apiErr.Status, Message: message, Fields: fields}
}

// remoteVariantError maps a backend error onto variant form fields. The
// collision message is kept even though the backend currently upserts on
// duplicates; that behavior is recent, not guaranteed.
func remoteVariantError(apiErr *catalog.APIError) *RemoteError {
	fields := make(map[string]string)
	msg := apiErr.Message

	if strings.Contains(msg, "already exists") {
		fields["colorId"] = msg
		fields["sizeId"] = msg
	}

	message := msg
	if len(fields) == 0 {
		message = statusMessage(apiErr.Status, msg)
	}
	return &RemoteError{Status: apiErr.Status, Message: message, Fields: fields}
}

// statusMessage is the secondary, status-code based mapping for messages the
// substring matcher did not recognize.
func statusMessage(status int, msg string) string {
	switch {
	case status == 401:
		return "You are not authorized to perform this action"
	case status == 403:
		return "Access denied"
	case status == 404:
		return "The requested item could not be found"
	case status >= 500:
		return "The server is having trouble, please try again later"
	}
	if msg != "" {
		return msg
	}
	return "The operation could not be completed"
}
