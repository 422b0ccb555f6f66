package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRole        = errors.New("unknown document role")
	ErrSessionNotFound    = errors.New("session not found")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrNoResult           = errors.New("no analysis result available")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument      = errors.New("document contains no extractable text")
	ErrCredentialMissing  = errors.New("extraction service credential not configured")
)

// ReadError reports that a slot's file could not be turned into text.
type ReadError struct {
	Role DocumentRole
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s document: %v", e.Role, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// UserMessage is the inline message shown next to the slot.
func (e *ReadError) UserMessage() string {
	return fmt.Sprintf("Error reading %s file. Please ensure it is a valid .docx or .txt file.", e.Role.Label())
}

// UnsupportedFormatError reports a file whose content is not meaningful text.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported file type"
	}
	return fmt.Sprintf("unsupported file type: .%s", e.Extension)
}

// ValidationError is returned when a submission does not have all four documents ready.
type ValidationError struct {
	Missing []DocumentRole
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = string(r)
	}
	return fmt.Sprintf("documents not ready: %s", strings.Join(names, ", "))
}

// UserMessage is the blocking message shown on a rejected submission.
func (e *ValidationError) UserMessage() string {
	return "Please upload all 4 required documents before processing."
}

// OracleUnavailableError covers a missing credential and any failure of the
// oracle call itself (network, auth, quota). It never carries the credential.
type OracleUnavailableError struct {
	Reason string
	Err    error
}

func (e *OracleUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction service unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction service unavailable: %s", e.Reason)
}

func (e *OracleUnavailableError) Unwrap() error { return e.Err }

// UserMessage asks the user to check configuration rather than retry blindly.
func (e *OracleUnavailableError) UserMessage() string {
	if errors.Is(e.Err, ErrCredentialMissing) {
		return "The extraction service credential is not configured. Check the deployment environment settings."
	}
	return "Failed to reach the extraction service. Please check the API credential and network connectivity."
}

// OracleResponseError covers an empty or schema-non-conforming oracle response.
type OracleResponseError struct {
	Reason string
	Err    error
}

func (e *OracleResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid extraction response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid extraction response: %s", e.Reason)
}

func (e *OracleResponseError) Unwrap() error { return e.Err }

// UserMessage suggests resubmitting, since the credential is evidently fine.
func (e *OracleResponseError) UserMessage() string {
	return "The extraction service returned an unusable result. Please try again."
}

// NewOracleUnavailable wraps err as an OracleUnavailableError.
func NewOracleUnavailable(reason string, err error) *OracleUnavailableError {
	return &OracleUnavailableError{Reason: reason, Err: err}
}

// NewOracleResponse wraps err as an OracleResponseError.
func NewOracleResponse(reason string, err error) *OracleResponseError {
	return &OracleResponseError{Reason: reason, Err: err}
}

// UserMessage returns the single user-facing message for err. Internal details
// and stack information are never included.
func UserMessage(err error) string {
	var (
		readErr  *ReadError
		valErr   *ValidationError
		unavErr  *OracleUnavailableError
		respErr  *OracleResponseError
		unsupErr *UnsupportedFormatError
	)
	switch {
	case errors.As(err, &valErr):
		return valErr.UserMessage()
	case errors.As(err, &readErr):
		return readErr.UserMessage()
	case errors.As(err, &unsupErr):
		return unsupErr.Error()
	case errors.As(err, &unavErr):
		return unavErr.UserMessage()
	case errors.As(err, &respErr):
		return respErr.UserMessage()
	case errors.Is(err, ErrAnalysisInProgress):
		return "An analysis is already running for this session."
	case errors.Is(err, ErrNoResult):
		return "No analysis result yet. Run the analysis first."
	}
	return "An unexpected error occurred during AI analysis."
}
