package apierr

import (
	"fmt"
	"net/http"
	"strings"
)

// Code defines a canonical error code used across dashboard outputs and the
// JSON endpoints.
type Code string

const (
	// Validation & Input
	Validation Code = "VALIDATION"

	// Data shape
	FileNotFound  Code = "FILE_NOT_FOUND"
	SheetNotFound Code = "SHEET_NOT_FOUND"
	ColumnMissing Code = "COLUMN_MISSING"
	EmptyData     Code = "EMPTY_DATA"

	// Resource & Limits
	BusyResource Code = "BUSY_RESOURCE"
	Timeout      Code = "TIMEOUT"

	// Rendering
	LoadFailed   Code = "LOAD_FAILED"
	RenderFailed Code = "RENDER_FAILED"
)

// Entry documents a code's standard message, HTTP status, retry semantics,
// and next steps.
type Entry struct {
	Code      Code
	Message   string
	Status    int
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation: {Code: Validation, Message: "invalid inputs", Status: http.StatusBadRequest, Retryable: true, NextSteps: []string{"Correct the query parameters and retry"}},

	FileNotFound:  {Code: FileNotFound, Message: "workbook file not found", Status: http.StatusInternalServerError, Retryable: false, NextSteps: []string{"Verify AERODASH_WORKBOOK_PATH points at the registry workbook"}},
	SheetNotFound: {Code: SheetNotFound, Message: "sheet not found in workbook", Status: http.StatusNotFound, Retryable: true, NextSteps: []string{"Pick a sheet from the selector", "Check case and spacing"}},
	ColumnMissing: {Code: ColumnMissing, Message: "expected column absent from sheet", Status: http.StatusUnprocessableEntity, Retryable: false, NextSteps: []string{"Select a sheet that carries the registry columns"}},
	EmptyData:     {Code: EmptyData, Message: "no rows available for this selection", Status: http.StatusOK, Retryable: true, NextSteps: []string{"Relax the manufacturer filter or pick another sheet"}},

	BusyResource: {Code: BusyResource, Message: "concurrent request limit reached", Status: http.StatusServiceUnavailable, Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:      {Code: Timeout, Message: "operation exceeded configured time limit", Status: http.StatusServiceUnavailable, Retryable: true, NextSteps: []string{"Retry; pick a smaller sheet if it persists"}},

	LoadFailed:   {Code: LoadFailed, Message: "failed to load sheet data", Status: http.StatusInternalServerError, Retryable: true, NextSteps: []string{"Retry; verify the workbook is readable"}},
	RenderFailed: {Code: RenderFailed, Message: "failed to render output", Status: http.StatusInternalServerError, Retryable: true, NextSteps: []string{"Retry the refresh"}},
}

// Lookup returns the catalog entry for a code, falling back to RenderFailed
// semantics for unknown codes.
func Lookup(code Code) Entry {
	if e, ok := catalog[code]; ok {
		return e
	}
	return Entry{Code: code, Message: string(code), Status: http.StatusInternalServerError}
}

// Error is a catalog-backed error carrying a canonical code. It unwraps to the
// underlying cause when one is attached.
type Error struct {
	Entry Entry
	Msg   string
	Cause error
}

// New builds a catalog error for a code with an optional message override.
func New(code Code, message string) *Error {
	return &Error{Entry: Lookup(code), Msg: message}
}

// Wrap attaches a cause to a catalog error, preserving the cause for errors.Is.
func Wrap(code Code, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Entry: Lookup(code), Msg: msg, Cause: cause}
}

// Wrapf formats details and returns a catalog error for the code.
func Wrapf(code Code, format string, args ...any) *Error {
	return &Error{Entry: Lookup(code), Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Msg)
	if msg == "" {
		msg = e.Entry.Message
	}
	return fmt.Sprintf("%s: %s", e.Entry.Code, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Status returns the HTTP status associated with the error's code.
func (e *Error) Status() int { return e.Entry.Status }

// Inline renders the compact single-line form used when an output degrades in
// place inside the dashboard HTML. Next-step guidance is appended so the page
// stays useful without structured fields.
func (e *Error) Inline() string {
	s := e.Error()
	if len(e.Entry.NextSteps) > 0 {
		s += " | next: " + strings.Join(e.Entry.NextSteps, "; ")
	}
	return s
}
