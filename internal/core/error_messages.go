package core

// error_messages.go maps technical errors to messages an accountant can act
// on. Each message carries a code users can quote to support.
//
// # Document Errors (DOC001-DOC099)
//
//	DOC001 - Empty document          Patterns: "empty document"
//	DOC002 - Unsupported format      Patterns: "unsupported document format"
//	DOC003 - Invalid fiscal year     Patterns: "invalid fiscal year"
//	DOC004 - Invalid company key     Patterns: "invalid company key"
//	DOC005 - Company not found       Patterns: "company not found"
//	DOC006 - Year not found          Patterns: "year not found"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key            Patterns: "duplicate key", "unique constraint"
//	DB002 - Connection refused       Patterns: "connection refused"
//	DB003 - Connection reset         Patterns: "connection reset"
//	DB004 - Database locked          Patterns: "database is locked", "sqlite_busy"
//	DB005 - Timeout                  Patterns: "timeout"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Unknown export format   Patterns: "unsupported export format"
//	VAL002 - Invalid request         Patterns: "invalid request"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large         Patterns: "file too large"
//	FILE002 - Encoding error         Patterns: "encoding error"
//	FILE003 - No file                Patterns: "no file provided"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy             Patterns: "too many uploads"
//	UPL002 - Request cancelled       Patterns: "context canceled"
//	UPL003 - Request timeout         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited           Patterns: "rate limit"
//
// Anything else maps to ERR000; check the logs for the original error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Documents
	{"empty document", UserMessage{
		Message: "The uploaded document is empty",
		Action:  "Export the annual account again and upload the CSV with its data rows",
		Code:    "DOC001",
	}},
	{"unsupported document format", UserMessage{
		Message: "This file type cannot be read",
		Action:  "Upload the NBB CSV export or an .xlsx workbook",
		Code:    "DOC002",
	}},
	{"invalid fiscal year", UserMessage{
		Message: "The fiscal year is not valid",
		Action:  "Use a four-digit year such as 2023",
		Code:    "DOC003",
	}},
	{"invalid company key", UserMessage{
		Message: "The company name is not valid",
		Action:  "Use letters, digits, dots, dashes or underscores",
		Code:    "DOC004",
	}},
	{"company not found", UserMessage{
		Message: "No annual accounts are stored for this company",
		Action:  "Upload at least one fiscal year first",
		Code:    "DOC005",
	}},
	{"year not found", UserMessage{
		Message: "This fiscal year has not been uploaded",
		Action:  "Check the year or upload the document for it",
		Code:    "DOC006",
	}},

	// Database
	{"duplicate key", UserMessage{
		Message: "This record already exists",
		Action:  "Please try again",
		Code:    "DB001",
	}},
	{"unique constraint", UserMessage{
		Message: "This record already exists",
		Action:  "Please try again",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB002",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB003",
	}},
	{"database is locked", UserMessage{
		Message: "The database is busy",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"sqlite_busy", UserMessage{
		Message: "The database is busy",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB005",
	}},

	// Validation
	{"unsupported export format", UserMessage{
		Message: "Unknown export format",
		Action:  "Choose csv, json or xlsx",
		Code:    "VAL001",
	}},
	{"invalid request", UserMessage{
		Message: "The request is missing or has invalid fields",
		Action:  "Check the submitted form values",
		Code:    "VAL002",
	}},

	// Files
	{"file too large", UserMessage{
		Message: "File exceeds the maximum size",
		Action:  "Upload only the annual-account export, not a full archive",
		Code:    "FILE001",
	}},
	{"encoding error", UserMessage{
		Message: "File contains characters that cannot be read",
		Action:  "Save the file as UTF-8 CSV",
		Code:    "FILE002",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to upload",
		Code:    "FILE003",
	}},

	// Uploads
	{"too many uploads", UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try again, or upload a smaller file",
		Code:    "UPL003",
	}},

	// Rate limiting
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000.
//
//	msg := MapError(fmt.Errorf("ingest: %w", ErrEmptyDocument))
//	// msg.Code == "DOC001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message. Error returns
// the user message; Unwrap exposes the original for logging and errors.Is.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err, returning nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
