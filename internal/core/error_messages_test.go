package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped empty document",
			err:         fmt.Errorf("ingest acme/2023: %w", ErrEmptyDocument),
			wantCode:    "DOC001",
			wantMessage: "The uploaded document is empty",
		},
		{
			name:        "unsupported format",
			err:         fmt.Errorf("%w: PDF", ErrUnsupportedFormat),
			wantCode:    "DOC002",
			wantMessage: "This file type cannot be read",
		},
		{
			name:     "invalid year",
			err:      ValidateYear(1492),
			wantCode: "DOC003",
		},
		{
			name:     "year not found",
			err:      ErrYearNotFound,
			wantCode: "DOC006",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB002",
			wantMessage: "Unable to connect to database",
		},
		{
			name:     "sqlite busy",
			err:      errors.New("database is locked (5) (SQLITE_BUSY)"),
			wantCode: "DB004",
		},
		{
			name:     "file too large",
			err:      fmt.Errorf("read x.csv: %w: more than 10 bytes", ErrFileTooLarge),
			wantCode: "FILE001",
		},
		{
			name:     "limiter busy",
			err:      ErrUploadBusy,
			wantCode: "UPL001",
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantCode: "UPL003",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("DUPLICATE KEY value violates"),
			wantCode: "DB001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrCompanyNotFound)

	expected := "No annual accounts are stored for this company (Code: DOC005). Upload at least one fiscal year first"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrEmptyDocument, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	techErr := fmt.Errorf("decode: %w", ErrUnsupportedFormat)
	userErr := NewUserError(techErr)

	if userErr.Error() != "This file type cannot be read" {
		t.Errorf("Error() = %q, want user message", userErr.Error())
	}
	if !errors.Is(userErr, ErrUnsupportedFormat) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
}
