package core

// streaming.go turns an uploaded body into the text the extractor reads.
//
// Annual-account exports come from several tools: the NBB portal writes
// UTF-8 with a BOM, Excel on Windows writes Windows-1252, and some users
// upload the spreadsheet itself. The pipeline is:
//
//  1. Count bytes and stop at the size limit (ErrFileTooLarge)
//  2. Sniff the format: XLSX is flattened to CSV text, other binaries are refused
//  3. Skip a UTF-8 BOM
//  4. Decode as UTF-8, falling back to Windows-1252 when the bytes are not valid UTF-8

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and drops a leading UTF-8 BOM.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	pending []byte
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. The first call peeks at three bytes; anything
// that is not a BOM is handed back before further reads.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		head := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(r.reader, head)
		head = head[:n]
		if !bytes.Equal(head, utf8BOM) {
			r.pending = head
		}
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
	}

	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}
	return r.reader.Read(p)
}

// CountingReader tracks bytes read and fails once Limit is exceeded.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64 // 0 means unlimited
}

// NewCountingReader wraps r with an optional byte limit.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, r.Limit)
	}
	return n, err
}

// Format is the detected container of an uploaded document.
type Format string

const (
	FormatText Format = "csv"
	FormatXLSX Format = "xlsx"
)

// sniffFormat decides how to read data, using the magic bytes first and the
// file name as a hint.
func sniffFormat(name string, data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0}):
		return "", fmt.Errorf("%w: legacy .xls workbook, save as .xlsx or .csv", ErrUnsupportedFormat)
	case bytes.HasPrefix(data, []byte("%PDF")):
		return "", fmt.Errorf("%w: PDF, export the annual account as CSV", ErrUnsupportedFormat)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return "", fmt.Errorf("%w: %s is not a valid spreadsheet", ErrUnsupportedFormat, name)
	}
	return FormatText, nil
}

// DecodeText converts raw CSV bytes to a string, skipping a BOM and falling
// back to Windows-1252 for non-UTF-8 input.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("encoding error: %w", err)
	}
	return string(decoded), nil
}

// ReadDocument reads one uploaded document into extractor text. It returns
// the number of bytes consumed so callers can record the upload size.
func ReadDocument(r io.Reader, name string, maxSize int64) (string, int64, error) {
	counter := NewCountingReader(r, maxSize)
	data, err := io.ReadAll(NewBOMSkippingReader(counter))
	if err != nil {
		return "", counter.BytesRead, fmt.Errorf("read %s: %w", displayName(name), err)
	}

	format, err := sniffFormat(name, data)
	if err != nil {
		return "", counter.BytesRead, err
	}

	var text string
	switch format {
	case FormatXLSX:
		text, err = SpreadsheetText(data)
	default:
		text, err = DecodeText(data)
	}
	if err != nil {
		return "", counter.BytesRead, err
	}
	return text, counter.BytesRead, nil
}

func displayName(name string) string {
	if name == "" {
		return "document"
	}
	return name
}
