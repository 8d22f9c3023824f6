// Package statement decodes uploaded bank statements into plain text.
package statement

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/xuri/excelize/v2"
)

// MaxDecodedBytes caps the text handed to the categorizer.
const MaxDecodedBytes = 500 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder implements services.StatementDecoder for csv, txt and xlsx files.
type Decoder struct {
	maxBytes int
}

// NewDecoder returns a Decoder with the default output cap.
func NewDecoder() *Decoder {
	return &Decoder{maxBytes: MaxDecodedBytes}
}

// Decode dispatches on the file extension.
func (d *Decoder) Decode(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperrors.NewValidationError("file %q is empty", fileName)
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")); ext {
	case "csv", "txt":
		text, err = decodeText(data)
	case "xlsx":
		text, err = decodeWorkbook(data)
	case "xls":
		return "", apperrors.NewValidationError("legacy .xls files are not supported, save the statement as .xlsx or .csv")
	default:
		return "", apperrors.NewValidationError("unsupported file type %q", ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewValidationError("file %q has no readable content", fileName)
	}
	return truncateUTF8(text, d.maxBytes), nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", apperrors.NewValidationError("file is not valid UTF-8 text")
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// decodeWorkbook renders the first sheet as CSV.
func decodeWorkbook(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", apperrors.NewValidationError("could not open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", apperrors.NewValidationError("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("render sheet %s: %w", sheets[0], err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("render sheet %s: %w", sheets[0], err)
	}
	return buf.String(), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
