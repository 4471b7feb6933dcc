// Package ingest reads uploaded CSV files whose text encoding is unknown.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/IshaanNene/reviewmood/internal/types"
)

// Table is a decoded CSV file.
type Table struct {
	Name     string
	Encoding string
	Header   []string
	Rows     [][]string
}

// Column returns the values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (have %s)", types.ErrMissingColumn, name, strings.Join(t.Header, ", "))
	}

	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, "")
		}
	}
	return values, nil
}

// errInvalidUTF8 marks a UTF-8 attempt that hit a bad byte sequence.
var errInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

// decoders maps the accepted encoding names to byte-to-string decoders.
var decoders = map[string]func([]byte) (string, error){
	"utf-8":      decodeUTF8,
	"utf8":       decodeUTF8,
	"latin-1":    decodeLatin1,
	"latin1":     decodeLatin1,
	"iso-8859-1": decodeLatin1,
}

func decodeUTF8(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

func decodeLatin1(b []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KnownEncoding reports whether name is an accepted encoding.
func KnownEncoding(name string) bool {
	_, ok := decoders[strings.ToLower(name)]
	return ok
}

// Reader decodes CSV uploads by trying a fixed list of encodings in order.
type Reader struct {
	encodings []string
	logger    *slog.Logger
}

// NewReader creates a Reader that tries encodings in the given order.
func NewReader(encodings []string, logger *slog.Logger) *Reader {
	return &Reader{
		encodings: encodings,
		logger:    logger.With("component", "ingest"),
	}
}

// Read decodes r as CSV under the first encoding that works. Only decode
// failures move on to the next encoding; a malformed CSV is returned as is.
// When no encoding works the error wraps types.ErrDecode.
func (rd *Reader) Read(r io.Reader, name string) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var tried []string
	for _, enc := range rd.encodings {
		tried = append(tried, enc)

		decode, ok := decoders[strings.ToLower(enc)]
		if !ok {
			rd.logger.Warn("unknown encoding, skipping", "file", name, "encoding", enc)
			continue
		}

		text, err := decode(raw)
		if err != nil {
			rd.logger.Warn("failed to decode using encoding", "file", name, "encoding", enc, "error", err)
			continue
		}

		table, err := parseCSV(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s as CSV: %w", name, err)
		}
		table.Name = name
		table.Encoding = enc

		rd.logger.Info("CSV file successfully loaded", "file", name, "encoding", enc, "rows", len(table.Rows))
		return table, nil
	}

	return nil, &types.DecodeError{Name: name, Tried: tried, Err: types.ErrDecode}
}

// ReadColumn decodes r and returns the named column.
func (rd *Reader) ReadColumn(r io.Reader, name, column string) (*Table, []string, error) {
	table, err := rd.Read(r, name)
	if err != nil {
		return nil, nil, err
	}
	values, err := table.Column(column)
	if err != nil {
		return table, nil, err
	}
	return table, values, nil
}

func parseCSV(text string) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}
