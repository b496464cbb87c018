package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// naValues are the cell spellings read as missing (NaN), following the
// defaults of the training toolchain's CSV reader.
var naValues = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"NULL": true,
	"null": true,
	"#N/A": true,
	"<NA>": true,
	"None": true,
}

var knownColumns = func() map[string]bool {
	m := make(map[string]bool, len(RawColumns))
	for _, c := range RawColumns {
		m[c] = true
	}
	return m
}()

// ParseCSV reads a header row followed by one observation per row. Cells of
// known terrain columns must be numeric or a missing marker; unparseable
// cells in unrecognised columns are kept as NaN. Malformed input yields a
// *ParseError.
func ParseCSV(r io.Reader) (Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Frame{}, fmt.Errorf("read csv: %w", err)
	}
	if !utf8.Valid(data) {
		return Frame{}, &ParseError{Msg: "input is not valid UTF-8"}
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Frame{}, &ParseError{Msg: "No columns to parse from file"}
	}
	if err != nil {
		return Frame{}, csvParseError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := checkHeader(header); err != nil {
		return Frame{}, err
	}

	frame := Frame{Columns: slices.Clone(header)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Frame{}, csvParseError(err)
		}
		line, _ := cr.FieldPos(0)
		row, err := parseRow(header, rec, line)
		if err != nil {
			return Frame{}, err
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if col == "" {
			return &ParseError{Line: 1, Msg: "empty column name in header"}
		}
		if seen[col] {
			return &ParseError{Line: 1, Column: col, Msg: "duplicate column name"}
		}
		seen[col] = true
	}
	return nil
}

// parseRow converts one record. Short records are padded with NaN; long ones
// are rejected. Label cells are never converted since the label is dropped.
func parseRow(header, rec []string, line int) ([]float64, error) {
	if len(rec) > len(header) {
		return nil, &ParseError{
			Line: line,
			Msg:  fmt.Sprintf("Expected %d fields, saw %d", len(header), len(rec)),
		}
	}
	row := make([]float64, len(header))
	for i := len(rec); i < len(header); i++ {
		row[i] = math.NaN()
	}
	for i, cell := range rec {
		cell = strings.TrimSpace(cell)
		if naValues[cell] || header[i] == ColCoverType {
			row[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			if !knownColumns[header[i]] {
				row[i] = math.NaN()
				continue
			}
			return nil, &ParseError{
				Line:   line,
				Column: header[i],
				Msg:    fmt.Sprintf("could not convert string to float: %q", cell),
			}
		}
		row[i] = v
	}
	return row, nil
}

func csvParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Msg: pe.Err.Error()}
	}
	return &ParseError{Msg: err.Error()}
}
