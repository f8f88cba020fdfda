// Package tokenize turns input files into the token sequences searched for
// repetition.
package tokenize

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

var (
	ErrUnknownFormat = errors.New("unknown token format")
	ErrUnknownField  = errors.New("unknown annotation field")
	ErrMalformedRow  = errors.New("malformed annotation row")
)

var Formats = [...]string{
	"lines",
	"annotation",
}

// Columns of the annotation export, in file order.
var Columns = [...]string{"order", "end", "chord", "root", "key", "function", "sequence", "file"}

const (
	separator = ':'
	absent    = "-"
	joiner    = "|"
)

// Read tokenizes r according to format. fields only applies to annotations.
func Read(format string, r io.Reader, fields []string) ([]string, error) {
	switch format {
	case "lines":
		return Lines(r)
	case "annotation":
		return Annotations(r, fields)
	}
	return nil, fmt.Errorf("%w: %q, choices include: %s", ErrUnknownFormat, format, strings.Join(Formats[:], ", "))
}

// Lines yields one token per non-blank line.
func Lines(r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			tokens = append(tokens, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Annotations yields one token per analysed event that carries a chord,
// joining the selected fields. The key column only appears on modulations,
// so it is carried forward to the following rows.
func Annotations(r io.Reader, fields []string) ([]string, error) {
	columns := make([]int, len(fields))
	for i, field := range fields {
		column := slices.Index(Columns[:], strings.ToLower(strings.TrimSpace(field)))
		if column < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		columns[i] = column
	}
	keyColumn := slices.Index(Columns[:], "key")
	chordColumn := slices.Index(Columns[:], "chord")

	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var tokens []string
	currentKey := ""
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < len(Columns) {
			return nil, fmt.Errorf("%w: line %d has %d of %d columns", ErrMalformedRow, line, len(record), len(Columns))
		}
		for i := range record {
			record[i] = value(record[i])
		}
		if record[keyColumn] != "" {
			currentKey = record[keyColumn]
		}
		record[keyColumn] = currentKey
		if record[chordColumn] == "" {
			continue
		}

		parts := make([]string, len(columns))
		for i, column := range columns {
			parts[i] = record[column]
			if parts[i] == "" {
				parts[i] = absent
			}
		}
		tokens = append(tokens, strings.Join(parts, joiner))
	}
	return tokens, nil
}

func value(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "null" {
		return ""
	}
	return v
}
