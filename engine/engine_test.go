package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FitrahHaque/Repetition-Engine/logging"
	"github.com/FitrahHaque/Repetition-Engine/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectFileLines(t *testing.T) {
	path := writeFile(t, "seq.txt", "a\nb\nc\na\nb\nc\n")
	var progress bytes.Buffer
	e := New(Options{Format: "lines", Progress: &progress}, nil)

	report, err := e.DetectFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, report.Source)
	assert.Equal(t, 6, report.Tokens)
	assert.Equal(t, 7, report.Window)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, []Group{{
		Tokens:    []string{"a", "b", "c"},
		Length:    3,
		Intervals: [][2]int{{0, 3}, {3, 6}},
	}}, report.Groups)

	assert.Equal(t, Stats{
		Steps:             4,
		Copies:            1,
		CompressionRatio:  4.0 / 6.0,
		Coverage:          1,
		LongestGroup:      3,
		MeanGroupLength:   3,
		StdDevGroupLength: 0,
		MeanOccurrences:   2,
	}, report.Stats)
}

func TestDetectFilesKeepsOrder(t *testing.T) {
	first := writeFile(t, "first.txt", "x\ny\nz\nx\ny\nz\nw\n")
	second := writeFile(t, "second.txt", "p\nq\n")
	var logs bytes.Buffer
	e := New(Options{Format: "lines"}, logging.NewWriterLogger(&logs))

	reports, err := e.DetectFiles(context.Background(), []string{first, second})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, first, reports[0].Source)
	assert.Len(t, reports[0].Groups, 1)
	assert.Equal(t, second, reports[1].Source)
	assert.Empty(t, reports[1].Groups)
	assert.Equal(t, 2, strings.Count(logs.String(), "detected repetitions"))
}

func TestDetectFilesMissing(t *testing.T) {
	e := New(Options{Format: "lines"}, nil)
	_, err := e.DetectFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectFileUnknownFormat(t *testing.T) {
	path := writeFile(t, "seq.txt", "a\n")
	e := New(Options{Format: "midi"}, nil)
	_, err := e.DetectFile(context.Background(), path)
	assert.ErrorIs(t, err, tokenize.ErrUnknownFormat)
}

func TestDetectAnnotations(t *testing.T) {
	rows := strings.Repeat("0:0:C MAJOR_TRIAD:C:C DUR:T (I):1:f.mid\n0:2:F MAJOR_TRIAD:F:null:S (IV):1:f.mid\n0:3:G MAJOR_TRIAD:G:null:D (V):1:f.mid\n", 2)
	path := writeFile(t, "turca.txt", rows)
	e := New(Options{Format: "annotation", Fields: []string{"chord", "function"}}, nil)

	report, err := e.DetectFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, []string{"C MAJOR_TRIAD|T (I)", "F MAJOR_TRIAD|S (IV)", "G MAJOR_TRIAD|D (V)"}, report.Groups[0].Tokens)
}

func TestDetectTokensEmpty(t *testing.T) {
	report, err := New(Options{}, nil).DetectTokens(context.Background(), "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, report.Stats)
	assert.Empty(t, report.Groups)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groups":[]`)
}
