package engine

import (
	"github.com/FitrahHaque/Repetition-Engine/compressor/lz77"
	"github.com/FitrahHaque/Repetition-Engine/repetition"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Report struct {
	ID     string        `json:"id"`
	Source string        `json:"source"`
	Tokens int           `json:"tokens"`
	Window int           `json:"window"`
	Stream []lz77.Triple `json:"stream,omitempty"`
	Groups []Group       `json:"groups"`
	Stats  Stats         `json:"stats"`
}

// Group is one repeated span as the renderer draws it.
type Group struct {
	Tokens    []string `json:"tokens"`
	Length    int      `json:"length"`
	Intervals [][2]int `json:"intervals"`
}

type Stats struct {
	Steps             int     `json:"steps"`
	Copies            int     `json:"copies"`
	CompressionRatio  float64 `json:"compression_ratio"`
	Coverage          float64 `json:"coverage"`
	LongestGroup      int     `json:"longest_group"`
	MeanGroupLength   float64 `json:"mean_group_length"`
	StdDevGroupLength float64 `json:"stddev_group_length"`
	MeanOccurrences   float64 `json:"mean_occurrences"`
}

func newReport(id, source string, tokens []string, window int, res *repetition.Result[string]) *Report {
	report := &Report{
		ID:     id,
		Source: source,
		Tokens: len(tokens),
		Window: window,
		Stream: res.Stream,
		Groups: make([]Group, 0, res.Map.Len()),
	}
	for _, g := range res.Map.Groups() {
		intervals := make([][2]int, len(g.Intervals))
		for i, iv := range g.Intervals {
			intervals[i] = [2]int{iv.Start, iv.End}
		}
		report.Groups = append(report.Groups, Group{
			Tokens:    g.Tokens,
			Length:    len(g.Tokens),
			Intervals: intervals,
		})
	}
	report.Stats = summarize(len(tokens), res)
	return report
}

func summarize(n int, res *repetition.Result[string]) Stats {
	s := Stats{Steps: len(res.Stream)}
	for _, step := range res.Stream {
		if step.IsCopy() {
			s.Copies++
		}
	}
	if n == 0 {
		return s
	}
	s.CompressionRatio = float64(s.Steps) / float64(n)

	groups := res.Map.Groups()
	if len(groups) == 0 {
		return s
	}
	covered := make([]bool, n)
	lengths := make([]float64, len(groups))
	occurrences := make([]float64, len(groups))
	for i, g := range groups {
		lengths[i] = float64(len(g.Tokens))
		occurrences[i] = float64(len(g.Intervals))
		for _, iv := range g.Intervals {
			for k := iv.Start; k < iv.End; k++ {
				covered[k] = true
			}
		}
	}
	inside := 0
	for _, c := range covered {
		if c {
			inside++
		}
	}
	s.Coverage = float64(inside) / float64(n)
	s.LongestGroup = int(floats.Max(lengths))
	s.MeanGroupLength, s.StdDevGroupLength = stat.PopMeanStdDev(lengths, nil)
	s.MeanOccurrences = stat.Mean(occurrences, nil)
	return s
}
