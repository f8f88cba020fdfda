// Package repetition reports recurring contiguous spans of a token sequence,
// grouped by their content, from the copy triples of an LZ77 pass.
package repetition

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/FitrahHaque/Repetition-Engine/compressor/lz77"
)

// NoiseLength is the longest match that is not reported as a repetition.
const NoiseLength = 2

var ErrContentMismatch = errors.New("copy triple refers to different content")

type Result[T comparable] struct {
	Stream []lz77.Triple
	Map    *Map[T]
}

// Extract groups the copies of stream by the tokens they cover. Copies no
// longer than NoiseLength, and copies whose two occurrences share tokens,
// are skipped.
func Extract[T comparable](seq []T, stream []lz77.Triple) (*Map[T], error) {
	if err := lz77.Validate(len(seq), stream); err != nil {
		return nil, err
	}
	m := newMap[T]()
	n := len(seq)
	for _, step := range stream {
		next := step.Resolve(n)
		if step.Length <= NoiseLength {
			continue
		}
		if next-step.Offset > next-step.Length {
			continue
		}
		current := Interval{Start: next - step.Length, End: next}
		earlier := Interval{Start: current.Start - step.Offset, End: current.End - step.Offset}
		content := seq[current.Start:current.End]
		if !slices.Equal(content, seq[earlier.Start:earlier.End]) {
			return nil, fmt.Errorf("%w: step %v", ErrContentMismatch, step)
		}
		m.add(content, current, earlier)
	}
	return m, nil
}

// terminated wraps a token so that one extra value, distinct from every
// token, can close the sequence.
type terminated[T comparable] struct {
	token T
	end   bool
}

// Detect compresses seq closed by an end marker and extracts its
// repetitions. A window of 0 or less looks back over the whole sequence.
// The returned stream covers seq only; the marker's own step is dropped.
func Detect[T comparable](ctx context.Context, seq []T, window int, opts ...lz77.Option) (*Result[T], error) {
	n := len(seq)
	closed := make([]terminated[T], n+1)
	for i, tok := range seq {
		closed[i] = terminated[T]{token: tok}
	}
	closed[n] = terminated[T]{end: true}
	if window <= 0 {
		window = len(closed)
	}

	stream, err := lz77.CompressContext(ctx, closed, window, opts...)
	if err != nil {
		return nil, err
	}
	// the marker never matches, so it is always the last, literal step
	stream = stream[:len(stream)-1]
	if len(stream) > 0 {
		stream[len(stream)-1].Next = lz77.End
	}

	m, err := Extract(seq, stream)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Stream: stream, Map: m}, nil
}
