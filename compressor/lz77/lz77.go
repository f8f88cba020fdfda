// Package lz77 turns a token sequence into a stream of LZ77 copy triples by
// searching, at every step, for the longest earlier occurrence of the tokens
// that follow within a bounded look-back window.
package lz77

import (
	"context"
)

type Option func(*options)

type options struct {
	onStep func(Triple)
}

// WithStep registers fn to be called with every emitted triple.
func WithStep(fn func(Triple)) Option {
	return func(o *options) {
		o.onStep = fn
	}
}

// Compress emits literal steps as {0,0,next} and returns ErrInvalidWindow
// when window < 1.
func Compress[T comparable](seq []T, window int) ([]Triple, error) {
	return CompressContext(context.Background(), seq, window)
}

// CompressContext is Compress with cancellation checked between steps.
func CompressContext[T comparable](ctx context.Context, seq []T, window int, opts ...Option) ([]Triple, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n := len(seq)
	var stream []Triple
	for i := 0; i < n; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		offset, length := longestMatch(seq, i, window)
		var step Triple
		if length > 0 {
			step = Triple{Offset: offset, Length: length, Next: nextIndex(i+length, n)}
		} else {
			step = Triple{Next: nextIndex(i+1, n)}
		}
		stream = append(stream, step)
		if o.onStep != nil {
			o.onStep(step)
		}
		i += step.Consumed()
	}
	return stream, nil
}

func nextIndex(next, n int) int {
	if next >= n {
		return End
	}
	return next
}

// longestMatch tries candidate lengths 1 .. min(n-i, window)-1. The maximal
// reachable length is never tried; callers that need it terminate the
// sequence with an end token.
func longestMatch[T comparable](seq []T, i, window int) (offset, length int) {
	searchStartIdx := max(0, i-window)
	limit := min(len(seq)-i, window)
	if limit <= 1 {
		return 0, 0
	}
	pattern := seq[i : i+limit-1]
	// an earlier occurrence may run past i, so the search buffer reaches
	// as far as the longest occurrence starting at i-1 could end
	searchBuffer := seq[searchStartIdx : i+len(pattern)-1]
	matchedLength, matchedAt := kmp(searchBuffer, pattern, i-searchStartIdx)
	if matchedLength == 0 {
		return 0, 0
	}
	return i - (searchStartIdx + matchedAt), matchedLength
}

func findPrefix[T comparable](pattern []T) []int {
	pi := make([]int, len(pattern))
	for i := 1; i < len(pattern); i++ {
		j := pi[i-1]
		for j > 0 && pattern[i] != pattern[j] {
			j = pi[j-1]
		}
		if pattern[i] == pattern[j] {
			j++
		}
		pi[i] = j
	}
	return pi
}

// kmp returns the longest prefix of pattern found in searchBuffer starting
// before startLimit, and the lowest start of that prefix.
func kmp[T comparable](searchBuffer, pattern []T, startLimit int) (int, int) {
	pi := findPrefix(pattern)
	best, k, bestIndex := 0, 0, 0
	for i, b := range searchBuffer {
		for k > 0 && b != pattern[k] {
			k = pi[k-1]
		}
		if b == pattern[k] {
			k++
		}
		start := i - k + 1
		if start >= startLimit {
			// starts only move right from here
			break
		}
		if best < k {
			best = k
			bestIndex = start
		}
		if k == len(pattern) {
			break
		}
	}
	return best, bestIndex
}
