package lz77

import (
	"errors"
	"fmt"
)

// End marks the Next of the step that consumes the last token.
const End = -1

var (
	ErrInvalidWindow   = errors.New("window size must be at least 1")
	ErrMalformedStream = errors.New("malformed triple stream")
)

// Triple is one step of the compressed stream. A literal step has Offset 0
// and Length 0 or 1 and consumes a single token.
type Triple struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
	Next   int `json:"next"`
}

func (t Triple) Consumed() int {
	if t.Length > 0 {
		return t.Length
	}
	return 1
}

func (t Triple) IsCopy() bool {
	return t.Offset > 0 && t.Length > 0
}

// Resolve returns Next with End mapped to the sequence length n.
func (t Triple) Resolve(n int) int {
	if t.Next == End {
		return n
	}
	return t.Next
}

func (t Triple) String() string {
	if t.Next == End {
		return fmt.Sprintf("<%d,%d,end>", t.Offset, t.Length)
	}
	return fmt.Sprintf("<%d,%d,%d>", t.Offset, t.Length, t.Next)
}

// Validate checks that stream partitions [0,n) and that every copy refers
// to a span starting inside the already consumed prefix.
func Validate(n int, stream []Triple) error {
	position := 0
	for k, t := range stream {
		if t.Offset < 0 || t.Length < 0 {
			return fmt.Errorf("%w: step %d %v has negative fields", ErrMalformedStream, k, t)
		}
		if t.Length > 1 && t.Offset == 0 {
			return fmt.Errorf("%w: step %d %v copies without an offset", ErrMalformedStream, k, t)
		}
		if t.IsCopy() && t.Offset > position {
			return fmt.Errorf("%w: step %d %v refers before index 0", ErrMalformedStream, k, t)
		}
		position += t.Consumed()
		if position > n {
			return fmt.Errorf("%w: step %d %v runs past length %d", ErrMalformedStream, k, t, n)
		}
		expected := position
		if position == n {
			expected = End
		}
		if t.Next != expected {
			return fmt.Errorf("%w: step %d %v, want next %d", ErrMalformedStream, k, t, expected)
		}
	}
	if position != n {
		return fmt.Errorf("%w: stream covers %d of %d tokens", ErrMalformedStream, position, n)
	}
	return nil
}
