package explain

import "strings"

// Input is one explanation row: either a scalar text or an array of
// segments produced by a masker. Pair optionally carries a secondary
// input for sentence-pair tasks.
//
// An Input is immutable once handed to a Scorer for the lifetime of its
// row; callers must not mutate Segments afterwards.
type Input struct {
	Text     string
	Segments []string
	Pair     string
}

// Text builds a scalar text input.
func Text(s string) Input { return Input{Text: s} }

// TextPair builds a scalar text input with a secondary input.
func TextPair(s, pair string) Input { return Input{Text: s, Pair: pair} }

// Segments builds an array input from masker segments.
func Segments(segs ...string) Input { return Input{Segments: segs} }

// IsArray reports whether the input is array-shaped.
func (in Input) IsArray() bool { return in.Segments != nil }

// String returns the text form used for tokenization: the scalar text,
// or the segments concatenated in order. Maskers emit segments that
// carry their own spacing, so no separator is inserted.
func (in Input) String() string {
	if !in.IsArray() {
		return in.Text
	}
	var sb strings.Builder
	for _, s := range in.Segments {
		sb.WriteString(s)
	}
	return sb.String()
}
