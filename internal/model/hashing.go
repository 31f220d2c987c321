package model

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/floats"
)

// HashingEncoder is a deterministic offline encoder: lower-cased word tokens
// are feature-hashed into a fixed number of signed buckets and the result is
// L2-normalised. Texts sharing words point in similar directions.
type HashingEncoder struct {
	dimensions int
}

const defaultDimensions = 384

func NewHashingEncoder(dimensions int) *HashingEncoder {
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}
	return &HashingEncoder{dimensions: dimensions}
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "he": {}, "her": {}, "his": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "she": {}, "that": {},
	"the": {}, "their": {}, "they": {}, "this": {}, "to": {}, "was": {}, "who": {}, "with": {},
}

// Encode never fails. Empty or stop-word-only text yields the zero vector.
func (e *HashingEncoder) Encode(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dimensions)

	for _, token := range tokenize(text) {
		h := xxhash.Sum64String(token)
		idx := h % uint64(e.dimensions)
		if h>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec, nil
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
