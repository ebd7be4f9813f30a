// Package tfidf implements a fitted lexical vector model over unigram and
// bigram term features. A fitted vectorizer round-trips through JSON so it
// can be persisted inside a knowledge snapshot and later project queries
// into the same vector space.
package tfidf

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"processgpt/internal/sparse"
)

// Tokens are runs of at least two word characters, lowercased.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer is a TF-IDF model with a fixed vocabulary. The zero value is
// unfitted; use Fit or unmarshal a persisted model before Transform.
type Vectorizer struct {
	terms []string
	index map[string]int
	idf   []float64
}

// New creates an unfitted vectorizer.
func New() *Vectorizer {
	return &Vectorizer{index: make(map[string]int)}
}

// Fit builds the vocabulary and IDF weights from the corpus. Every term
// appearing in at least one document is retained.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range features(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(df) == 0 {
		return errors.New("tfidf: corpus produced no terms")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.terms = terms
	v.index = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.index[term] = i
		// Smoothed IDF.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return nil
}

// FitTransform fits the model and returns the L2-normalized chunk-term
// matrix, one row per corpus entry.
func (v *Vectorizer) FitTransform(corpus []string) (*sparse.Matrix, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	rows := make([]sparse.Vector, len(corpus))
	for i, text := range corpus {
		rows[i] = v.Transform(text)
	}
	return sparse.NewMatrix(rows, len(v.terms)), nil
}

// Transform projects text into the fitted vector space. Terms outside the
// vocabulary contribute zero weight. The result is L2-normalized; text with
// no known terms yields an empty (zero) vector.
func (v *Vectorizer) Transform(text string) sparse.Vector {
	vec := make(sparse.Vector)
	for _, term := range features(text) {
		if i, ok := v.index[term]; ok {
			vec[i] += v.idf[i]
		}
	}
	vec.Normalize()
	return vec
}

// NumFeatures returns the vocabulary size of the fitted model.
func (v *Vectorizer) NumFeatures() int { return len(v.terms) }

// Fitted reports whether the model carries a vocabulary.
func (v *Vectorizer) Fitted() bool { return len(v.terms) > 0 }

// features returns the unigram and bigram terms of text in order.
func features(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

type persistedModel struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

// MarshalJSON serializes the fitted vocabulary and IDF weights.
func (v *Vectorizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(persistedModel{Terms: v.terms, IDF: v.idf})
}

// UnmarshalJSON restores a fitted model persisted by MarshalJSON.
func (v *Vectorizer) UnmarshalJSON(data []byte) error {
	var p persistedModel
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if len(p.Terms) != len(p.IDF) {
		return errors.New("tfidf: term/idf length mismatch")
	}
	v.terms = p.Terms
	v.idf = p.IDF
	v.index = make(map[string]int, len(p.Terms))
	for i, term := range p.Terms {
		v.index[term] = i
	}
	return nil
}
