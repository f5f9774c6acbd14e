// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"
)

// TFIDF is a term-frequency / inverse-document-frequency vectorizer fitted
// on one corpus. The vocabulary is rebuilt on every fit; nothing persists
// between requests.
//
// Weighting:
//
//	tf(t, d)  = raw count of t in d
//	idf(t)    = ln((1 + n) / (1 + df(t))) + 1
//	row(d)    = L2-normalized tf * idf
//
// Tokens are whitespace-separated, lowercased and at least two runes long.
type TFIDF struct {
	vocabulary []string
	index      map[string]int
	idf        []float64
}

// FitTFIDF builds the vocabulary and IDF weights from docs.
func FitTFIDF(docs []string) *TFIDF {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenizeDocument(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	vocab := make([]string, 0, len(df))
	for tok := range df {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
		idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	return &TFIDF{
		vocabulary: vocab,
		index:      index,
		idf:        idf,
	}
}

// Vocabulary returns the fitted terms in column order.
func (v *TFIDF) Vocabulary() []string {
	return v.vocabulary
}

// Transform returns the len(docs) x |vocabulary| TF-IDF matrix with
// L2-normalized rows. Out-of-vocabulary tokens are ignored. An empty
// vocabulary yields a single all-zero column so the result is always a
// valid matrix. Returns nil for an empty corpus.
func (v *TFIDF) Transform(docs []string) *mat.Dense {
	if len(docs) == 0 {
		return nil
	}

	cols := len(v.vocabulary)
	if cols == 0 {
		return mat.NewDense(len(docs), 1, nil)
	}

	m := mat.NewDense(len(docs), cols, nil)
	for i, doc := range docs {
		row := m.RawRowView(i)
		for _, tok := range tokenizeDocument(doc) {
			if j, ok := v.index[tok]; ok {
				row[j]++
			}
		}
		for j := range row {
			row[j] *= v.idf[j]
		}
		normalizeL2(row)
	}
	return m
}

// FitTransform is FitTFIDF(docs).Transform(docs).
func FitTransform(docs []string) (*mat.Dense, []string) {
	v := FitTFIDF(docs)
	return v.Transform(docs), v.Vocabulary()
}

func tokenizeDocument(doc string) []string {
	fields := strings.Fields(strings.ToLower(doc))
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
