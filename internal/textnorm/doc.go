// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package textnorm turns Russian review text into normalized tokens for
// topic clustering.
//
// Normalize lowercases the text, extracts runs of Cyrillic letters
// ([а-яё]+), lemmatizes each word and drops Russian stop-words. Latin
// letters, digits and punctuation never produce tokens.
//
// Lemmatization is delegated to a Lemmatizer (HTTPLemmatizer talks to a
// morphology service). Results are memoized per word in an injected,
// bounded LRU so concurrent requests share lemmas without global state.
// A Lemmatizer failure is returned to the caller; there is no fallback to
// the surface form.
package textnorm
