// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process wide (thread-safe, caches
// struct info). Error messages use the json field names, so a client that
// posts
//
//	{"movie_title": "", "review_text": "…", "rating": 11}
//
// gets back
//
//	movie_title is required; rating must be at most 10
//
// under the VALIDATION_ERROR code.
//
// # Custom Tags
//
//   - notblank: rejects strings that are empty after trimming spaces
//   - sentiment: accepts positive, neutral or negative in any case
//
// # Usage
//
//	type CreateReviewRequest struct {
//	    UserID     int64  `json:"user_id" validate:"gte=1"`
//	    MovieTitle string `json:"movie_title" validate:"required,notblank,max=500"`
//	    ReviewText string `json:"review_text" validate:"required,notblank,max=20000"`
//	    Rating     int    `json:"rating" validate:"gte=1,lte=10"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // 400 with apiErr.Code and apiErr.Message
//	}
package validation
