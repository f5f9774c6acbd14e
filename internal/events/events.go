// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// TopicReviewCreated is published after every committed review write.
const TopicReviewCreated = "reviews.created"

// SchemaVersion is the current ReviewCreated payload version.
const SchemaVersion = 1

// ReviewCreated announces a new review and the dataset version it produced.
type ReviewCreated struct {
	SchemaVersion  int       `json:"schema_version,omitempty"`
	ReviewID       int64     `json:"review_id"`
	MovieID        int64     `json:"movie_id"`
	UserID         int64     `json:"user_id"`
	Sentiment      string    `json:"sentiment"`
	DatasetVersion int64     `json:"dataset_version"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks required fields.
func (e *ReviewCreated) Validate() error {
	if e.ReviewID <= 0 {
		return errors.New("review_id is required")
	}
	if e.MovieID <= 0 {
		return errors.New("movie_id is required")
	}
	if e.Sentiment == "" {
		return errors.New("sentiment is required")
	}
	return nil
}

// Marshal encodes the event, stamping the current schema version.
func (e *ReviewCreated) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersion
	}
	return json.Marshal(e)
}

// UnmarshalReviewCreated decodes and validates a payload.
func UnmarshalReviewCreated(data []byte) (*ReviewCreated, error) {
	var e ReviewCreated
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode review event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid review event: %w", err)
	}
	return &e, nil
}
