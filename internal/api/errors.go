// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"errors"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// writeServiceError maps an error from the store or the engine to a
// response:
//
//	recommend.ErrCollaborator  → 502 EXTERNAL_SERVICE_FAILED
//	context.DeadlineExceeded   → 504 TIMEOUT
//	database.ErrNotFound       → 404 NOT_FOUND
//	database.ErrInvalidReview  → 400 VALIDATION_ERROR
//	anything else              → 500 DATABASE_ERROR
//
// The collaborator check comes first: a lemmatizer timeout is an upstream
// failure, not a deadline on our side.
func writeServiceError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrCollaborator):
		rw.ExternalServiceError(err)
	case errors.Is(err, context.DeadlineExceeded):
		rw.Timeout()
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Resource not found")
	case errors.Is(err, database.ErrInvalidReview):
		rw.ValidationError(err.Error(), nil)
	default:
		rw.DatabaseError(err)
	}
}
