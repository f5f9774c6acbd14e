// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/tomtom215/cinerec/internal/logging"
)

// AccessLog logs one line per request through zerolog's hlog. Server
// errors log at warn, everything else at debug.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			level := zerolog.DebugLevel
			if status >= http.StatusInternalServerError {
				level = zerolog.WarnLevel
			}
			logging.Ctx(r.Context()).WithLevel(level).
				Str("method", r.Method).
				Str("route", RoutePattern(r)).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		})(next)
	}
}
