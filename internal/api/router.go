// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinerec/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perfMon       *middleware.PerformanceMonitor
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterPerformanceMonitor samples every API request into pm.
func WithRouterPerformanceMonitor(pm *middleware.PerformanceMonitor) RouterOption {
	return func(r *Router) { r.perfMon = pm }
}

// NewRouter creates a router. A nil chiMW uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, opts ...RouterOption) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	router := &Router{handler: handler, chiMiddleware: chiMW}
	for _, opt := range opts {
		opt(router)
	}
	return router
}

// Setup returns the root http.Handler.
//
//	GET  /metrics
//	GET  /api/v1/health/live
//	GET  /api/v1/health/ready
//	GET  /api/v1/stats
//	POST /api/v1/reviews
//	GET  /api/v1/reviews
//	GET  /api/v1/movies
//	GET  /api/v1/movies/{movieID}
//	GET  /api/v1/recommendations/clusters
//	GET  /api/v1/recommendations/users/{userID}/collaborative
//	GET  /api/v1/recommendations/users/{userID}/semantic
//	GET  /api/v1/recommendations/users/{userID}/popular
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Applied to every route, outermost first
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	if router.perfMon != nil {
		r.Use(router.perfMon.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("No route for " + req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/stats", router.handler.Stats)
			r.Get("/reviews", router.handler.ListReviews)
			r.Get("/movies", router.handler.ListMovies)
			r.Get("/movies/{movieID}", router.handler.GetMovie)
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/reviews", router.handler.CreateReview)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitRecommend())
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/clusters", router.handler.Clusters)
			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/collaborative", router.handler.Collaborative)
				r.Get("/semantic", router.handler.Semantic)
				r.Get("/popular", router.handler.Popular)
			})
		})
	})

	return r
}
