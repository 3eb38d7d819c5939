package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(apiHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/learners", func(r chi.Router) {
		r.Post("/", s.handleCreateLearner)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLearner)
			r.Post("/chapters", s.handleCompleteChapters)
			r.Get("/reviews", s.handleReviewQueue)
			r.Get("/timeline", s.handleTimeline)
			r.Get("/snapshots", s.handleSnapshots)
			r.Post("/refresh", s.handleRefresh)
		})
	})

	r.Route("/masteries", func(r chi.Router) {
		r.Post("/", s.handleCreateMastery)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMastery)
			r.Get("/decay", s.handleDecay)
			r.Get("/projection", s.handleProjection)
			r.Post("/practice", s.handlePractice)
		})
	})
	return r
}
