package api

import (
	"net/http"

	"github.com/vytor/recall/internal/services"
)

func (s *Server) handleCreateMastery(w http.ResponseWriter, r *http.Request) {
	var req services.NewMastery
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	m, created, err := s.MasteryService.CreateMastery(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, m)
}

func (s *Server) handleGetMastery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	m, err := s.MasteryService.GetMastery(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}

func (s *Server) handleDecay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	review, err := s.MasteryService.Decay(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, review.ReviewTiming)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	days, err := queryInt(r, "days")
	if err != nil {
		handleError(w, r, err)
		return
	}

	points, err := s.MasteryService.Projection(r.Context(), id, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"mastery_id": id, "projection": points})
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req services.Practice
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	m, err := s.MasteryService.RecordPractice(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}
