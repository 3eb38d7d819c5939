package api

import (
	"net/http"
	"strings"

	"github.com/vytor/recall/internal/errors"
	"github.com/vytor/recall/internal/logger"
)

type createLearnerRequest struct {
	Username string `json:"username"`
}

type chaptersRequest struct {
	Count *int `json:"count"`
}

func (s *Server) handleCreateLearner(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createLearnerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		log.Warn("create learner with empty username")
		handleError(w, r, errors.NewBadRequestError("username required"))
		return
	}

	learner, err := s.LearnerService.CreateLearner(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, learner)
}

func (s *Server) handleGetLearner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	learner, err := s.LearnerService.GetLearner(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, learner)
}

// handleCompleteChapters accepts an empty body as a single chapter.
func (s *Server) handleCompleteChapters(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	count := 1
	if r.ContentLength != 0 {
		var req chaptersRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.Count != nil {
			count = *req.Count
		}
	}

	learner, err := s.LearnerService.CompleteChapters(r.Context(), id, count)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, learner)
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	urgency, err := queryUrgency(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	queue, err := s.ReviewService.ReviewQueue(r.Context(), id, urgency, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"reviews": queue})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
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

	points, err := s.ReviewService.Timeline(r.Context(), id, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"timeline": points})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	urgency, err := queryUrgency(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	snapshots, err := s.ReviewService.Snapshots(r.Context(), id, urgency)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"snapshots": snapshots})
}

// handleRefresh schedules a background snapshot refresh and returns 202.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if _, err := s.LearnerService.GetLearner(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	if s.Jobs == nil {
		handleError(w, r, errors.NewUnavailableError("background workers are disabled", nil))
		return
	}
	if err := s.Jobs.EnqueueSnapshotRefresh(id); err != nil {
		log.Warn("failed to enqueue refresh: %v", err)
		handleError(w, r, errors.NewUnavailableError("refresh queue is full, try again", err))
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]any{"learner_id": id, "status": "queued"})
}
