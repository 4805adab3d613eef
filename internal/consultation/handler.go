package consultation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type BeginSessionRequest struct {
	PatientName string   `json:"patient_name"`
	PatientAge  string   `json:"patient_age"`
	Symptoms    []string `json:"symptoms"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

func (h *Handler) BeginSession(w http.ResponseWriter, r *http.Request) {
	var req BeginSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Begin(r.Context(), req.PatientName, req.PatientAge, req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrNoSymptoms) {
			http.Error(w, "At least one symptom is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	writeResult(w, res)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Answer(r.Context(), sessionID, req.Answer)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to process answer", http.StatusInternalServerError)
		return
	}

	writeResult(w, res)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// QuickPrescription runs the whole consultation unattended and returns the
// prescription in a single round trip.
func (h *Handler) QuickPrescription(w http.ResponseWriter, r *http.Request) {
	var req BeginSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.svc.QuickPrescription(r.Context(), req.PatientName, req.PatientAge, req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrNoSymptoms) {
			http.Error(w, "At least one symptom is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to generate prescription", http.StatusInternalServerError)
		return
	}

	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, res *Result) {
	w.Header().Set("Content-Type", "application/json")
	if !res.Complete() {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"session_id": res.SessionID.String(),
			"status":     "needs_clarification",
			"question":   res.Question,
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "complete",
		"prescription": res.Prescription,
		"payload":      res.Payload,
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/sessions", h.BeginSession)
	r.Post("/sessions/{id}/answers", h.SubmitAnswer)
	r.Delete("/sessions/{id}", h.DeleteSession)
	r.Post("/prescriptions", h.QuickPrescription)
}
