package consultation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"doctor-assistant/internal/taxonomy"
)

// Track is the per-symptom progress record within a session. All fields are
// constructed at session creation, so no field is ever discovered missing
// mid-flow.
type Track struct {
	// Symptom is the current term; overwritten with the patient's answer
	// when a vague term is clarified to a more specific one.
	Symptom string `json:"symptom"`
	// Clarified is set once the vague term is resolved and every follow-up
	// in the queue has been asked and answered.
	Clarified bool `json:"clarified"`
	// Parent is the originating vague term, set when this symptom was
	// produced by a clarification answer and cleared once the pair has been
	// folded back into the shared taxonomy.
	Parent string `json:"parent,omitempty"`
	// Resolved marks a track whose term came out of a clarification answer.
	// Such a term counts as specific for this track even when the taxonomy
	// knows children for it, so one track is clarified at most once.
	Resolved bool `json:"-"`
	// Followups is the cached question queue for the current term, computed
	// at most once per term; FollowupIdx points at the next unasked entry.
	// A symptom rewrite resets both.
	Followups   []taxonomy.Question `json:"-"`
	FollowupIdx int                 `json:"-"`
	// ExtraInfo accumulates answers keyed by question kind or, for freeform
	// questions, by the normalized question text.
	ExtraInfo map[string]string `json:"extra_info"`
}

func newTrack(symptom string) *Track {
	return &Track{
		Symptom:   symptom,
		ExtraInfo: make(map[string]string),
	}
}

// Session owns the full clarification state for one consultation. It is
// exclusively owned by its caller; the mutex serializes answer submissions
// racing on the same session ID.
type Session struct {
	ID          uuid.UUID
	PatientName string
	// PatientAge is kept as text: a malformed age degrades to "N/A" at
	// session creation instead of failing the request.
	PatientAge string
	Tracks     []*Track
	// Current is the cursor into Tracks; the session is terminal once it
	// has passed the last track.
	Current int
	// Transcript records every asked question and its answer in order. Used
	// for the skip-on-seen check so the same question is never re-asked.
	Transcript []string
	// Pending is the question awaiting an answer, nil if none outstanding.
	Pending   *taxonomy.Question
	CreatedAt time.Time

	mu sync.Mutex
}

func (s *Session) symptoms() []string {
	out := make([]string, len(s.Tracks))
	for i, t := range s.Tracks {
		out[i] = t.Symptom
	}
	return out
}

func (s *Session) sawQuestion(text string) bool {
	for _, line := range s.Transcript {
		if line == text {
			return true
		}
	}
	return false
}
