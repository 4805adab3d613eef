package consultation

import (
	"fmt"
	"strings"

	"doctor-assistant/internal/taxonomy"
)

const clarifyTemplate = "Your symptom '%s' is broad. Please clarify: %s"

// machine drives the per-track clarification state progression:
// vague-pending -> follow-up-pending -> clarified. It operates only on the
// track at the session cursor and performs one transition per emitted
// question.
type machine struct {
	tax *taxonomy.Taxonomy
	cat *taxonomy.Catalog
}

func newMachine(tax *taxonomy.Taxonomy, cat *taxonomy.Catalog) *machine {
	return &machine{tax: tax, cat: cat}
}

// next advances the session to its next outstanding question. It folds any
// pending clarification into the taxonomy, emits the question for the
// current track, and moves the cursor past tracks that resolve to
// clarified. Returns nil once every track is clarified.
func (m *machine) next(s *Session) *taxonomy.Question {
	for s.Current < len(s.Tracks) {
		track := s.Tracks[s.Current]
		m.fold(track)
		if q := m.question(s, track); q != nil {
			s.Pending = q
			return q
		}
		s.Current++
	}
	s.Pending = nil
	return nil
}

// question returns the next question for track, or nil after marking it
// clarified.
func (m *machine) question(s *Session, track *Track) *taxonomy.Question {
	if !track.Clarified && !track.Resolved && m.tax.IsVague(track.Symptom) {
		children := m.tax.Children(track.Symptom)
		text := fmt.Sprintf(clarifyTemplate, track.Symptom, strings.Join(children, ", "))
		// An identical question already answered means the clarification
		// did not resolve the term; move on to follow-ups instead of
		// re-asking.
		if !s.sawQuestion(text) {
			return &taxonomy.Question{Text: text, Kind: taxonomy.KindChoice, Options: children}
		}
	}

	if track.Followups == nil {
		track.Followups = m.cat.FollowupsFor(track.Symptom)
	}
	if track.FollowupIdx < len(track.Followups) {
		q := track.Followups[track.FollowupIdx]
		track.FollowupIdx++
		return &q
	}

	track.Clarified = true
	return nil
}

// fold registers a finished clarification (parent -> rewritten symptom)
// into the shared taxonomy and clears the track's parent marker.
func (m *machine) fold(track *Track) {
	if track.Parent == "" {
		return
	}
	m.tax.Register(track.Parent, track.Symptom)
	track.Parent = ""
}

// processAnswer records the answer for the session's pending question and
// routes it into the current track by question kind.
func (m *machine) processAnswer(s *Session, answer string) {
	q := s.Pending
	if q == nil {
		return
	}
	track := s.Tracks[s.Current]
	answer = strings.ToLower(strings.TrimSpace(answer))
	s.Transcript = append(s.Transcript, q.Text, answer)

	switch q.Kind {
	case taxonomy.KindChoice:
		// The answer names a more specific term. Remember where it came
		// from, rewrite the track and drop the cached queue so follow-ups
		// are recomputed for the new term.
		parent := track.Symptom
		if p, ok := m.tax.ParentOf(track.Symptom); ok {
			parent = p
		}
		track.Parent = parent
		track.Symptom = answer
		track.Resolved = true
		track.Followups = nil
		track.FollowupIdx = 0
	case taxonomy.KindDuration:
		track.ExtraInfo["duration"] = answer
	case taxonomy.KindSeverity:
		track.ExtraInfo["severity"] = answer
	case taxonomy.KindFrequency:
		track.ExtraInfo["frequency"] = answer
	default:
		track.ExtraInfo[answerKey(q.Text)] = answer
	}
	s.Pending = nil
}

// answerKey normalizes a freeform question text into an extra-info key.
func answerKey(question string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(question), "?", ""))
}
