package consultation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"doctor-assistant/internal/agent"
	"doctor-assistant/internal/medicine"
	"doctor-assistant/internal/prescription"
	"doctor-assistant/internal/taxonomy"
)

var (
	// ErrNoSymptoms is returned when a caller submits an empty symptom
	// list; no session is created.
	ErrNoSymptoms = errors.New("no symptoms provided")
	// ErrSessionNotFound is returned for answers against unknown or
	// already-completed sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// maxAutoSteps bounds the auto-answer loop of QuickPrescription so a
// pathological taxonomy cannot spin it forever.
const maxAutoSteps = 100

// ReportService forwards a completed prescription to the doctor channel.
// Declared here to decouple from the report implementation.
type ReportService interface {
	SendPrescriptionReport(ctx context.Context, p prescription.Payload, narrative string) error
}

// Result is the outcome of one protocol step: either the next question to
// put to the patient, or the terminal prescription.
type Result struct {
	SessionID    uuid.UUID
	Question     *taxonomy.Question
	Prescription string
	Payload      *prescription.Payload
}

// Complete reports whether the consultation reached a prescription.
func (r *Result) Complete() bool {
	return r.Question == nil
}

type Service interface {
	// Begin creates a session for the given patient and symptom list and
	// drives it to its first question, or straight to a prescription when
	// nothing needs clarifying.
	Begin(ctx context.Context, patientName, patientAge string, symptoms []string) (*Result, error)
	// Answer submits the patient's answer to the session's pending question
	// and drives the session forward.
	Answer(ctx context.Context, sessionID uuid.UUID, answer string) (*Result, error)
	// Delete abandons a session.
	Delete(ctx context.Context, sessionID uuid.UUID) error
	// QuickPrescription runs a whole consultation in one call, answering
	// every question with a canned default.
	QuickPrescription(ctx context.Context, patientName, patientAge string, symptoms []string) (*Result, error)
}

type service struct {
	store     *Store
	machine   *machine
	matcher   *medicine.Matcher
	generator agent.Generator
	reportSvc ReportService
	log       logrus.FieldLogger
}

// NewService wires the clarification machine to its collaborators.
// reportSvc may be nil when doctor reporting is not configured.
func NewService(store *Store, tax *taxonomy.Taxonomy, cat *taxonomy.Catalog, matcher *medicine.Matcher, generator agent.Generator, reportSvc ReportService, log logrus.FieldLogger) Service {
	return &service{
		store:     store,
		machine:   newMachine(tax, cat),
		matcher:   matcher,
		generator: generator,
		reportSvc: reportSvc,
		log:       log,
	}
}

func (s *service) Begin(ctx context.Context, patientName, patientAge string, symptoms []string) (*Result, error) {
	var tracks []*Track
	for _, raw := range symptoms {
		term := strings.ToLower(strings.TrimSpace(raw))
		if term == "" {
			continue
		}
		tracks = append(tracks, newTrack(term))
	}
	if len(tracks) == 0 {
		return nil, ErrNoSymptoms
	}

	sess := &Session{
		ID:          uuid.New(),
		PatientName: strings.TrimSpace(patientName),
		PatientAge:  parseAge(patientAge),
		Tracks:      tracks,
		CreatedAt:   time.Now(),
	}
	s.store.Put(sess)
	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"symptoms":   len(tracks),
	}).Info("consultation session started")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.drive(ctx, sess)
}

func (s *service) Answer(ctx context.Context, sessionID uuid.UUID, answer string) (*Result, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.machine.processAnswer(sess, answer)
	return s.drive(ctx, sess)
}

func (s *service) Delete(_ context.Context, sessionID uuid.UUID) error {
	if _, ok := s.store.Get(sessionID); !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	s.store.Delete(sessionID)
	return nil
}

func (s *service) QuickPrescription(ctx context.Context, patientName, patientAge string, symptoms []string) (*Result, error) {
	res, err := s.Begin(ctx, patientName, patientAge, symptoms)
	if err != nil {
		return nil, err
	}
	for i := 0; !res.Complete(); i++ {
		if i >= maxAutoSteps {
			s.store.Delete(res.SessionID)
			return nil, fmt.Errorf("quick prescription for session %s did not converge", res.SessionID)
		}
		res, err = s.Answer(ctx, res.SessionID, autoAnswer(res.Question))
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// autoAnswer picks the canned answer for unattended consultations: the
// first option for choice questions, a default duration otherwise.
func autoAnswer(q *taxonomy.Question) string {
	if q.Kind == taxonomy.KindChoice && len(q.Options) > 0 {
		return q.Options[0]
	}
	return "1 week"
}

// drive advances the session until a question is outstanding or the session
// is terminal; in the latter case it matches medicines, builds the payload,
// generates the narrative and removes the session from the store. The
// caller holds the session mutex.
func (s *service) drive(ctx context.Context, sess *Session) (*Result, error) {
	if q := s.machine.next(sess); q != nil {
		return &Result{SessionID: sess.ID, Question: q}, nil
	}

	medicines := s.matcher.Match(ctx, sess.symptoms())
	details := make([]prescription.SymptomDetail, len(sess.Tracks))
	for i, track := range sess.Tracks {
		details[i] = prescription.SymptomDetail{
			Symptom:  track.Symptom,
			Duration: track.ExtraInfo["duration"],
		}
	}
	payload := prescription.Build(sess.PatientName, sess.PatientAge, details, medicines)

	narrative := prescription.NoDataText
	if !payload.IsEmpty() {
		generated, err := s.generator.GeneratePrescription(ctx, prescription.Prompt(payload))
		if err != nil {
			// The session still completes; the patient sees a placeholder
			// carrying the error instead of a dangling consultation.
			s.log.WithError(err).WithField("session_id", sess.ID).Warn("narrative generation failed")
			narrative = fmt.Sprintf("Prescription could not be generated: %v", err)
		} else {
			narrative = generated
		}
	}

	s.store.Delete(sess.ID)
	s.log.WithField("session_id", sess.ID).Info("consultation session completed")

	if s.reportSvc != nil {
		go func(p prescription.Payload, text string) {
			if err := s.reportSvc.SendPrescriptionReport(context.Background(), p, text); err != nil {
				s.log.WithError(err).Warn("failed to send doctor report")
			}
		}(payload, narrative)
	}

	return &Result{
		SessionID:    sess.ID,
		Prescription: narrative,
		Payload:      &payload,
	}, nil
}

// parseAge keeps a valid integer age and degrades everything else to the
// unknown sentinel.
func parseAge(age string) string {
	age = strings.TrimSpace(age)
	n, err := strconv.Atoi(age)
	if err != nil || n < 0 {
		return prescription.UnknownAge
	}
	return strconv.Itoa(n)
}
