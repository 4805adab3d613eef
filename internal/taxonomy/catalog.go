package taxonomy

import "fmt"

// Kind tags a question so answers can be routed to the right field without
// sniffing the question text.
type Kind string

const (
	// KindChoice is a single-choice question; Options carries the labels.
	KindChoice Kind = "choice"
	// KindDuration, KindSeverity and KindFrequency are the generic
	// follow-ups asked about every symptom.
	KindDuration  Kind = "duration"
	KindSeverity  Kind = "severity"
	KindFrequency Kind = "frequency"
	// KindFreeform is any other free-text follow-up.
	KindFreeform Kind = "freeform"
)

// Question is one structured prompt for the patient. Immutable once built.
type Question struct {
	Text    string   `json:"text"`
	Kind    Kind     `json:"kind"`
	Options []string `json:"options,omitempty"`
}

// Generic follow-up templates, parameterized by the symptom being discussed.
const (
	durationTemplate  = "How long have you had this %s?"
	severityTemplate  = "How would you rate the severity of your %s on a scale of 1-10?"
	frequencyTemplate = "How often do you experience this %s?"
)

// specificFollowups holds the authored per-symptom questions, keyed by
// taxonomy key. Order is the order they are asked in.
var specificFollowups = map[string][]string{
	"headache":    {"Is it on one side or both sides?", "Does it throb or is it a steady pain?"},
	"fever":       {"Have you taken any medication to reduce it?", "Are you experiencing chills or sweating?"},
	"cough":       {"Is there any phlegm or mucus?", "Is it worse at night?"},
	"rash":        {"Is it itchy?", "Has the rash spread since it first appeared?"},
	"stomachache": {"Is it related to eating?", "Does it come and go or is it constant?"},
	"pain":        {"Does anything make it better or worse?", "Does it radiate to other areas?"},
	"dizziness":   {"Does it happen when you stand up?", "Is it associated with nausea?"},
	"breathing":   {"Does it occur at rest or with activity?", "Do you have a history of respiratory conditions?"},
	"insomnia":    {"Do you feel tired during the day?", "What time do you typically go to bed?"},
	"allergy":     {"Have you been exposed to any new substances?", "Do you have any known allergies?"},
	"diarrhea":    {"Is there blood in your stool?", "Are you experiencing abdominal pain?"},
	"cold":        {"Do you have a sore throat?", "Are you experiencing body aches?"},
}

// Catalog resolves a symptom to its ordered list of follow-up questions:
// symptom-specific questions first, then the generic duration, severity and
// frequency questions, deduplicated by exact question text.
type Catalog struct {
	tax      *Taxonomy
	specific map[string][]string
}

func NewCatalog(tax *Taxonomy) *Catalog {
	return &Catalog{tax: tax, specific: specificFollowups}
}

// FollowupsFor returns the follow-up questions for symptom. The result is
// stable for a given symptom and taxonomy state; callers cache it per track
// so the in-flight question index stays valid.
func (c *Catalog) FollowupsFor(symptom string) []Question {
	symptom = normalize(symptom)

	var questions []Question
	if key, ok := c.tax.ClosestMatch(symptom); ok {
		for _, text := range c.specific[key] {
			questions = append(questions, Question{Text: text, Kind: KindFreeform})
		}
	}

	generics := []Question{
		{Text: fmt.Sprintf(durationTemplate, symptom), Kind: KindDuration},
		{Text: fmt.Sprintf(severityTemplate, symptom), Kind: KindSeverity},
		{Text: fmt.Sprintf(frequencyTemplate, symptom), Kind: KindFrequency},
	}
	for _, g := range generics {
		if !containsText(questions, g.Text) {
			questions = append(questions, g)
		}
	}
	return questions
}

func containsText(questions []Question, text string) bool {
	for _, q := range questions {
		if q.Text == text {
			return true
		}
	}
	return false
}
