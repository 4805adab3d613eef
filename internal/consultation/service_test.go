package consultation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctor-assistant/internal/medicine"
	"doctor-assistant/internal/taxonomy"
)

type stubLookup struct {
	records map[string][]medicine.Record
}

func (s *stubLookup) FindBySymptom(_ context.Context, symptom string) ([]medicine.Record, error) {
	return s.records[strings.ToLower(symptom)], nil
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) GeneratePrescription(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

type testEnv struct {
	svc   Service
	store *Store
	tax   *taxonomy.Taxonomy
	gen   *stubGenerator
}

func newTestEnv(t *testing.T, lookup medicine.Lookup, gen *stubGenerator) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	if lookup == nil {
		lookup = &stubLookup{}
	}
	tax := taxonomy.New()
	store := NewStore()
	svc := NewService(store, tax, taxonomy.NewCatalog(tax), medicine.NewMatcher(tax, lookup, log), gen, nil, log)
	return &testEnv{svc: svc, store: store, tax: tax, gen: gen}
}

func answerAll(t *testing.T, env *testEnv, res *Result, answers map[string]string, fallback string) *Result {
	t.Helper()
	for i := 0; !res.Complete(); i++ {
		require.Less(t, i, 50, "consultation did not converge")
		answer, ok := answers[res.Question.Text]
		if !ok {
			answer = fallback
		}
		var err error
		res, err = env.svc.Answer(context.Background(), res.SessionID, answer)
		require.NoError(t, err)
	}
	return res
}

func TestRoundTripVagueSymptom(t *testing.T) {
	ctx := context.Background()
	lookup := &stubLookup{records: map[string][]medicine.Record{
		"headache": {{Symptom: "Headache", MedicineName: "Panadol", MedicineType: "Tablet"}},
	}}
	env := newTestEnv(t, lookup, &stubGenerator{text: "RX TEXT"})

	res, err := env.svc.Begin(ctx, "Ali Khan", "34", []string{"pain"})
	require.NoError(t, err)
	require.False(t, res.Complete())

	require.Equal(t, taxonomy.KindChoice, res.Question.Kind)
	assert.Equal(t,
		"Your symptom 'pain' is broad. Please clarify: headache, stomachache, joint pain, back pain, chest pain",
		res.Question.Text)
	assert.Equal(t,
		[]string{"headache", "stomachache", "joint pain", "back pain", "chest pain"},
		res.Question.Options)

	// Clarifying to "headache" switches to the headache-specific follow-ups
	// even though the taxonomy knows further children for it.
	res, err = env.svc.Answer(ctx, res.SessionID, "headache")
	require.NoError(t, err)
	require.False(t, res.Complete())
	assert.Equal(t, "Is it on one side or both sides?", res.Question.Text)

	res, err = env.svc.Answer(ctx, res.SessionID, "one side")
	require.NoError(t, err)
	assert.Equal(t, "Does it throb or is it a steady pain?", res.Question.Text)

	res, err = env.svc.Answer(ctx, res.SessionID, "steady")
	require.NoError(t, err)
	assert.Equal(t, "How long have you had this headache?", res.Question.Text)
	assert.Equal(t, taxonomy.KindDuration, res.Question.Kind)

	res, err = env.svc.Answer(ctx, res.SessionID, "2 days")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.KindSeverity, res.Question.Kind)

	res, err = env.svc.Answer(ctx, res.SessionID, "6")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.KindFrequency, res.Question.Kind)

	res, err = env.svc.Answer(ctx, res.SessionID, "daily")
	require.NoError(t, err)
	require.True(t, res.Complete())

	assert.Equal(t, "RX TEXT", res.Prescription)
	require.Len(t, res.Payload.Items, 1)
	assert.Equal(t, "Headache", res.Payload.Items[0].Symptom)
	assert.Equal(t, "2 days", res.Payload.Items[0].Duration)
	assert.Equal(t, "Panadol", res.Payload.Items[0].MedicineName)
	assert.Equal(t, "Ali Khan", res.Payload.PatientName)
	assert.Equal(t, "34", res.Payload.PatientAge)

	// Session is gone once the prescription is out.
	assert.Equal(t, 0, env.store.Len())
	_, err = env.svc.Answer(ctx, res.SessionID, "anything")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestClarificationExtendsTaxonomy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{text: "rx"})

	res, err := env.svc.Begin(ctx, "Sara", "29", []string{"pain"})
	require.NoError(t, err)

	// "shooting pain" is not a known child of pain; clarifying with it must
	// grow the taxonomy.
	res, err = env.svc.Answer(ctx, res.SessionID, "shooting pain")
	require.NoError(t, err)

	parent, ok := env.tax.ParentOf("shooting pain")
	require.True(t, ok)
	assert.Equal(t, "pain", parent)
	assert.Contains(t, env.tax.Children("pain"), "shooting pain")

	answerAll(t, env, res, nil, "no")
}

func TestUnknownSymptomGetsOnlyGenericQuestions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{text: "rx"})

	res, err := env.svc.Begin(ctx, "Bob", "40", []string{"xyzzy123"})
	require.NoError(t, err)
	require.False(t, res.Complete())
	assert.Equal(t, "How long have you had this xyzzy123?", res.Question.Text)

	questions := 1
	for !res.Complete() {
		res, err = env.svc.Answer(ctx, res.SessionID, "some answer")
		require.NoError(t, err)
		if !res.Complete() {
			questions++
			assert.NotEqual(t, taxonomy.KindChoice, res.Question.Kind, "unknown symptoms never get a clarification question")
		}
	}
	assert.Equal(t, 3, questions, "only duration, severity and frequency apply")

	require.Len(t, res.Payload.Items, 1)
	assert.Equal(t, "Xyzal", res.Payload.Items[0].MedicineName, "matcher lands on the first-character fallback")
}

func TestDuplicateVagueSymptomSkipsSeenQuestion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{text: "rx"})

	res, err := env.svc.Begin(ctx, "Dana", "", []string{"pain", "pain"})
	require.NoError(t, err)
	require.Equal(t, taxonomy.KindChoice, res.Question.Kind)

	res, err = env.svc.Answer(ctx, res.SessionID, "back pain")
	require.NoError(t, err)

	// Drain the first track's follow-ups.
	for !res.Complete() && res.Question.Kind != taxonomy.KindChoice {
		prev := res.Question
		res, err = env.svc.Answer(ctx, res.SessionID, "ok")
		require.NoError(t, err)
		if !res.Complete() && res.Question.Kind == taxonomy.KindChoice {
			t.Fatalf("clarification question re-asked after %q", prev.Text)
		}
		if !res.Complete() && res.Question.Text == "How often do you experience this back pain?" {
			// Last follow-up of track one; the next question belongs to
			// track two and must not be the already-answered clarification.
			res, err = env.svc.Answer(ctx, res.SessionID, "often")
			require.NoError(t, err)
			break
		}
	}
	require.False(t, res.Complete())
	assert.Equal(t, "Does anything make it better or worse?", res.Question.Text,
		"second 'pain' track falls through to follow-ups instead of repeating the clarification")

	answerAll(t, env, res, nil, "no")
}

func TestAnswersRoutedByKind(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{text: "rx"})

	// "migraine" is specific and has no authored questions of its own, so
	// exactly the three generic follow-ups apply.
	res, err := env.svc.Begin(ctx, "Omar", "51", []string{"migraine"})
	require.NoError(t, err)
	require.Equal(t, taxonomy.KindDuration, res.Question.Kind)

	res = answerAll(t, env, res, map[string]string{
		"How long have you had this migraine?":                                 "a week",
		"How would you rate the severity of your migraine on a scale of 1-10?": "8",
		"How often do you experience this migraine?":                           "every morning",
	}, "unexpected")
	require.True(t, res.Complete())

	require.Len(t, env.gen.prompts, 1)
	assert.Contains(t, env.gen.prompts[0], "- Migraine (Duration: a week)")
}

func TestBeginRejectsEmptySymptoms(t *testing.T) {
	env := newTestEnv(t, nil, &stubGenerator{})

	_, err := env.svc.Begin(context.Background(), "Ann", "30", nil)
	assert.ErrorIs(t, err, ErrNoSymptoms)

	_, err = env.svc.Begin(context.Background(), "Ann", "30", []string{"  ", ""})
	assert.ErrorIs(t, err, ErrNoSymptoms)

	assert.Equal(t, 0, env.store.Len(), "no session is created for an empty symptom list")
}

func TestAnswerUnknownSession(t *testing.T) {
	env := newTestEnv(t, nil, &stubGenerator{})

	_, err := env.svc.Answer(context.Background(), uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{})

	res, err := env.svc.Begin(ctx, "Zed", "22", []string{"pain"})
	require.NoError(t, err)
	require.Equal(t, 1, env.store.Len())

	require.NoError(t, env.svc.Delete(ctx, res.SessionID))
	assert.Equal(t, 0, env.store.Len())
	assert.ErrorIs(t, env.svc.Delete(ctx, res.SessionID), ErrSessionNotFound)
}

func TestMalformedAgeDegrades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{text: "rx"})

	res, err := env.svc.QuickPrescription(ctx, "Lena", "oldish", []string{"zits"})
	require.NoError(t, err)
	require.True(t, res.Complete())
	assert.Equal(t, "N/A", res.Payload.PatientAge)
}

func TestNarrativeFailureStillCompletes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{err: errors.New("quota exceeded")})

	res, err := env.svc.QuickPrescription(ctx, "Tariq", "45", []string{"xyzzy123"})
	require.NoError(t, err)
	require.True(t, res.Complete())
	assert.Contains(t, res.Prescription, "Prescription could not be generated")
	assert.Contains(t, res.Prescription, "quota exceeded")
	assert.Equal(t, 0, env.store.Len(), "session is removed even when generation fails")
}

func TestQuickPrescription(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, &stubGenerator{text: "quick rx"})

	res, err := env.svc.QuickPrescription(ctx, "Nadia", "27", []string{"pain", "fever"})
	require.NoError(t, err)
	require.True(t, res.Complete())
	assert.Equal(t, "quick rx", res.Prescription)

	require.Len(t, res.Payload.Items, 2)
	// Choice questions are auto-answered with the first option, everything
	// else with the canned duration.
	assert.Equal(t, "Headache", res.Payload.Items[0].Symptom)
	assert.Equal(t, "1 week", res.Payload.Items[0].Duration)
	assert.Equal(t, "1 week", res.Payload.Items[1].Duration)
	assert.Equal(t, 0, env.store.Len())
}
