package medicine

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"doctor-assistant/internal/taxonomy"
)

// Matcher resolves clarified symptom strings to medicine records. Matching
// degrades through four tiers: exact lookup, lookup on the taxonomy's
// closest match, lookup across the symptom's sibling category, and finally
// deterministic synthesis. It never fails and never returns fewer records
// than symptoms.
type Matcher struct {
	tax    *taxonomy.Taxonomy
	lookup Lookup
	rng    *rand.Rand
	log    logrus.FieldLogger
}

func NewMatcher(tax *taxonomy.Taxonomy, lookup Lookup, log logrus.FieldLogger) *Matcher {
	return &Matcher{
		tax:    tax,
		lookup: lookup,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    log,
	}
}

// Match returns exactly one record per input symptom, order-preserving.
func (m *Matcher) Match(ctx context.Context, symptoms []string) []Record {
	records := make([]Record, 0, len(symptoms))
	for _, symptom := range symptoms {
		records = append(records, m.matchOne(ctx, symptom))
	}
	return records
}

func (m *Matcher) matchOne(ctx context.Context, symptom string) Record {
	symptom = strings.ToLower(strings.TrimSpace(symptom))

	// 1. Exact lookup.
	if rec, ok := m.pick(m.find(ctx, symptom)); ok {
		return rec
	}

	// 2. Retry on the taxonomy's closest key.
	if key, ok := m.tax.ClosestMatch(symptom); ok && key != symptom {
		if rec, ok := m.pick(m.find(ctx, key)); ok {
			return rec
		}
	}

	// 3. Union of lookups across the sibling category.
	if parent, ok := m.tax.ParentOf(symptom); ok {
		var union []Record
		for _, sibling := range m.tax.Children(parent) {
			if sibling == symptom {
				continue
			}
			union = append(union, m.find(ctx, sibling)...)
		}
		if rec, ok := m.pick(union); ok {
			m.log.WithFields(logrus.Fields{"symptom": symptom, "category": parent}).
				Debug("matched medicine via sibling category")
			return rec
		}
	}

	// 4. Deterministic synthesis.
	m.log.WithField("symptom", symptom).Debug("no lookup match, synthesizing fallback medicine")
	return fallbackRecord(symptom)
}

// find swallows lookup errors: a failing table is indistinguishable from an
// empty one and the caller degrades to the next tier.
func (m *Matcher) find(ctx context.Context, symptom string) []Record {
	records, err := m.lookup.FindBySymptom(ctx, symptom)
	if err != nil {
		m.log.WithError(err).WithField("symptom", symptom).Warn("medicine lookup failed")
		return nil
	}
	return records
}

func (m *Matcher) pick(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	return records[m.rng.Intn(len(records))], true
}
