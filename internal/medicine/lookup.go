package medicine

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Lookup queries the external medicine table by exact symptom key.
type Lookup interface {
	FindBySymptom(ctx context.Context, symptom string) ([]Record, error)
}

const lookupCacheSize = 256

type postgresLookup struct {
	db    *sql.DB
	cache *lru.Cache[string, []Record]
}

// NewPostgresLookup returns a Lookup over the medicines table. Results are
// cached per symptom key; the dataset never changes at runtime so entries
// are never invalidated.
func NewPostgresLookup(db *sql.DB) (Lookup, error) {
	cache, err := lru.New[string, []Record](lookupCacheSize)
	if err != nil {
		return nil, err
	}
	return &postgresLookup{db: db, cache: cache}, nil
}

func (l *postgresLookup) FindBySymptom(ctx context.Context, symptom string) ([]Record, error) {
	symptom = strings.ToLower(strings.TrimSpace(symptom))
	if symptom == "" {
		return nil, nil
	}
	if l.db == nil {
		return nil, errors.New("medicine lookup: no database connection")
	}
	if records, ok := l.cache.Get(symptom); ok {
		return records, nil
	}

	query := `SELECT symptom, medicine_name, medicine_type, common_side_effects, prescription_required
		FROM medicines WHERE LOWER(symptom) = $1`
	rows, err := l.db.QueryContext(ctx, query, symptom)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Symptom, &r.MedicineName, &r.MedicineType, &r.CommonSideEffects, &r.PrescriptionRequired); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	l.cache.Add(symptom, records)
	return records, nil
}
