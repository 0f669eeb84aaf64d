package fishsynth

import (
	"database/sql"
	"fmt"
)

// EncodingMetrics holds aggregates over every cached encoding.
type EncodingMetrics struct {
	Count        uint
	OptimalCount uint
	AvgLength    float64
	MaxLength    uint
	ByStrategy   map[Strategy]uint
}

// QueryMetrics aggregates the encoding cache with plain SQL.
func (p *Persistence) QueryMetrics() (*EncodingMetrics, error) {
	db, err := p.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("Failed to retrieve raw DB: %w", err)
	}
	return queryEncodingMetrics(db)
}

func queryEncodingMetrics(db *sql.DB) (*EncodingMetrics, error) {
	row := db.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN optimal THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(length), 0), COALESCE(MAX(length), 0)
		FROM encodings`)

	var count, optimal, maxLength int64
	m := &EncodingMetrics{ByStrategy: make(map[Strategy]uint)}
	if err := row.Scan(&count, &optimal, &m.AvgLength, &maxLength); err != nil {
		return nil, fmt.Errorf("Failed to aggregate encodings: %w", err)
	}
	m.Count = uint(count)
	m.OptimalCount = uint(optimal)
	m.MaxLength = uint(maxLength)

	rows, err := db.Query(`SELECT strategy, COUNT(*) FROM encodings GROUP BY strategy ORDER BY strategy`)
	if err != nil {
		return nil, fmt.Errorf("Failed to count encodings by strategy: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var strategy string
		var n int64
		if err := rows.Scan(&strategy, &n); err != nil {
			return nil, err
		}
		m.ByStrategy[Strategy(strategy)] = uint(n)
	}
	return m, rows.Err()
}

// QueryLongest returns up to limit cached encodings with the longest
// programs, longest first.
func (p *Persistence) QueryLongest(limit int) ([]*Encoding, error) {
	db, err := p.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("Failed to retrieve raw DB: %w", err)
	}

	rows, err := db.Query(`SELECT id, from_value, to_value, strategy, bound, length, optimal, program
		FROM encodings ORDER BY length DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("Failed to query longest encodings: %w", err)
	}
	defer rows.Close()

	var encs []*Encoding
	for rows.Next() {
		enc, err := scanEncoding(rows)
		if err != nil {
			return nil, err
		}
		encs = append(encs, enc)
	}
	return encs, rows.Err()
}

func scanEncoding(rows *sql.Rows) (*Encoding, error) {
	e := &Encoding{}
	var from, to, bound, length int64
	var strategy string
	if err := rows.Scan(&e.ID, &from, &to, &strategy, &bound, &length, &e.Optimal, &e.Program); err != nil {
		return nil, err
	}
	e.From = uint32(from)
	e.To = uint32(to)
	e.Strategy = Strategy(strategy)
	e.Bound = uint(bound)
	e.Length = uint(length)
	return e, nil
}
