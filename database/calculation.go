package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type CalculationKind string

const (
	CalculationKindEnergy  CalculationKind = "energy"
	CalculationKindFunding CalculationKind = "funding"
)

// CalculationRow is one archived engine run: the inputs a client submitted
// and the result it was given, both verbatim JSON.
type CalculationRow struct {
	Id        int64           `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Kind      CalculationKind `json:"kind"`
	Inputs    json.RawMessage `json:"inputs"`
	Result    json.RawMessage `json:"result"`
}

func (d *Database) SaveCalculation(ctx context.Context, kind CalculationKind, inputs, result []byte) (int64, error) {
	res, err := d.write.ExecContext(ctx, `
		INSERT INTO calculation (created_at, kind, inputs, result)
		VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		string(kind),
		string(inputs),
		string(result))
	if err != nil {
		return 0, fmt.Errorf("saving calculation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading calculation id: %w", err)
	}
	return id, nil
}

// GetCalculations returns the most recent runs, newest first. An empty kind
// matches both engines.
func (d *Database) GetCalculations(ctx context.Context, kind CalculationKind, limit int) ([]CalculationRow, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := d.read.QueryContext(ctx, `
		SELECT id, created_at, kind, inputs, result
		FROM calculation
		WHERE (? = '' OR kind = ?)
		ORDER BY id DESC
		LIMIT ?`,
		string(kind), string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("fetching calculations: %w", err)
	}
	defer rows.Close()

	var entries []CalculationRow
	for rows.Next() {
		var r CalculationRow
		var createdAt, inputs, result string
		if err := rows.Scan(&r.Id, &createdAt, &r.Kind, &inputs, &result); err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.Inputs = json.RawMessage(inputs)
		r.Result = json.RawMessage(result)
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading calculation rows: %w", err)
	}

	return entries, nil
}

// PurgeCalculations drops history beyond the newest maxRows entries.
func (d *Database) PurgeCalculations(ctx context.Context, maxRows int) error {
	d.logger.Debug("purging calculation history")
	_, err := d.write.ExecContext(ctx, `
		DELETE FROM calculation WHERE id <= (SELECT id FROM calculation ORDER BY id DESC LIMIT 1 OFFSET ?)`, maxRows)
	if err != nil {
		return fmt.Errorf("purging calculations: %w", err)
	}
	return nil
}
