package storage

import (
	"context"
	"fmt"

	"github.com/trindadeeesx/nexus/internal/model"
)

// SuccessRate returns the fraction of observations with a SUCCESS
// result, or 0 for an empty table.
func (d *DB) SuccessRate(ctx context.Context) (float64, error) {
	var total, success int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&total); err != nil {
		return 0, fmt.Errorf("storage: count observations: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM observations WHERE result = ?`, string(model.ResultSuccess),
	).Scan(&success); err != nil {
		return 0, fmt.Errorf("storage: count successes: %w", err)
	}
	return float64(success) / float64(total), nil
}

// AverageConfidence returns the mean confidence across all observations,
// or 0 for an empty table.
func (d *DB) AverageConfidence(ctx context.Context) (float64, error) {
	var avg *float64
	if err := d.db.QueryRowContext(ctx, `SELECT AVG(confidence) FROM observations`).Scan(&avg); err != nil {
		return 0, fmt.Errorf("storage: average confidence: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// ActionCounts returns per-action-type observation counts.
func (d *DB) ActionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT action_type, COUNT(*) FROM observations GROUP BY action_type`)
	if err != nil {
		return nil, fmt.Errorf("storage: action counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var actionType string
		var n int
		if err := rows.Scan(&actionType, &n); err != nil {
			return nil, fmt.Errorf("storage: scan action count: %w", err)
		}
		counts[actionType] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate action counts: %w", err)
	}
	return counts, nil
}
