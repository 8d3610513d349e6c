package memstore

import (
	"context"

	"github.com/ayo6706/ledger-migration/internal/models"
)

// LegacySource serves candidate rows from a fixed slice, newest id first,
// the way the legacy repository's descending scan does.
type LegacySource struct {
	rows []models.LegacyTransaction
}

func NewLegacySource(rows ...models.LegacyTransaction) *LegacySource {
	return &LegacySource{rows: rows}
}

func (s *LegacySource) NextCandidate(ctx context.Context, bound int64) (*models.LegacyTransaction, error) {
	var best *models.LegacyTransaction
	for i := range s.rows {
		row := &s.rows[i]
		if row.ID >= bound {
			continue
		}
		if best == nil || row.ID > best.ID {
			best = row
		}
	}
	if best == nil {
		return nil, models.ErrNoLegacyRows
	}
	row := *best
	return &row, nil
}
