package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/migration"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/ayo6706/ledger-migration/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the driver's lifecycle state.
type State int32

const (
	// StateIdle: no row in flight.
	StateIdle State = iota
	// StateProcessing: one row being classified and built.
	StateProcessing
	// StateDone: no legacy rows remain; terminal, clean.
	StateDone
	// StateHalted: a row failed; terminal, requires external restart.
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateDone:
		return "done"
	case StateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// MigrationWorker migrates legacy rows one at a time, oldest-unmigrated
// first, by scanning backward from the ledger's high-water mark. A single
// logical worker is assumed; no cross-row locking exists.
type MigrationWorker struct {
	source  models.LegacySource
	store   models.LedgerStore
	builder *migration.Builder

	delay    time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	state    atomic.Int32
}

// NewMigrationWorker constructs a worker with the default inter-row delay.
func NewMigrationWorker(source models.LegacySource, store models.LedgerStore, builder *migration.Builder) *MigrationWorker {
	return &MigrationWorker{
		source:  source,
		store:   store,
		builder: builder,
		delay:   500 * time.Millisecond,
		stopCh:  make(chan struct{}),
	}
}

// WithDelay updates the pause between rows. Throttling, not correctness.
func (w *MigrationWorker) WithDelay(delay time.Duration) *MigrationWorker {
	if delay > 0 {
		w.delay = delay
	}
	return w
}

// State returns the current lifecycle state.
func (w *MigrationWorker) State() State {
	return State(w.state.Load())
}

// Stop signals the worker to stop between rows.
func (w *MigrationWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run blocks, migrating one row per cycle until no rows remain (clean stop,
// nil), the worker is stopped (nil), or a row fails (the error). A returned
// error means the run halted: the failing row was not migrated and the next
// run will pick it up again via the high-water mark.
func (w *MigrationWorker) Run(ctx context.Context) error {
	logger := zap.L().With(zap.String("run_id", uuid.NewString()))
	logger.Info("migration worker starting", zap.Duration("delay", w.delay))

	for {
		select {
		case <-ctx.Done():
			logger.Info("migration worker context canceled")
			return nil
		case <-w.stopCh:
			logger.Info("migration worker stop signal received")
			return nil
		default:
		}

		w.state.Store(int32(StateProcessing))
		migrated, err := w.migrateOne(ctx, logger)
		if err != nil {
			w.state.Store(int32(StateHalted))
			if errors.Is(err, migration.ErrUnsupportedShape) {
				observability.IncrementUnsupportedShape()
			}
			observability.IncrementWorkerRun("migration", "failed")
			return err
		}
		if !migrated {
			w.state.Store(int32(StateDone))
			observability.IncrementWorkerRun("migration", "success")
			logger.Info("migration complete, no legacy rows remain")
			return nil
		}

		w.state.Store(int32(StateIdle))
		observability.IncrementRowsMigrated()

		select {
		case <-ctx.Done():
			logger.Info("migration worker context canceled")
			return nil
		case <-w.stopCh:
			logger.Info("migration worker stop signal received")
			return nil
		case <-time.After(w.delay):
		}
	}
}

// migrateOne processes a single cycle. The bool reports whether a row was
// migrated; false with a nil error means no candidates remain.
func (w *MigrationWorker) migrateOne(ctx context.Context, logger *zap.Logger) (bool, error) {
	bound := int64(math.MaxInt64)
	minID, ok, err := w.store.MinLegacyTransactionID(ctx)
	if err != nil {
		return false, fmt.Errorf("read high-water mark: %w", err)
	}
	if ok {
		bound = minID
	}

	row, err := w.source.NextCandidate(ctx, bound)
	if errors.Is(err, models.ErrNoLegacyRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetch next legacy row: %w", err)
	}

	shape, err := migration.Classify(row)
	if err != nil {
		return false, err
	}

	tx, err := w.builder.Build(ctx, shape)
	if err != nil {
		return false, fmt.Errorf("build ledger transaction for legacy row %d: %w", row.ID, err)
	}

	logger.Info("legacy row migrated",
		zap.Int64("legacy_id", row.ID),
		zap.Int64("ledger_transaction_id", tx.ID),
		zap.String("origin", shape.Origin.String()),
		zap.String("destination", shape.Destination.String()),
		zap.String("amount", domain.NewMoney(shape.Amount, shape.Currency).String()),
	)
	return true, nil
}
