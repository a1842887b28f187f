package load

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/database"
	apperrors "github.com/openswoop/hooscheds/pkg/errors"
)

// Loader writes normalized batches into a sink. A failed statement is
// logged and counted but never stops the statements after it.
type Loader struct {
	Sink   database.Sink
	Logger *zap.Logger
	// CourseWorkers bounds the courses of one department inserted at once.
	// Records sharing a course id are always inserted by the same worker.
	CourseWorkers int
}

// Cleared is the outcome of emptying one table.
type Cleared struct {
	Table        string
	RowsAffected int64
	Err          error
}

// Clear empties every table, children before parents.
func (l *Loader) Clear(ctx context.Context) []Cleared {
	outcomes := make([]Cleared, 0, len(catalog.ClearOrder))
	for _, table := range catalog.ClearOrder {
		n, err := l.Sink.Clear(ctx, table)
		if err != nil {
			l.Logger.Error("failed to delete existing rows", append(errFields(err), zap.String("table", table))...)
		} else {
			l.Logger.Info("deleted existing rows", zap.String("table", table), zap.Int64("rows_affected", n))
		}
		outcomes = append(outcomes, Cleared{Table: table, RowsAffected: n, Err: err})
	}
	return outcomes
}

// LoadBatch inserts a department and its records, reporting how many rows
// went in and how many failed.
func (l *Loader) LoadBatch(ctx context.Context, batch catalog.Batch) (inserted, failed int) {
	if l.insert(ctx, &batch.Department) {
		inserted++
	} else {
		failed++
	}

	// One goroutine per course so its rows keep their upstream order and
	// the first section row of a course decides the Course row.
	type tally struct{ inserted, failed int }
	groups := batch.ByCourse()
	tallies := make([]tally, len(groups))

	g := new(errgroup.Group)
	g.SetLimit(max(l.CourseWorkers, 1))
	for i, group := range groups {
		g.Go(func() error {
			for _, idx := range group {
				rec := &batch.Records[idx]
				// Parents first so foreign keys hold
				for _, row := range []catalog.Row{&rec.Course, &rec.Association, &rec.Section} {
					if l.insert(ctx, row) {
						tallies[i].inserted++
					} else {
						tallies[i].failed++
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, t := range tallies {
		inserted += t.inserted
		failed += t.failed
	}
	return inserted, failed
}

func (l *Loader) insert(ctx context.Context, row catalog.Row) bool {
	if err := l.Sink.Insert(ctx, row); err != nil {
		fields := append(errFields(err), zap.String("table", row.Table()), zap.String("key", row.Key()))
		l.Logger.Error("failed to insert", fields...)
		return false
	}
	l.Logger.Info("inserted", zap.String("table", row.Table()), zap.String("key", row.Key()))
	return true
}

func errFields(err error) []zap.Field {
	e := apperrors.FromError(err)
	fields := []zap.Field{zap.String("code", e.Code), zap.Error(err)}
	if e.DriverCode != "" {
		fields = append(fields, zap.String("driver_code", e.DriverCode))
	}
	return fields
}
