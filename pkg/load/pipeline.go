package load

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/scrape"
)

// Pipeline fetches, normalizes and loads the whole catalog once.
type Pipeline struct {
	Source     scrape.Source
	Normalizer catalog.Normalizer
	Loader     *Loader
	Logger     *zap.Logger
	// Workers bounds the departments processed at once.
	Workers int
	// DryRun fetches and normalizes without touching the sink.
	DryRun bool
}

// DepartmentResult is the settled outcome of one department's unit of work.
type DepartmentResult struct {
	Department string
	Batch      catalog.Batch
	Inserted   int
	Failed     int
	Err        error
}

type Summary struct {
	RunID       string
	Term        string
	Cleared     []Cleared
	Departments []DepartmentResult
}

func (s Summary) Inserted() (n int) {
	for _, d := range s.Departments {
		n += d.Inserted
	}
	return n
}

func (s Summary) Failed() (n int) {
	for _, d := range s.Departments {
		n += d.Failed
	}
	return n
}

// FailedDepartments lists departments whose courses could not be fetched.
func (s Summary) FailedDepartments() []string {
	var failed []string
	for _, d := range s.Departments {
		if d.Err != nil {
			failed = append(failed, d.Department)
		}
	}
	return failed
}

// Run replaces the sink's contents with the source's catalog. Only a failure
// to list departments aborts the run, and it does so before anything is
// deleted. Every department settles independently.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Term: p.Normalizer.Term}
	log := p.Logger.With(zap.String("run_id", summary.RunID))

	subjects, err := p.Source.Departments(ctx)
	if err != nil {
		return summary, err
	}
	log.Info("fetched departments", zap.Int("count", len(subjects)))

	if !p.DryRun {
		summary.Cleared = p.Loader.Clear(ctx)
	}

	results := make([]DepartmentResult, len(subjects))
	g := new(errgroup.Group)
	g.SetLimit(max(p.Workers, 1))
	for i, subject := range subjects {
		g.Go(func() error {
			results[i] = p.department(ctx, log, subject)
			return nil
		})
	}
	_ = g.Wait()
	summary.Departments = results

	for _, r := range results {
		fields := []zap.Field{
			zap.String("dept_id", r.Department),
			zap.Int("courses", len(r.Batch.Records)),
			zap.Int("skipped", r.Batch.Skipped),
			zap.Int("repeated", r.Batch.Repeated),
			zap.Int("inserted", r.Inserted),
			zap.Int("failed", r.Failed),
		}
		if r.Err != nil {
			log.Warn("department rejected", append(fields, zap.Error(r.Err))...)
		} else {
			log.Info("department fulfilled", fields...)
		}
	}
	log.Info("import finished",
		zap.Int("departments", len(results)),
		zap.Int("inserted", summary.Inserted()),
		zap.Int("failed", summary.Failed()),
		zap.Strings("failed_departments", summary.FailedDepartments()),
	)
	return summary, nil
}

func (p *Pipeline) department(ctx context.Context, log *zap.Logger, subject string) DepartmentResult {
	result := DepartmentResult{Department: subject}

	raws, err := p.Source.Courses(ctx, subject)
	if err != nil {
		log.Error("failed to fetch department", zap.String("dept_id", subject), zap.Error(err))
		result.Err = err
		return result
	}

	result.Batch = p.Normalizer.Batch(subject, raws)
	if !p.DryRun {
		result.Inserted, result.Failed = p.Loader.LoadBatch(ctx, result.Batch)
	}
	return result
}
