package cmd

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/database"
	"github.com/openswoop/hooscheds/pkg/events"
	"github.com/openswoop/hooscheds/pkg/load"
	"github.com/openswoop/hooscheds/pkg/report"
)

var dryRun bool
var debug bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the database contents with the current course catalog",
	Long: `Fetches every department from the configured course API, drops
graduate courses, and replaces the Department, Course, course_department
and Section tables with the result. A department that fails to fetch or
insert does not stop the others.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		normalizer, err := newNormalizer()
		if err != nil {
			return err
		}

		pipeline := &load.Pipeline{
			Source:     newSource(),
			Normalizer: normalizer,
			Logger:     log,
			Workers:    cfg.Import.Workers,
			DryRun:     dryRun || debug,
		}

		// Connect to the sink unless nothing will be written
		var sink database.Sink
		if !pipeline.DryRun {
			sink, err = database.Open(ctx, cfg)
			if err != nil {
				log.Error("failed to connect", zap.String("driver", cfg.Database.Driver), zap.Error(err))
				return err
			}
			log.Info("successfully connected", zap.String("driver", cfg.Database.Driver))
			defer func() {
				if err := sink.Close(); err != nil {
					log.Error("failed to terminate connection", zap.Error(err))
					return
				}
				log.Info("terminated connection")
			}()
			pipeline.Loader = &load.Loader{Sink: sink, Logger: log, CourseWorkers: cfg.Import.CourseWorkers}
		}

		summary, err := pipeline.Run(ctx)
		if err != nil {
			log.Error("import aborted", zap.Error(err))
			return err
		}

		// If the debug flag is set, output the CSVs and exit early
		if debug {
			return writeSummary(summary, "catalog_"+strings.ReplaceAll(cfg.Import.Term, " ", "_"))
		}

		if sql, ok := sink.(*database.SQL); ok {
			for _, table := range catalog.ClearOrder {
				if n, err := sql.Count(table); err == nil {
					log.Info("table rows", zap.String("table", table), zap.Int64("rows", n))
				}
			}
		}

		if cfg.PubSub.Project != "" {
			publish(ctx, summary)
		}
		fmt.Printf("Done. %d rows inserted, %d failed.\n", summary.Inserted(), summary.Failed())
		return nil
	},
}

func writeSummary(summary load.Summary, name string) error {
	batches := make([]catalog.Batch, 0, len(summary.Departments))
	for _, d := range summary.Departments {
		if d.Err == nil {
			batches = append(batches, d.Batch)
		}
	}
	files, err := report.WriteBatches(".", name, batches)
	if err != nil {
		return err
	}
	for _, f := range files {
		log.Info("wrote to file", zap.String("file", f))
	}
	return nil
}

// publish announces the import. Failing to do so doesn't fail the run.
func publish(ctx context.Context, summary load.Summary) {
	client, err := pubsub.NewClient(ctx, cfg.PubSub.Project)
	if err != nil {
		log.Error("failed to create pubsub client", zap.Error(err))
		return
	}
	p := events.NewPublisher(client, cfg.PubSub.Topic)
	defer p.Close()

	id, err := p.Publish(ctx, events.CatalogRefreshed{
		RunID:             summary.RunID,
		Term:              summary.Term,
		Departments:       len(summary.Departments),
		Inserted:          summary.Inserted(),
		Failed:            summary.Failed(),
		FailedDepartments: summary.FailedDepartments(),
		DryRun:            dryRun,
	})
	if err != nil {
		log.Error("failed to publish event", zap.Error(err))
		return
	}
	log.Info("published event", zap.String("topic", cfg.PubSub.Topic), zap.String("message_id", id))
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without modifying the database (default: false)")
	syncCmd.Flags().BoolVar(&debug, "debug", false, "Dump the normalized catalog as CSVs instead of loading it (default: false)")
}
