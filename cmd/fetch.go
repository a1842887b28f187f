package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/report"
	"github.com/openswoop/hooscheds/pkg/scrape"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [subject]",
	Short: "Normalize one department, or the whole catalog, to CSV files",
	Long: `Given a department code such as CS, this command fetches the
department's courses, normalizes them as sync would, and writes one CSV
file per table. Without a code every department is fetched into
catalog_*.csv files. The database is not touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		normalizer, err := newNormalizer()
		if err != nil {
			return err
		}

		name := "catalog"
		var batches []catalog.Batch
		if len(args) == 1 {
			name = args[0] // CS, APMA etc.
			raws, err := newSource().Courses(cmd.Context(), name)
			if err != nil {
				return err
			}
			batches = append(batches, normalizer.Batch(name, raws))
		} else {
			raws, err := scrape.FetchCourseRecords(cmd.Context(), newSource())
			if err != nil {
				return err
			}
			for _, group := range byDepartment(raws) {
				batches = append(batches, normalizer.Batch(group[0].Department, group))
			}
		}

		for _, batch := range batches {
			log.Info("found records",
				zap.String("dept_id", batch.Department.DeptID),
				zap.Int("courses", len(batch.Records)),
				zap.Int("skipped", batch.Skipped),
			)
		}
		files, err := report.WriteBatches(".", name, batches)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Info("wrote to file", zap.String("file", f))
		}
		return nil
	},
}

// byDepartment splits a flat record list back into departments, in the
// order each department first appears.
func byDepartment(raws []scrape.RawCourse) [][]scrape.RawCourse {
	var groups [][]scrape.RawCourse
	index := make(map[string]int)
	for _, raw := range raws {
		i, ok := index[raw.Department]
		if !ok {
			i = len(groups)
			index[raw.Department] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], raw)
	}
	return groups
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
