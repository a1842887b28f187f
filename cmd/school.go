package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openswoop/hooscheds/pkg/catalog"
)

var schoolCmd = &cobra.Command{
	Use:   "school [subject]",
	Short: "Print the school a department code resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schools, err := catalog.LoadSchools(cfg.Import.SchoolsFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), schools.Resolve(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schoolCmd)
}
