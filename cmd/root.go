package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocolly/colly/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/config"
	apperrors "github.com/openswoop/hooscheds/pkg/errors"
	"github.com/openswoop/hooscheds/pkg/logger"
	"github.com/openswoop/hooscheds/pkg/scrape"
)

var (
	cfg *config.Config
	log *zap.Logger
	c   *colly.Collector
)

var cacheDir = "/hooscheds/web-cache"
var useCache bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hooscheds",
	Short: "A tool for importing the UVA course catalog into a SQL database",
	Long: `Fetches the course catalog from a university course API, normalizes
departments, courses and sections, and replaces the contents of the
hooscheds database with them. Settings come from the environment or a
.env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if _, err := scrape.TermToId(cfg.Import.Term); err != nil {
			return apperrors.Wrap(err, apperrors.CodeConfig, "invalid CATALOG_TERM")
		}
		if log, err = logger.New(cfg); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		initColly()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useCache, "cache", false, "Serve repeated requests from the on-disk web cache (default: false)")
}

func initColly() {
	dir := webCacheDir(cfg.Source.CacheDir, useCache)
	if dir != "" {
		log.Warn("web cache enabled, responses may be stale", zap.String("dir", dir))
	}
	c = scrape.NewCollector(dir)
}

// webCacheDir returns where responses are cached, or "" for live requests.
// The cache never expires, so it is only used when asked for.
func webCacheDir(configured string, enabled bool) string {
	if configured != "" {
		return configured
	}
	if !enabled {
		return ""
	}
	userCacheDir, _ := os.UserCacheDir()
	return filepath.Join(userCacheDir, cacheDir)
}

// newSource picks the adapter for the configured upstream API.
func newSource() scrape.Source {
	if cfg.Source.Kind == config.SourceDevHub {
		return scrape.NewDevHub(c, cfg.Source.URL)
	}
	return scrape.NewDeptList(c, cfg.Source.URL, cfg.Source.CoursesPerDept)
}

func newNormalizer() (catalog.Normalizer, error) {
	schools, err := catalog.LoadSchools(cfg.Import.SchoolsFile)
	if err != nil {
		return catalog.Normalizer{}, fmt.Errorf("failed to load schools: %w", err)
	}
	return catalog.Normalizer{
		Schools:   schools,
		Threshold: cfg.Import.Threshold,
		Term:      cfg.Import.Term,
		Logger:    log,
	}, nil
}
