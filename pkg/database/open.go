package database

import (
	"context"

	"github.com/openswoop/hooscheds/pkg/config"
)

// Open connects the sink selected by DB_DRIVER.
func Open(ctx context.Context, cfg *config.Config) (Sink, error) {
	if cfg.Database.Driver == "bigquery" {
		bq, err := NewBigQuery(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset)
		if err != nil {
			return nil, err
		}
		return bq, nil
	}
	s, err := NewSQL(cfg.Database)
	if err != nil {
		return nil, err
	}
	return s, nil
}
