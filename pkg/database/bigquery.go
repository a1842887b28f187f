package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/openswoop/hooscheds/pkg/catalog"
	apperrors "github.com/openswoop/hooscheds/pkg/errors"
)

// BigQuery is a Sink that mirrors the catalog into a BigQuery dataset.
// Clearing uses DML, which BigQuery refuses while rows from a previous run
// are still in the streaming buffer, so runs must be spaced out.
type BigQuery struct {
	client  *bigquery.Client
	dataset *bigquery.Dataset
}

func NewBigQuery(ctx context.Context, projectID, datasetID string) (*BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %v", err)
	}

	dataset := client.Dataset(datasetID)
	if err := dataset.Create(ctx, nil); err != nil {
		if !isDuplicateError(err) {
			_ = client.Close()
			return nil, fmt.Errorf("failed to create dataset: %v", err)
		}
	}

	bq := &BigQuery{client: client, dataset: dataset}
	tables := map[string]interface{}{
		catalog.TableDepartment:       catalog.Department{},
		catalog.TableCourse:           catalog.Course{},
		catalog.TableCourseDepartment: catalog.CourseDepartment{},
		catalog.TableSection:          catalog.Section{},
	}
	for name, st := range tables {
		if err := bq.createTable(ctx, name, st); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return bq, nil
}

func (bq *BigQuery) createTable(ctx context.Context, name string, st interface{}) error {
	// Infer the table schema
	schema, err := bigquery.InferSchema(st)
	if err != nil {
		return fmt.Errorf("failed to infer schema for %s: %v", name, err)
	}
	if err := bq.dataset.Table(name).Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		if !isDuplicateError(err) {
			return fmt.Errorf("failed to create table %s: %v", name, err)
		}
	}
	return nil
}

func (bq *BigQuery) Clear(ctx context.Context, table string) (int64, error) {
	q := bq.client.Query(fmt.Sprintf("DELETE FROM `%s.%s` WHERE TRUE", bq.dataset.DatasetID, table))
	job, err := q.Run(ctx)
	if err != nil {
		return 0, apperrors.SQL(err, apiCode(err), "delete from "+table)
	}
	status, err := job.Wait(ctx)
	if err == nil {
		err = status.Err()
	}
	if err != nil {
		return 0, apperrors.SQL(err, apiCode(err), "delete from "+table)
	}
	if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return stats.NumDMLAffectedRows, nil
	}
	return 0, nil
}

func (bq *BigQuery) Insert(ctx context.Context, row catalog.Row) error {
	u := bq.dataset.Table(row.Table()).Inserter()
	if err := u.Put(ctx, row); err != nil {
		return apperrors.SQL(err, apiCode(err), "insert into "+row.Table())
	}
	return nil
}

func (bq *BigQuery) Close() error {
	return bq.client.Close()
}

// apiCode returns the HTTP status of a googleapi error as the driver code.
func apiCode(err error) string {
	var e *googleapi.Error
	if errors.As(err, &e) {
		return strconv.Itoa(e.Code)
	}
	return ""
}

func isDuplicateError(err error) bool {
	if e, ok := err.(*googleapi.Error); ok {
		return e.Code == 409
	} else {
		return false
	}
}
