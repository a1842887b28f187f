package scrape

import (
	"context"
	"encoding/json"

	"github.com/gocolly/colly/v2"

	apperrors "github.com/openswoop/hooscheds/pkg/errors"
)

// Source is an upstream course API. Departments are fetched first, then each
// department's courses, so callers can fan out one unit of work per department.
type Source interface {
	Departments(ctx context.Context) ([]string, error)
	Courses(ctx context.Context, subject string) ([]RawCourse, error)
}

// NewCollector returns a collector set up for JSON APIs. An empty cacheDir
// disables the on-disk web cache.
func NewCollector(cacheDir string) *colly.Collector {
	c := colly.NewCollector()
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	c.CacheDir = cacheDir
	return c
}

// FetchCourseRecords flattens every department of a source into one sequence.
func FetchCourseRecords(ctx context.Context, src Source) ([]RawCourse, error) {
	subjects, err := src.Departments(ctx)
	if err != nil {
		return nil, err
	}
	var records []RawCourse
	for _, subject := range subjects {
		courses, err := src.Courses(ctx, subject)
		if err != nil {
			return nil, err
		}
		records = append(records, courses...)
	}
	return records, nil
}

// fetchJSON makes a single GET request and decodes the body into v.
func fetchJSON(ctx context.Context, c *colly.Collector, url string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Network(err, "GET %s", url)
	}

	var body []byte
	c = c.Clone() // same collector but without old callbacks
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
	})
	c.OnResponse(func(res *colly.Response) {
		body = res.Body
	})

	if err := c.Visit(url); err != nil {
		return apperrors.Network(err, "GET %s", url)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.Decode(err, "GET %s", url)
	}
	return nil
}
