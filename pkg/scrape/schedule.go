package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gocolly/colly/v2"

	apperrors "github.com/openswoop/hooscheds/pkg/errors"
)

// Positions of the fields in a class_schedules record.
const (
	colSubject = iota
	colCatalogNumber
	colClassSection
	colClassNumber
	colClassTitle
	colTopicDesc
	colInstructor
	colEnrollmentCapacity
	colMeetingDays
	colMeetingTimeStart
	colMeetingTimeEnd
	colTerm
	colTermDesc
)

type classSchedules struct {
	ClassSchedules *struct {
		Records []json.RawMessage `json:"records"`
	} `json:"class_schedules"`
}

// DevHub reads the single flat /v1/courses listing. The listing is fetched
// once and grouped by subject.
type DevHub struct {
	c   *colly.Collector
	url string

	once     sync.Once
	err      error
	subjects []string
	courses  map[string][]RawCourse
}

func NewDevHub(c *colly.Collector, baseURL string) *DevHub {
	return &DevHub{c: c, url: strings.TrimRight(baseURL, "/") + "/v1/courses"}
}

func (d *DevHub) Departments(ctx context.Context) ([]string, error) {
	if err := d.load(ctx); err != nil {
		return nil, err
	}
	return d.subjects, nil
}

func (d *DevHub) Courses(ctx context.Context, subject string) ([]RawCourse, error) {
	if err := d.load(ctx); err != nil {
		return nil, err
	}
	return d.courses[subject], nil
}

func (d *DevHub) load(ctx context.Context) error {
	d.once.Do(func() {
		var payload classSchedules
		if err := fetchJSON(ctx, d.c, d.url, &payload); err != nil {
			d.err = err
			return
		}
		if payload.ClassSchedules == nil {
			d.err = apperrors.Decode(nil, "GET %s: missing class_schedules", d.url)
			return
		}

		d.courses = make(map[string][]RawCourse)
		for i, raw := range payload.ClassSchedules.Records {
			course, err := parseRecord(raw)
			if err != nil {
				d.err = apperrors.Decode(err, "GET %s: record %d", d.url, i)
				return
			}
			if course.Subject == "" {
				continue
			}
			if _, found := d.courses[course.Subject]; !found {
				d.subjects = append(d.subjects, course.Subject)
			}
			d.courses[course.Subject] = append(d.courses[course.Subject], course)
		}
	})
	return d.err
}

func parseRecord(raw json.RawMessage) (RawCourse, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var row []interface{}
	if err := dec.Decode(&row); err != nil {
		return RawCourse{}, err
	}
	if len(row) <= colCatalogNumber {
		return RawCourse{}, fmt.Errorf("expected at least %d fields, got %d", colCatalogNumber+1, len(row))
	}

	cell := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}

	subject := cell(colSubject)
	course := RawCourse{
		Subject:       subject,
		CatalogNumber: cell(colCatalogNumber),
		Section:       cell(colClassSection),
		Title:         cell(colClassTitle),
		Description:   cell(colTopicDesc),
		Instructor:    cell(colInstructor),
		Term:          cell(colTermDesc),
		Department:    subject,
	}
	if course.Term == "" {
		if id, err := strconv.Atoi(cell(colTerm)); err == nil {
			course.Term, _ = TermFromId(id)
		}
	}
	if capacity, err := strconv.Atoi(cell(colEnrollmentCapacity)); err == nil {
		course.EnrollmentTotal = &capacity
	}

	// Rows without any schedule information have no meeting at all
	meeting := Meeting{
		Days:      cell(colMeetingDays),
		StartTime: cell(colMeetingTimeStart),
		EndTime:   cell(colMeetingTimeEnd),
	}
	if (Meeting{}) != meeting {
		course.Meetings = []Meeting{meeting}
	}
	return course, nil
}
