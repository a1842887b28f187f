package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
)

// DeptList reads /api/deptlist/ and then one /api/dept/{subject} listing per department.
type DeptList struct {
	c       *colly.Collector
	baseURL string
	// Limit caps the courses kept per department; 0 keeps all of them.
	Limit int
}

func NewDeptList(c *colly.Collector, baseURL string, limit int) *DeptList {
	return &DeptList{c: c, baseURL: strings.TrimRight(baseURL, "/"), Limit: limit}
}

type deptEntry struct {
	Subject string `json:"subject"`
}

type deptCourse struct {
	Subject       flexString `json:"subject"`
	CatalogNumber flexString `json:"catalog_number"`
	Description   flexString `json:"description"`
	CourseSection flexString `json:"course_section"`
	Instructor    struct {
		Name flexString `json:"name"`
	} `json:"instructor"`
	Meetings []struct {
		Days                flexString `json:"days"`
		StartTime           flexString `json:"start_time"`
		EndTime             flexString `json:"end_time"`
		FacilityDescription flexString `json:"facility_description"`
	} `json:"meetings"`
	Term                flexString `json:"term"`
	EnrollmentAvailable *int       `json:"enrollment_available"`
	EnrollmentTotal     *int       `json:"enrollment_total"`
}

func (d *DeptList) Departments(ctx context.Context) ([]string, error) {
	var entries []deptEntry
	if err := fetchJSON(ctx, d.c, d.baseURL+"/api/deptlist/", &entries); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var subjects []string
	for _, e := range entries {
		subject := strings.TrimSpace(e.Subject)
		if subject == "" || seen[subject] {
			continue
		}
		seen[subject] = true
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

func (d *DeptList) Courses(ctx context.Context, subject string) ([]RawCourse, error) {
	var listing []deptCourse
	if err := fetchJSON(ctx, d.c, d.baseURL+"/api/dept/"+url.PathEscape(subject), &listing); err != nil {
		return nil, err
	}
	if d.Limit > 0 && len(listing) > d.Limit {
		listing = listing[:d.Limit]
	}

	courses := make([]RawCourse, 0, len(listing))
	for _, dc := range listing {
		course := RawCourse{
			Subject:             dc.Subject.String(),
			CatalogNumber:       dc.CatalogNumber.String(),
			Section:             dc.CourseSection.String(),
			Title:               dc.Description.String(),
			Instructor:          dc.Instructor.Name.String(),
			Term:                dc.Term.String(),
			EnrollmentAvailable: dc.EnrollmentAvailable,
			EnrollmentTotal:     dc.EnrollmentTotal,
			Department:          subject,
		}
		if course.Subject == "" {
			course.Subject = subject
		}
		for _, m := range dc.Meetings {
			course.Meetings = append(course.Meetings, Meeting{
				Days:      m.Days.String(),
				StartTime: m.StartTime.String(),
				EndTime:   m.EndTime.String(),
				Facility:  m.FacilityDescription.String(),
			})
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// flexString accepts JSON strings, numbers and null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}
