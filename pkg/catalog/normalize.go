package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/openswoop/hooscheds/pkg/scrape"
)

// NoFacility describes the location of a course that has no meetings.
const NoFacility = "No facility description"

// Normalizer turns raw upstream records into the relational entities.
type Normalizer struct {
	Schools Schools
	// Threshold excludes catalog numbers at or above it (graduate courses).
	Threshold int
	// Term labels records whose upstream entry carries none.
	Term   string
	Logger *zap.Logger
}

func (n Normalizer) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

// Department builds the department row for a subject code.
func (n Normalizer) Department(subject string) Department {
	return Department{
		DeptID:     subject,
		SchoolName: n.Schools.Resolve(subject),
	}
}

// Include reports whether a record's catalog number is below the threshold.
// Non-numeric catalog numbers are excluded.
func (n Normalizer) Include(raw scrape.RawCourse) bool {
	number, err := strconv.Atoi(strings.TrimSpace(raw.CatalogNumber))
	if err != nil {
		return false
	}
	return number < n.Threshold
}

// Normalize maps one record. Only the first meeting is kept on the section.
func (n Normalizer) Normalize(raw scrape.RawCourse) Record {
	courseID := fmt.Sprintf("%s %s", raw.Subject, raw.CatalogNumber)
	dept := raw.Department
	if dept == "" {
		dept = raw.Subject
	}
	term := raw.Term
	if term == "" {
		term = n.Term
	}

	meeting := firstMeeting(raw.Meetings)
	return Record{
		Course: Course{
			CourseID:          courseID,
			CourseName:        raw.Title,
			CourseDescription: raw.Description,
			Term:              term,
		},
		Association: CourseDepartment{
			CourseID: courseID,
			DeptID:   dept,
		},
		Section: Section{
			SectionID:    raw.Section,
			CourseID:     courseID,
			Professor:    raw.Instructor,
			Location:     meeting.Facility,
			StartTime:    n.clock(courseID, meeting.StartTime),
			EndTime:      n.clock(courseID, meeting.EndTime),
			MeetingDates: meeting.Days,
			Availability: availability(raw.EnrollmentAvailable, raw.EnrollmentTotal),
		},
	}
}

// Batch filters and normalizes the records of one department. Upstream
// sends one row per meeting, so a section seen again is dropped and the
// first meeting stays on it.
func (n Normalizer) Batch(subject string, raws []scrape.RawCourse) Batch {
	batch := Batch{Department: n.Department(subject)}
	seen := make(map[string]bool)
	for _, raw := range raws {
		if !n.Include(raw) {
			batch.Skipped++
			continue
		}
		rec := n.Normalize(raw)
		key := rec.Section.Key()
		if seen[key] {
			batch.Repeated++
			continue
		}
		seen[key] = true
		batch.Records = append(batch.Records, rec)
	}
	return batch
}

func (n Normalizer) clock(courseID, raw string) string {
	if raw == "" || raw == NoTime {
		return NoTime
	}
	formatted, err := FormatTime(raw)
	if err != nil {
		n.logger().Warn("unparseable meeting time", zap.String("course_id", courseID), zap.Error(err))
		return NoTime
	}
	return formatted
}

// A course without meetings gets a placeholder so it still has a section.
func firstMeeting(meetings []scrape.Meeting) scrape.Meeting {
	if len(meetings) == 0 {
		return scrape.Meeting{StartTime: NoTime, EndTime: NoTime, Facility: NoFacility}
	}
	return meetings[0]
}

func availability(available, total *int) string {
	if available == nil || total == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", *available, *total)
}
