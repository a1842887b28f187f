package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/openswoop/hooscheds/pkg/scrape"
)

func intPtr(i int) *int { return &i }

func newNormalizer(t *testing.T) Normalizer {
	t.Helper()
	schools, err := ParseSchools([]byte(`School of Engineering & Applied Science: [CS, APMA]`))
	require.NoError(t, err)
	return Normalizer{Schools: schools, Threshold: 6000, Term: "Fall 2022"}
}

func TestNormalize(t *testing.T) {
	n := newNormalizer(t)
	rec := n.Normalize(scrape.RawCourse{
		Subject:       "CS",
		CatalogNumber: "2150",
		Section:       "001",
		Title:         "Program & Data Representation",
		Instructor:    "Floryan",
		Meetings: []scrape.Meeting{
			{Days: "MoWeFr", StartTime: "13.00.00.000000-05:00", EndTime: "13.50.00.000000-05:00", Facility: "Rice Hall 130"},
			{Days: "Th", StartTime: "17.00.00.000000-05:00", EndTime: "18.15.00.000000-05:00", Facility: "Olsson 009"},
		},
		EnrollmentAvailable: intPtr(12),
		EnrollmentTotal:     intPtr(180),
		Department:          "CS",
	})

	assert.Equal(t, Course{CourseID: "CS 2150", CourseName: "Program & Data Representation", Term: "Fall 2022"}, rec.Course)
	assert.Equal(t, CourseDepartment{CourseID: "CS 2150", DeptID: "CS"}, rec.Association)
	assert.Equal(t, Section{
		SectionID:    "001",
		CourseID:     "CS 2150",
		Professor:    "Floryan",
		Location:     "Rice Hall 130",
		StartTime:    "1:00 PM",
		EndTime:      "1:50 PM",
		MeetingDates: "MoWeFr",
		Availability: "12/180",
	}, rec.Section)
}

func TestNormalizeKeepsRecordTerm(t *testing.T) {
	rec := newNormalizer(t).Normalize(scrape.RawCourse{Subject: "CS", CatalogNumber: "1110", Term: "Spring 2023"})
	assert.Equal(t, "Spring 2023", rec.Course.Term)
}

func TestNormalizeCrossListedCourse(t *testing.T) {
	rec := newNormalizer(t).Normalize(scrape.RawCourse{Subject: "STS", CatalogNumber: "4500", Department: "CS"})
	assert.Equal(t, "STS 4500", rec.Course.CourseID)
	assert.Equal(t, CourseDepartment{CourseID: "STS 4500", DeptID: "CS"}, rec.Association)
}

func TestNormalizeMissingMeetings(t *testing.T) {
	rec := newNormalizer(t).Normalize(scrape.RawCourse{Subject: "CS", CatalogNumber: "4993", Section: "100"})

	assert.Equal(t, "", rec.Section.MeetingDates)
	assert.Equal(t, NoTime, rec.Section.StartTime)
	assert.Equal(t, NoTime, rec.Section.EndTime)
	assert.Equal(t, NoFacility, rec.Section.Location)
	assert.Equal(t, "", rec.Section.Availability)
}

func TestNormalizeBadTimeFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := newNormalizer(t)
	n.Logger = zap.New(core)

	rec := n.Normalize(scrape.RawCourse{
		Subject:       "CS",
		CatalogNumber: "3240",
		Meetings:      []scrape.Meeting{{Days: "TuTh", StartTime: "noon", EndTime: "14.15.00.000000-05:00"}},
	})
	assert.Equal(t, NoTime, rec.Section.StartTime)
	assert.Equal(t, "2:15 PM", rec.Section.EndTime)
	assert.Equal(t, 1, logs.FilterMessage("unparseable meeting time").Len())
}

func TestInclude(t *testing.T) {
	n := newNormalizer(t)
	assert.True(t, n.Include(scrape.RawCourse{CatalogNumber: "5999"}))
	assert.False(t, n.Include(scrape.RawCourse{CatalogNumber: "6000"}))
	assert.False(t, n.Include(scrape.RawCourse{CatalogNumber: "7993"}))
	assert.False(t, n.Include(scrape.RawCourse{CatalogNumber: "ABC"}))
	assert.True(t, n.Include(scrape.RawCourse{CatalogNumber: " 1010 "}))

	n.Threshold = 5000
	assert.True(t, n.Include(scrape.RawCourse{CatalogNumber: "4999"}))
	assert.False(t, n.Include(scrape.RawCourse{CatalogNumber: "5000"}))
}

func TestBatch(t *testing.T) {
	batch := newNormalizer(t).Batch("CS", []scrape.RawCourse{
		{Subject: "CS", CatalogNumber: "5999", Department: "CS"},
		{Subject: "CS", CatalogNumber: "6000", Department: "CS"},
		{Subject: "CS", CatalogNumber: "2100", Department: "CS"},
	})

	assert.Equal(t, Department{DeptID: "CS", SchoolName: "School of Engineering & Applied Science"}, batch.Department)
	assert.Equal(t, 1, batch.Skipped)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "CS 5999", batch.Records[0].Course.CourseID)
	assert.Equal(t, "CS 2100", batch.Records[1].Course.CourseID)
	for _, rec := range batch.Records {
		assert.NotEqual(t, "CS 6000", rec.Section.CourseID)
	}
}

func TestDepartmentFallbackSchool(t *testing.T) {
	assert.Equal(t, DefaultSchool, newNormalizer(t).Department("HIST").SchoolName)
}

func TestBatchKeepsFirstMeetingOfRepeatedSection(t *testing.T) {
	row := func(section, days string) scrape.RawCourse {
		return scrape.RawCourse{
			Subject: "CS", CatalogNumber: "2150", Section: section, Department: "CS",
			Meetings: []scrape.Meeting{{Days: days, StartTime: "13.00.00.000000-05:00", EndTime: "13.50.00.000000-05:00"}},
		}
	}
	batch := newNormalizer(t).Batch("CS", []scrape.RawCourse{
		row("001", "MoWe"),
		row("002", "TuTh"),
		row("001", "Fr"),
		row("002", "Fr"),
	})

	assert.Equal(t, 2, batch.Repeated)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "MoWe", batch.Records[0].Section.MeetingDates)
	assert.Equal(t, "TuTh", batch.Records[1].Section.MeetingDates)
}
