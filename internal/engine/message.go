package engine

import (
	"fmt"
	"strings"

	"github.com/MaxSteins36/OpenSeat/internal/banner"
)

// formatSections renders the found sections as an HTML message body for
// the push client: per section a bold CRN header, seat counts, the first
// listed instructor, then one line per meeting with day initials, time
// range, and location. Sections are separated by a blank line.
func formatSections(sections []banner.Section) string {
	var b strings.Builder
	for i := range sections {
		s := &sections[i]
		fmt.Fprintf(&b, "<b>CRN %s (%s)</b><br>", s.CourseReferenceNumber, s.ScheduleTypeDescription)
		fmt.Fprintf(&b, "Seats: <b>%d</b>/%d<br>", s.SeatsAvailable, s.MaximumEnrollment)
		fmt.Fprintf(&b, "Instructor: %s<br>", instructorName(s))

		for j := range s.MeetingsFaculty {
			mt := &s.MeetingsFaculty[j].MeetingTime
			fmt.Fprintf(&b, "%s %s-%s in %s %s<br>",
				dayInitials(mt),
				mt.BeginTime,
				mt.EndTime,
				mt.BuildingDescription,
				mt.Room,
			)
		}
		b.WriteString("<br>")
	}
	return b.String()
}

func instructorName(s *banner.Section) string {
	if len(s.Faculty) == 0 {
		return "TBA"
	}
	return s.Faculty[0].DisplayName
}

// dayInitials concatenates the initials of the meeting's weekdays in
// Monday through Friday order, Thursday rendered as "R" per registrar
// convention.
func dayInitials(mt *banner.MeetingTime) string {
	var b strings.Builder
	if mt.Monday {
		b.WriteByte('M')
	}
	if mt.Tuesday {
		b.WriteByte('T')
	}
	if mt.Wednesday {
		b.WriteByte('W')
	}
	if mt.Thursday {
		b.WriteByte('R')
	}
	if mt.Friday {
		b.WriteByte('F')
	}
	return b.String()
}
