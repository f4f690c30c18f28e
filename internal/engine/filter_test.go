package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSteins36/OpenSeat/internal/banner"
	"github.com/MaxSteins36/OpenSeat/internal/config"
)

func section(crn, schedType string, seats, max int, meetings ...banner.MeetingTime) banner.Section {
	s := banner.Section{
		CourseReferenceNumber:   crn,
		ScheduleTypeDescription: schedType,
		SeatsAvailable:          seats,
		MaximumEnrollment:       max,
		Faculty:                 []banner.Faculty{{DisplayName: "Doe, Jane"}},
	}
	for _, m := range meetings {
		s.MeetingsFaculty = append(s.MeetingsFaculty, banner.MeetingFaculty{MeetingTime: m})
	}
	return s
}

func fridayAt(begin string) banner.MeetingTime {
	return banner.MeetingTime{Friday: true, BeginTime: begin, EndTime: "0950"}
}

func TestFilterOpen(t *testing.T) {
	t.Parallel()

	rules := DefaultExclusions()

	tests := []struct {
		name     string
		sections []banner.Section
		wantCRNs []string
	}{
		{
			name: "full sections dropped regardless of type",
			sections: []banner.Section{
				section("1", "Lecture", 0, 30),
				section("2", "Discussion", 0, 25),
				section("3", "Lab", 0, 20),
			},
			wantCRNs: nil,
		},
		{
			name: "discussion on friday 0800 excluded",
			sections: []banner.Section{
				section("1", "Discussion", 5, 25, fridayAt("0800")),
			},
			wantCRNs: nil,
		},
		{
			name: "discussion on friday 0900 excluded",
			sections: []banner.Section{
				section("1", "Discussion", 5, 25, fridayAt("0900")),
			},
			wantCRNs: nil,
		},
		{
			name: "discussion on friday 1000 kept",
			sections: []banner.Section{
				section("1", "Discussion", 5, 25, fridayAt("1000")),
			},
			wantCRNs: []string{"1"},
		},
		{
			name: "discussion at 0800 on monday kept",
			sections: []banner.Section{
				section("1", "Discussion", 5, 25,
					banner.MeetingTime{Monday: true, BeginTime: "0800", EndTime: "0850"},
				),
			},
			wantCRNs: []string{"1"},
		},
		{
			name: "one bad meeting excludes the whole section",
			sections: []banner.Section{
				section("1", "Discussion", 5, 25,
					banner.MeetingTime{Monday: true, BeginTime: "1100", EndTime: "1150"},
					fridayAt("0900"),
				),
			},
			wantCRNs: nil,
		},
		{
			name: "lecture on friday 0800 kept, rule only hits discussions",
			sections: []banner.Section{
				section("1", "Lecture", 3, 30, fridayAt("0800")),
			},
			wantCRNs: []string{"1"},
		},
		{
			name: "input order preserved",
			sections: []banner.Section{
				section("30", "Lecture", 1, 30),
				section("10", "Discussion", 2, 25, fridayAt("1100")),
				section("20", "Discussion", 4, 25, fridayAt("0800")),
				section("40", "Lab", 6, 20),
			},
			wantCRNs: []string{"30", "10", "40"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterOpen(tt.sections, rules)

			var crns []string
			for i := range got {
				crns = append(crns, got[i].CourseReferenceNumber)
			}
			assert.Equal(t, tt.wantCRNs, crns)
		})
	}
}

func TestFilterOpen_Idempotent(t *testing.T) {
	t.Parallel()

	sections := []banner.Section{
		section("1", "Lecture", 3, 30),
		section("2", "Discussion", 5, 25, fridayAt("0800")),
		section("3", "Discussion", 2, 25, fridayAt("1100")),
	}
	rules := DefaultExclusions()

	once := FilterOpen(sections, rules)
	twice := FilterOpen(once, rules)

	assert.Equal(t, once, twice)
}

func TestFilterOpen_NoRules(t *testing.T) {
	t.Parallel()

	sections := []banner.Section{
		section("1", "Discussion", 5, 25, fridayAt("0800")),
		section("2", "Lecture", 0, 30),
	}

	got := FilterOpen(sections, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].CourseReferenceNumber)
}

func TestRulesFromConfig(t *testing.T) {
	t.Parallel()

	rules := RulesFromConfig([]config.Exclusion{
		{
			ScheduleType: "Lab",
			Days:         []string{"monday", "wednesday"},
			BeginTimes:   []string{"1700"},
		},
	})

	require.Len(t, rules, 1)

	evening := section("1", "Lab", 5, 20,
		banner.MeetingTime{Wednesday: true, BeginTime: "1700", EndTime: "1950"},
	)
	morning := section("2", "Lab", 5, 20,
		banner.MeetingTime{Wednesday: true, BeginTime: "0900", EndTime: "1150"},
	)

	assert.True(t, rules[0].Matches(&evening))
	assert.False(t, rules[0].Matches(&morning))
}
