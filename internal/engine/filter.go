package engine

import (
	"slices"

	"github.com/MaxSteins36/OpenSeat/internal/banner"
	"github.com/MaxSteins36/OpenSeat/internal/config"
)

// ExclusionRule suppresses sections of one schedule type that meet on one
// of the listed days at one of the listed begin times.
type ExclusionRule struct {
	ScheduleType string
	Days         []string // monday..friday
	BeginTimes   []string // 4-digit 24h strings
}

// Matches reports whether the section is suppressed by this rule. A single
// matching meeting excludes the whole section.
func (r ExclusionRule) Matches(s *banner.Section) bool {
	if s.ScheduleTypeDescription != r.ScheduleType {
		return false
	}
	for i := range s.MeetingsFaculty {
		mt := &s.MeetingsFaculty[i].MeetingTime
		if r.meetingMatches(mt) {
			return true
		}
	}
	return false
}

func (r ExclusionRule) meetingMatches(mt *banner.MeetingTime) bool {
	if !slices.Contains(r.BeginTimes, mt.BeginTime) {
		return false
	}
	for _, day := range r.Days {
		if meetsOn(mt, day) {
			return true
		}
	}
	return false
}

func meetsOn(mt *banner.MeetingTime, day string) bool {
	switch day {
	case "monday":
		return mt.Monday
	case "tuesday":
		return mt.Tuesday
	case "wednesday":
		return mt.Wednesday
	case "thursday":
		return mt.Thursday
	case "friday":
		return mt.Friday
	default:
		return false
	}
}

// RulesFromConfig converts configured exclusions into filter rules.
func RulesFromConfig(exclusions []config.Exclusion) []ExclusionRule {
	rules := make([]ExclusionRule, 0, len(exclusions))
	for _, ex := range exclusions {
		rules = append(rules, ExclusionRule{
			ScheduleType: ex.ScheduleType,
			Days:         ex.Days,
			BeginTimes:   ex.BeginTimes,
		})
	}
	return rules
}

// DefaultExclusions returns the stock rule set: Discussion sections meeting
// Friday at 0800 or 0900.
func DefaultExclusions() []ExclusionRule {
	return []ExclusionRule{
		{
			ScheduleType: "Discussion",
			Days:         []string{"friday"},
			BeginTimes:   []string{"0800", "0900"},
		},
	}
}

// FilterOpen returns the sections with open seats that no rule excludes.
// Input order is preserved; the function is pure and never sorts.
func FilterOpen(sections []banner.Section, rules []ExclusionRule) []banner.Section {
	var open []banner.Section
	for i := range sections {
		s := &sections[i]
		if s.SeatsAvailable <= 0 {
			continue
		}
		if excluded(s, rules) {
			continue
		}
		open = append(open, *s)
	}
	return open
}

func excluded(s *banner.Section, rules []ExclusionRule) bool {
	for _, r := range rules {
		if r.Matches(s) {
			return true
		}
	}
	return false
}
