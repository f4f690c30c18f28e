// Package banner provides a client for the Ellucian Banner Student
// Self-Service registration surface, abstracted behind an interface for
// testability.
package banner

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSections is returned when the search endpoint answers with an
// unsuccessful or empty result envelope. The term code may be invalid or
// the API may have changed.
var ErrNoSections = errors.New("API returned 0 sections")

// SearchRequest defines the parameters for a section search.
type SearchRequest struct {
	Subject     string // subject+course combo, e.g. "BUS106"
	Term        string // term code, e.g. "202610"
	PageMaxSize int    // result cap; sections beyond it are not fetched
}

// SearchResponse is the JSON envelope of the searchResults endpoint.
type SearchResponse struct {
	Success    bool      `json:"success"`
	TotalCount int       `json:"totalCount"`
	Data       []Section `json:"data"`
}

// Validate checks the response envelope. Individual section or meeting
// fields are not defended; absent keys decode to zero values and flow
// through to the filter unchanged.
func (r *SearchResponse) Validate() error {
	if !r.Success || r.Data == nil || r.TotalCount == 0 {
		return fmt.Errorf("%w: the term code may be invalid or the API may have changed", ErrNoSections)
	}
	return nil
}

// Section is one scheduled offering of a course within a term.
type Section struct {
	CourseReferenceNumber   string           `json:"courseReferenceNumber"`
	ScheduleTypeDescription string           `json:"scheduleTypeDescription"`
	SeatsAvailable          int              `json:"seatsAvailable"`
	MaximumEnrollment       int              `json:"maximumEnrollment"`
	Faculty                 []Faculty        `json:"faculty"`
	MeetingsFaculty         []MeetingFaculty `json:"meetingsFaculty"`
}

// Faculty is one instructor attached to a section.
type Faculty struct {
	DisplayName string `json:"displayName"`
}

// MeetingFaculty wraps one weekly meeting slot of a section.
type MeetingFaculty struct {
	MeetingTime MeetingTime `json:"meetingTime"`
}

// MeetingTime holds the weekday flags, time range, and location of one
// meeting slot. Times are 4-digit 24-hour strings, e.g. "0900".
type MeetingTime struct {
	Monday              bool   `json:"monday"`
	Tuesday             bool   `json:"tuesday"`
	Wednesday           bool   `json:"wednesday"`
	Thursday            bool   `json:"thursday"`
	Friday              bool   `json:"friday"`
	BeginTime           string `json:"beginTime"`
	EndTime             string `json:"endTime"`
	BuildingDescription string `json:"buildingDescription"`
	Room                string `json:"room"`
}

// Client defines the interface for interacting with the registration site.
// StartSession must be called before SelectTerm, and SelectTerm before
// Search: term selection is a server-side session mutation, not a request
// parameter.
type Client interface {
	StartSession(ctx context.Context) error
	SelectTerm(ctx context.Context, term string) error
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}
