package banner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPayload = `{
	"success": true,
	"totalCount": 2,
	"data": [
		{
			"courseReferenceNumber": "23456",
			"scheduleTypeDescription": "Lecture",
			"seatsAvailable": 3,
			"maximumEnrollment": 30,
			"faculty": [{"displayName": "Doe, Jane"}],
			"meetingsFaculty": [
				{
					"meetingTime": {
						"monday": true,
						"wednesday": true,
						"beginTime": "1000",
						"endTime": "1050",
						"buildingDescription": "Olmsted Hall",
						"room": "1208"
					}
				}
			]
		},
		{
			"courseReferenceNumber": "23457",
			"scheduleTypeDescription": "Discussion",
			"seatsAvailable": 0,
			"maximumEnrollment": 25,
			"faculty": [],
			"meetingsFaculty": []
		}
	]
}`

func TestSSBClient_SessionFlow(t *testing.T) {
	t.Parallel()

	var (
		gotUA       []string
		gotTermForm string
		gotCookies  []int
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/ssb/classSearch/classSearch", func(w http.ResponseWriter, r *http.Request) {
		gotUA = append(gotUA, r.Header.Get("User-Agent"))
		gotCookies = append(gotCookies, len(r.Cookies()))
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
	})
	mux.HandleFunc("/ssb/term/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "search", r.URL.Query().Get("mode"))
		require.NoError(t, r.ParseForm())
		gotTermForm = r.PostFormValue("term")
		gotUA = append(gotUA, r.Header.Get("User-Agent"))
		gotCookies = append(gotCookies, len(r.Cookies()))
	})
	mux.HandleFunc("/ssb/searchResults/searchResults", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BUS106", r.URL.Query().Get("txt_subjectcoursecombo"))
		assert.Equal(t, "202610", r.URL.Query().Get("txt_term"))
		assert.Equal(t, "50", r.URL.Query().Get("pageMaxSize"))
		gotUA = append(gotUA, r.Header.Get("User-Agent"))
		gotCookies = append(gotCookies, len(r.Cookies()))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewSSBClient(
		WithBaseURL(srv.URL+"/ssb"),
		WithUserAgent("test-agent"),
	)

	ctx := context.Background()
	require.NoError(t, c.StartSession(ctx))
	require.NoError(t, c.SelectTerm(ctx, "202610"))

	resp, err := c.Search(ctx, SearchRequest{
		Subject:     "BUS106",
		Term:        "202610",
		PageMaxSize: 50,
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalCount)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "23456", resp.Data[0].CourseReferenceNumber)
	assert.Equal(t, 3, resp.Data[0].SeatsAvailable)
	assert.Equal(t, "Olmsted Hall", resp.Data[0].MeetingsFaculty[0].MeetingTime.BuildingDescription)

	assert.Equal(t, "202610", gotTermForm)
	assert.Equal(t, []string{"test-agent", "test-agent", "test-agent"}, gotUA)

	// The session cookie set by the bootstrap must ride along on the term
	// select and the search.
	require.Len(t, gotCookies, 3)
	assert.Equal(t, 0, gotCookies[0])
	assert.Equal(t, 1, gotCookies[1])
	assert.Equal(t, 1, gotCookies[2])
}

func TestSSBClient_StartSession_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewSSBClient(WithBaseURL(srv.URL))

	err := c.StartSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSSBClient_SelectTerm_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewSSBClient(WithBaseURL(srv.URL))

	err := c.SelectTerm(context.Background(), "202610")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSSBClient_Search_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSSBClient(WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), SearchRequest{Subject: "BUS106", Term: "202610"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSSBClient_Search_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewSSBClient(WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), SearchRequest{Subject: "BUS106", Term: "202610"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing search response")
}

func TestSSBClient_Search_DefaultPageSize(t *testing.T) {
	t.Parallel()

	var gotSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSize = r.URL.Query().Get("pageMaxSize")
		_, _ = w.Write([]byte(`{"success": true, "totalCount": 0, "data": []}`))
	}))
	defer srv.Close()

	c := NewSSBClient(WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), SearchRequest{Subject: "BUS106", Term: "202610"})
	require.NoError(t, err)
	assert.Equal(t, "50", gotSize)
}

func TestSearchResponse_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    SearchResponse
		wantErr bool
	}{
		{
			name: "valid envelope",
			resp: SearchResponse{Success: true, TotalCount: 1, Data: []Section{{}}},
		},
		{
			name:    "success false",
			resp:    SearchResponse{Success: false, TotalCount: 1, Data: []Section{{}}},
			wantErr: true,
		},
		{
			name:    "nil data",
			resp:    SearchResponse{Success: true, TotalCount: 1},
			wantErr: true,
		},
		{
			name:    "zero total count",
			resp:    SearchResponse{Success: true, TotalCount: 0, Data: []Section{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.resp.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoSections)
				return
			}
			require.NoError(t, err)
		})
	}
}
