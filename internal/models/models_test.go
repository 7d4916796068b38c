package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/MacJediWizard/edudesk/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Date
	}{
		{name: "calendar date", in: `"2026-03-15"`, want: NewDate(2026, time.March, 15)},
		{name: "timestamp", in: `"2026-03-15T00:00:00.000Z"`, want: NewDate(2026, time.March, 15)},
		{name: "positive offset keeps wall date", in: `"2026-03-01T00:00:00+05:30"`, want: NewDate(2026, time.March, 1)},
		{name: "negative offset keeps wall date", in: `"2026-03-01T23:30:00-08:00"`, want: NewDate(2026, time.March, 1)},
		{name: "null", in: `null`, want: Date{}},
		{name: "empty", in: `""`, want: Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v want %v", d, tt.want)
			assert.Equal(t, tt.want.String(), d.String())
		})
	}

	t.Run("encodes as calendar date", func(t *testing.T) {
		b, err := json.Marshal(struct {
			Start Date  `json:"start"`
			End   *Date `json:"end,omitempty"`
		}{Start: NewDate(2026, time.January, 5)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"start":"2026-01-05"}`, string(b))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	})
}

func TestFilters_QueryOrder(t *testing.T) {
	tests := []struct {
		name    string
		filters any
		want    string
	}{
		{
			name: "cohort page, limit, status",
			filters: CohortFilters{
				ListParams: ListParams{Page: intPtr(2), Limit: intPtr(10)},
				Status:     CohortActive,
			},
			want: "page=2&limit=10&status=ACTIVE",
		},
		{
			name:    "empty filters",
			filters: StudentFilters{},
			want:    "",
		},
		{
			name: "defined false is kept",
			filters: OrganizationFilters{
				ListParams: ListParams{IncludeDeleted: boolPtr(false)},
				IsActive:   boolPtr(true),
			},
			want: "includeDeleted=false&isActive=true",
		},
		{
			name: "dates and search",
			filters: CohortFilters{
				ListParams:    ListParams{Search: "data science", SortBy: "startDate", SortOrder: SortDesc},
				StartDateFrom: &Date{time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)},
			},
			want: "search=data+science&sortBy=startDate&sortOrder=desc&startDateFrom=2026-02-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.FromStruct(tt.filters).Encode())
		})
	}
}

func TestUpdateRequests_OmitUnset(t *testing.T) {
	name := "Evening batch"
	b, err := json.Marshal(UpdateCohortRequest{Name: &name, Capacity: intPtr(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Evening batch","capacity":0}`, string(b))
}

func TestCohort_SeatsLeft(t *testing.T) {
	assert.Equal(t, 5, Cohort{Capacity: 20, EnrolledCount: 15}.SeatsLeft())
	assert.Equal(t, 0, Cohort{Capacity: 20, EnrolledCount: 22}.SeatsLeft())
}

func TestLoginResponse_Decode(t *testing.T) {
	body := `{"access_token":{"token":"abc","expiresIn":3600},"employee":{"id":"e1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}}`

	var resp LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "abc", resp.AccessToken.Token)
	require.NotNil(t, resp.User())
	assert.Equal(t, "e1", resp.User().ID)
	assert.Nil(t, resp.Student)
}

func TestTimestamps_Embedded(t *testing.T) {
	body := `{"id":"s1","firstName":"Ada","lastName":"Lovelace","email":"a@example.com","status":"ACTIVE","createdAt":"2026-01-01T10:00:00Z","updatedAt":"2026-01-02T10:00:00Z","deletedAt":"2026-01-03T10:00:00Z"}`

	var s Student
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.True(t, s.IsDeleted())
	assert.Equal(t, StudentActive, s.Status)
	assert.Equal(t, []string{"s1", "", "Ada Lovelace", "a@example.com", "", "ACTIVE"}, s.Row())
	assert.Len(t, s.Row(), len(Student{}.Header()))
}

func TestRows_MatchHeaders(t *testing.T) {
	type tabular interface {
		Header() []string
		Row() []string
	}
	rows := []tabular{
		Organization{}, Center{}, Employee{}, Student{}, Course{}, Cohort{}, Class{},
		Enrollment{}, Enquiry{}, Payment{}, Feedback{}, Role{}, Permission{}, AuditLog{}, Profile{},
	}
	for _, r := range rows {
		assert.Len(t, r.Row(), len(r.Header()), "%T", r)
	}
}
