package query

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type status string

type ListParams struct {
	Page   *int   `query:"page"`
	Limit  *int   `query:"limit"`
	Search string `query:"search"`
}

type cohortFilters struct {
	ListParams
	Status    status     `query:"status"`
	CourseID  *uuid.UUID `query:"courseId"`
	IsActive  *bool      `query:"isActive"`
	StartFrom *time.Time `query:"startFrom"`
	Tags      []string   `query:"tags"`
	Internal  string
	Skipped   string `query:"-"`
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestParams_EncodePreservesOrder(t *testing.T) {
	p := Params{}.Add("a", 1).Add("b", "x")
	assert.Equal(t, "a=1&b=x", p.Encode())

	p = Params{}.Add("z", true).Add("a", 2.5).Add("m", "hello world")
	assert.Equal(t, "z=true&a=2.5&m=hello+world", p.Encode())
}

func TestParams_EncodeDoesNotFilter(t *testing.T) {
	p := Params{}.Add("page", 0).Add("search", "").Add("active", false)
	assert.Equal(t, "page=0&search=&active=false", p.Encode())
}

func TestAppend(t *testing.T) {
	p := Params{}.Add("page", 2)
	assert.Equal(t, "/students?page=2", Append("/students", p))
	assert.Equal(t, "/students?x=1&page=2", Append("/students?x=1", p))
	assert.Equal(t, "/students", Append("/students", nil))
}

func TestStringify(t *testing.T) {
	id := uuid.MustParse("7d3f1c52-8a53-4c1b-9d3e-2f1a4b5c6d7e")
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "ACTIVE", "ACTIVE"},
		{"named string", status("PLANNING"), "PLANNING"},
		{"int", 10, "10"},
		{"uint8", uint8(7), "7"},
		{"float", 12.75, "12.75"},
		{"bool", true, "true"},
		{"time", ts, "2026-01-02T03:04:05Z"},
		{"time pointer", &ts, "2026-01-02T03:04:05Z"},
		{"uuid", id, id.String()},
		{"nil pointer", (*int)(nil), ""},
		{"int pointer", intPtr(3), "3"},
		{"slice", []string{"a", "b"}, "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestFromStruct(t *testing.T) {
	t.Run("defined fields in declaration order", func(t *testing.T) {
		f := cohortFilters{
			ListParams: ListParams{Page: intPtr(2), Limit: intPtr(10)},
			Status:     "ACTIVE",
		}
		assert.Equal(t, "page=2&limit=10&status=ACTIVE", FromStruct(f).Encode())
	})

	t.Run("pointer to zero value is defined", func(t *testing.T) {
		f := &cohortFilters{ListParams: ListParams{Page: intPtr(0)}, IsActive: boolPtr(false)}
		assert.Equal(t, "page=0&isActive=false", FromStruct(f).Encode())
	})

	t.Run("untagged and dash fields ignored", func(t *testing.T) {
		f := cohortFilters{Internal: "x", Skipped: "y", Tags: []string{"evening", "weekend"}}
		assert.Equal(t, "tags=evening%2Cweekend", FromStruct(f).Encode())
	})

	t.Run("empty struct", func(t *testing.T) {
		assert.Empty(t, FromStruct(cohortFilters{}))
	})

	t.Run("nil and non-struct", func(t *testing.T) {
		assert.Nil(t, FromStruct(nil))
		assert.Nil(t, FromStruct((*cohortFilters)(nil)))
		assert.Nil(t, FromStruct(42))
	})
}
