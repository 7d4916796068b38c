package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func students() []models.Student {
	return []models.Student{
		{ID: "s1", FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Status: models.StudentActive},
		{ID: "s2", FirstName: "Ben", LastName: "Okafor", Email: "ben@example.com", Status: models.StudentInactive},
	}
}

func TestTable_Aligned(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputTable, true)

	require.NoError(t, r.Table([]string{"ID", "NAME"}, [][]string{{"1", "short"}, {"22", "multi\nline"}}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  NAME", lines[0])
	assert.Equal(t, "1   short", lines[1])
	assert.Equal(t, "22  multi line", lines[2])
}

func TestList(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputTable, true)

	require.NoError(t, List(r, students()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "asha@example.com")
	assert.Contains(t, out, "Ben Okafor")
	assert.NotContains(t, out, "\x1b[")
}

func TestList_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputJSON, false)

	require.NoError(t, List[models.Student](r, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPage(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputTable, true)

	require.NoError(t, Page(r, envelope.Page[models.Student]{Data: students(), Total: 12, Page: 2, Limit: 2, TotalPages: 6}))
	assert.Contains(t, buf.String(), "Page 2 of 6 (12 total)")

	buf.Reset()
	require.NoError(t, Page(r, envelope.Page[models.Student]{Page: 1}))
	assert.Equal(t, "No records (page 1, 0 total)\n", buf.String())
}

func TestPage_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputJSON, true)

	require.NoError(t, Page(r, envelope.Page[models.Student]{Data: students(), Total: 2, Page: 1, Limit: 10, TotalPages: 1}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(2), got["total"])
	assert.Len(t, got["data"], 2)
}

func TestItem(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputTable, true)

	require.NoError(t, Item(r, students()[0]))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "FIELD"))
	assert.Contains(t, out, "asha@example.com")

	buf.Reset()
	require.NoError(t, Item(r, models.DashboardStats{TotalStudents: 7}))
	assert.Contains(t, buf.String(), "METRIC")
	assert.Contains(t, buf.String(), "Students")

	buf.Reset()
	require.NoError(t, Item(r, envelope.Message{Message: "done"}))
	assert.JSONEq(t, `{"message":"done"}`, buf.String())
}

func TestLineAndHint_SuppressedInJSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, config.OutputJSON, true)
	r.Line("hello %s", "world")
	r.Hint("dim")
	assert.Empty(t, buf.String())

	r = New(&buf, config.OutputTable, true)
	r.Line("hello %s", "world")
	assert.Equal(t, "hello world\n", buf.String())
}

func TestDiff(t *testing.T) {
	before := models.Course{ID: "c1", Name: "Go", Code: "GO-1", Fee: 100}
	after := before
	after.Fee = 150

	out, err := Diff("courses/c1", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/courses/c1")
	assert.Contains(t, out, "+++ b/courses/c1")
	assert.Contains(t, out, `-  "fee": 100,`)
	assert.Contains(t, out, `+  "fee": 150,`)

	out, err = Diff("courses/c1", before, before)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMerge(t *testing.T) {
	name := "Go Advanced"
	merged, err := Merge(
		models.Course{ID: "c1", Name: "Go", Code: "GO-1"},
		models.UpdateCourseRequest{Name: &name},
	)
	require.NoError(t, err)
	assert.Equal(t, "Go Advanced", merged["name"])
	assert.Equal(t, "GO-1", merged["code"])
}
