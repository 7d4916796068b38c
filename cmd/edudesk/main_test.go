package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/sandbox"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type console struct {
	t       *testing.T
	apiURL  string
	cfgPath string
}

func newConsole(t *testing.T) *console {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	srv := httptest.NewServer(sandbox.New(sandbox.Options{Seed: true, Logger: zerolog.Nop()}).Handler())
	t.Cleanup(srv.Close)

	return &console{
		t:       t,
		apiURL:  srv.URL + "/api/v1",
		cfgPath: filepath.Join(home, ".edudesk", "config.yml"),
	}
}

// run invokes the console against the sandbox and returns stdout, stderr and
// the exit code.
func (c *console) run(stdin string, args ...string) (string, string, int) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--api-url", c.apiURL, "--config", c.cfgPath, "--no-color"}, args...)
	code := run(full, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (c *console) login() {
	c.t.Helper()
	out, errOut, code := c.run("admin123\n", "login", "--email", "admin@edudesk.local", "--password-stdin")
	require.Equal(c.t, 0, code, errOut)
	require.Contains(c.t, out, "Logged in as Ada Admin")
}

func (c *console) writeFile(name, body string) string {
	c.t.Helper()
	path := filepath.Join(c.t.TempDir(), name)
	require.NoError(c.t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	code := run([]string{"version"}, strings.NewReader(""), &stdout, &bytes.Buffer{})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "edudesk dev")
}

func TestLoginWhoamiLogout(t *testing.T) {
	c := newConsole(t)
	c.login()

	out, errOut, code := c.run("", "whoami")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "emp-admin")
	assert.Contains(t, out, "Permissions:")

	out, _, code = c.run("", "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Logged out")

	_, errOut, code = c.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestLogin_Failures(t *testing.T) {
	c := newConsole(t)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"wrong password", "nope\n", []string{"--email", "admin@edudesk.local", "--password-stdin"}, "x Invalid email or password"},
		{"empty password", "\n", []string{"--email", "admin@edudesk.local", "--password-stdin"}, "password cannot be empty"},
		{"no terminal", "", []string{"--email", "admin@edudesk.local"}, "use --password-stdin"},
		{"bad user type", "x\n", []string{"--email", "a@b.c", "--user-type", "parent", "--password-stdin"}, "unknown user type"},
		{"missing email", "x\n", []string{"--password-stdin"}, `required flag(s) "email" not set`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := c.run(tt.stdin, append([]string{"login"}, tt.args...)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestLogin_FailedEnvelopeNotRepeated(t *testing.T) {
	c := newConsole(t)

	_, errOut, code := c.run("nope\n", "login", "--email", "admin@edudesk.local", "--password-stdin")
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(errOut, "Invalid email or password"))
	assert.NotContains(t, errOut, "Error:")
}

func TestLogin_Student(t *testing.T) {
	c := newConsole(t)

	out, errOut, code := c.run("student123\n", "--output", "json", "login",
		"--email", "student@edudesk.local", "--user-type", "student", "--password-stdin")
	require.Equal(t, 0, code, errOut)

	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "stu-demo", s["userId"])
	assert.Equal(t, "STUDENT", s["userType"])
}

func TestList(t *testing.T) {
	c := newConsole(t)
	c.login()

	out, errOut, code := c.run("", "students", "list")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Sam Student")
	assert.Contains(t, out, "Page 1 of 1 (3 total)")

	out, _, code = c.run("", "--output", "json", "students", "list", "--status", "active", "--limit", "1")
	require.Equal(t, 0, code)
	var page envelope.Page[models.Student]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, models.StudentActive, page.Data[0].Status)

	out, _, code = c.run("", "--output", "json", "enquiries", "list", "--filter", "centerId=ctr-east")
	require.Equal(t, 0, code)
	var enquiries envelope.Page[models.Enquiry]
	require.NoError(t, json.Unmarshal([]byte(out), &enquiries))
	require.Len(t, enquiries.Data, 1)
	assert.Equal(t, "enq-maria", enquiries.Data[0].ID)
}

func TestList_InvalidFlags(t *testing.T) {
	c := newConsole(t)
	c.login()

	_, errOut, code := c.run("", "students", "list", "--filter", "centerId")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid --filter")

	_, errOut, code = c.run("", "students", "list", "--sort-order", "sideways")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid --sort-order")

	_, errOut, code = c.run("", "students", "list", "--page", "0")
	assert.Equal(t, 1, code)
	assert.NotContains(t, errOut, "Error:")
}

func TestRequiresSession(t *testing.T) {
	c := newConsole(t)

	_, errOut, code := c.run("", "courses", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestStudentLifecycle(t *testing.T) {
	c := newConsole(t)
	c.login()

	body := c.writeFile("student.json", `{"firstName":"Nia","lastName":"Reyes","email":"nia@example.com","centerId":"ctr-main"}`)
	out, errOut, code := c.run("", "--output", "json", "students", "create", "--file", body)
	require.Equal(t, 0, code, errOut)
	var created models.Student
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.StudentCode)

	patch := c.writeFile("patch.json", `{"firstName":"Nadia"}`)
	out, errOut, code = c.run("", "students", "update", created.ID, "--file", patch, "--dry-run")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "--- a/students/"+created.ID)
	assert.Contains(t, out, `-  "firstName": "Nia",`)
	assert.Contains(t, out, `+  "firstName": "Nadia",`)

	out, _, code = c.run("", "--output", "json", "students", "get", created.ID)
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"firstName": "Nia"`)

	out, errOut, code = c.run("", "students", "update", created.ID, "--file", patch, "--diff")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `+  "firstName": "Nadia",`)
	assert.Contains(t, out, "updated successfully")

	out, _, code = c.run("", "students", "delete", created.ID)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "deleted successfully")

	_, errOut, code = c.run("", "students", "get", created.ID)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "x ")

	out, _, code = c.run("", "students", "restore", created.ID)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Nadia")

	_, errOut, code = c.run("", "students", "purge", created.ID)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--yes")

	out, _, code = c.run("", "students", "purge", created.ID, "--yes")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "permanently deleted")
}

func TestCreate_BadFile(t *testing.T) {
	c := newConsole(t)
	c.login()

	body := c.writeFile("bad.json", `{"firstName":"Nia","nickname":"N"}`)
	_, errOut, code := c.run("", "students", "create", "--file", body)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown field "nickname"`)

	_, errOut, code = c.run(`{"firstName":"Nia"}`, "students", "create", "--file", "-")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "x ")
	assert.NotContains(t, errOut, "Error:")
}

func TestActions(t *testing.T) {
	c := newConsole(t)
	c.login()

	out, errOut, code := c.run("", "--output", "json", "payments", "refund", "pay-sam-1", "--amount", "100", "--reason", "partial")
	require.Equal(t, 0, code, errOut)
	var p models.Payment
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, models.PaymentPartiallyRefunded, p.Status)
	assert.Equal(t, 100.0, p.RefundedAmount)

	_, errOut, code = c.run("", "payments", "refund", "pay-sam-1", "--amount", "1000", "--reason", "too much")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "x ")

	out, errOut, code = c.run("", "cohorts", "start", "coh-data-1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "ACTIVE")

	out, errOut, code = c.run("", "--output", "json", "enquiries", "convert", "enq-lee", "--cohort", "coh-data-1")
	require.Equal(t, 0, code, errOut)
	var enq models.Enquiry
	require.NoError(t, json.Unmarshal([]byte(out), &enq))
	assert.Equal(t, models.EnquiryConverted, enq.Status)

	_, errOut, code = c.run("", "enquiries", "assign", "enq-maria")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `"employee" not set`)

	out, errOut, code = c.run("", "roles", "permissions", "role-instructor")
	require.Equal(t, 0, code, errOut)
	assert.True(t, strings.HasPrefix(out, "ID"))
}

func TestAuditLogs_ReadOnly(t *testing.T) {
	c := newConsole(t)
	c.login()

	out, errOut, code := c.run("", "audit-logs", "list", "--filter", "action=LOGIN")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "LOGIN")

	out, _, code = c.run("", "audit-logs", "--help")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "list")
	assert.NotContains(t, out, "purge")
	assert.NotContains(t, out, "create")
}

func TestDashboard(t *testing.T) {
	c := newConsole(t)
	c.login()

	out, errOut, code := c.run("", "dashboard")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "METRIC")
	assert.Contains(t, out, "Recent payments")

	_, errOut, code = c.run("", "dashboard", "--from", "yesterday")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid --from")
}

func TestConfig(t *testing.T) {
	c := newConsole(t)

	_, errOut, code := c.run("", "config", "set-url", "ftp://example.com")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "http or https")

	out, errOut, code := c.run("", "config", "set-url", "https://api.example.com/api/v1/")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "https://api.example.com/api/v1")

	raw, err := os.ReadFile(c.cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "api_url: https://api.example.com/api/v1")

	// the --api-url flag passed by run still wins over the file
	out, errOut, code = c.run("", "config", "show")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, c.apiURL)
	assert.Contains(t, out, "Proxy")

	t.Setenv("EDUDESK_OUTPUT", "yaml")
	_, errOut, code = c.run("", "config", "show")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown output format")
}

func TestConfig_DefaultPath(t *testing.T) {
	c := newConsole(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-color", "config", "set-url", c.apiURL}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), c.cfgPath)

	raw, err := os.ReadFile(c.cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "api_url: "+c.apiURL)

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"--no-color", "config", "show"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), c.cfgPath)
	assert.Contains(t, stdout.String(), c.apiURL)
}
