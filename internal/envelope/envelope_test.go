package envelope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNetworkFailure(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", context.DeadlineExceeded)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	env := NetworkFailure[student](cause, "request timed out", now)

	assert.False(t, env.Success)
	assert.Equal(t, 500, env.StatusCode)
	assert.Equal(t, ModuleApp, env.Module)
	assert.Equal(t, "request timed out", env.Message)
	assert.Equal(t, "2026-03-01T10:00:00.000Z", env.Timestamp)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrorTypeTechnical, env.Error.Type)
	assert.Equal(t, CodeNetworkError, env.Error.Code)
	assert.Equal(t, cause.Error(), env.Error.Details)
	assert.Nil(t, env.Data)
	assert.True(t, env.Valid())

	err := env.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status.StatusCode)
}

func TestGuards_MutuallyExclusive(t *testing.T) {
	now := time.Now()
	data := &student{ID: "s1", Name: "Asha"}

	envs := []*Response[student]{
		Success(200, ModuleStudent, "ok", data, now),
		Success[student](204, ModuleStudent, "deleted", nil, now),
		Failure[student](422, ModuleStudent, "invalid", &ErrorInfo{Type: ErrorTypeValidation, Code: "INVALID_EMAIL"}, now),
		NetworkFailure[student](errors.New("boom"), "boom", now),
		nil,
	}

	for i, env := range envs {
		assert.Equal(t, IsSuccess(env), !IsError(env), "envelope %d", i)
	}
}

func TestGetData(t *testing.T) {
	now := time.Now()

	got, ok := GetData(Success(200, ModuleStudent, "ok", &student{ID: "s1"}, now))
	assert.True(t, ok)
	assert.Equal(t, "s1", got.ID)

	_, ok = GetData(Success[student](200, ModuleStudent, "ok", nil, now))
	assert.False(t, ok)

	_, ok = GetData(NetworkFailure[student](errors.New("x"), "x", now))
	assert.False(t, ok)
}

func TestGetError(t *testing.T) {
	now := time.Now()

	info, ok := GetError(Failure[student](403, ModuleRole, "forbidden", &ErrorInfo{Type: ErrorTypeAccess, Code: "FORBIDDEN"}, now))
	require.True(t, ok)
	assert.Equal(t, ErrorTypeAccess, info.Type)

	_, ok = GetError(Success(200, ModuleStudent, "ok", &student{}, now))
	assert.False(t, ok)
}

func TestResponse_WireNames(t *testing.T) {
	raw := `{
		"success": false,
		"statusCode": 409,
		"message": "Student already enrolled",
		"module": "ENROLLMENT",
		"error": {"type": "BUSINESS_ERROR", "code": "DUPLICATE_ENROLLMENT", "details": {"studentId": "s1"}},
		"timestamp": "2026-03-01T10:00:00.000Z",
		"requestId": "req-1"
	}`

	var env Response[student]
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	assert.False(t, env.Success)
	assert.Equal(t, 409, env.StatusCode)
	assert.Equal(t, ModuleEnrollment, env.Module)
	assert.Equal(t, "req-1", env.RequestID)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrorTypeBusiness, env.Error.Type)
	assert.Equal(t, "DUPLICATE_ENROLLMENT", env.Error.Code)
	assert.Equal(t, map[string]any{"studentId": "s1"}, env.Error.Details)

	out, err := json.Marshal(env)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	for _, key := range []string{"success", "statusCode", "message", "module", "error", "timestamp", "requestId"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "data")
}

func TestModule_Known(t *testing.T) {
	assert.True(t, ModuleAuth.Known())
	assert.True(t, ModuleApp.Known())
	assert.False(t, Module("LEGACY").Known())
}

func TestAPIError_Message(t *testing.T) {
	err := Failure[student](404, ModuleStudent, "Student not found", &ErrorInfo{Type: ErrorTypeBusiness, Code: "NOT_FOUND"}, time.Now()).Err()
	assert.Equal(t, "Student not found (404 NOT_FOUND)", err.Error())

	assert.NoError(t, Success(200, ModuleStudent, "ok", &student{}, time.Now()).Err())
}
