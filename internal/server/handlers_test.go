package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlbench/internal/session"
	"github.com/leapstack-labs/sqlbench/internal/testutil"
	"github.com/leapstack-labs/sqlbench/pkg/core"

	_ "github.com/leapstack-labs/sqlbench/pkg/engines/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Session) {
	t.Helper()
	logger := testutil.NewTestLogger(t)

	sess := session.New(session.Config{Logger: logger})
	t.Cleanup(func() { _ = sess.Close() })

	ts := httptest.NewServer(New(Config{Session: sess, Logger: logger}).Handler())
	t.Cleanup(ts.Close)
	return ts, sess
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHandlers_Query(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		verify     func(t *testing.T, body []byte)
	}{
		{
			name:       "select",
			body:       `{"sql": "SELECT 1 AS one, 'a' AS two"}`,
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"columns":["one","two"],"rows":[[1,"a"]]}`, string(body))
			},
		},
		{
			name:       "no result set",
			body:       `{"sql": "CREATE TABLE t (x INTEGER)"}`,
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"columns":[],"rows":[]}`, string(body))
			},
		},
		{
			name:       "sql fault is inline",
			body:       `{"sql": "SELECT * FROM nonexistent"}`,
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var res core.Result
				require.NoError(t, json.Unmarshal(body, &res))
				assert.Contains(t, res.Error, "no such table")
				assert.Empty(t, res.Columns)
			},
		},
		{
			name:       "bad body",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			verify: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "invalid request body")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t)
			resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/query", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			tt.verify(t, body)
		})
	}
}

func TestHandlers_TablesSeeds(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/tables", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["users","posts","comments"]`, string(body))
}

func TestHandlers_Table(t *testing.T) {
	ts, _ := newTestServer(t)
	doRequest(t, http.MethodGet, ts.URL+"/api/tables", "")

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/tables/posts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var table core.Table
	require.NoError(t, json.Unmarshal(body, &table))
	assert.Equal(t, "posts", table.Name)
	require.Len(t, table.Columns, 6)
	assert.Equal(t, "id", table.Columns[0].Name)
	assert.True(t, table.Columns[0].PrimaryKey)

	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/api/tables/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/api/tables/users')--", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlers_Overview(t *testing.T) {
	ts, _ := newTestServer(t)
	doRequest(t, http.MethodGet, ts.URL+"/api/tables", "")

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/overview", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res core.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, []string{"Table Name", "Create Statement"}, res.Columns)
	assert.Len(t, res.Rows, 3)
}

func TestHandlers_ResetAndExport(t *testing.T) {
	ts, sess := newTestServer(t)

	_, body := doRequest(t, http.MethodPost, ts.URL+"/api/query", `{"sql": "CREATE TABLE scratch (x INTEGER)"}`)
	assert.NotContains(t, string(body), "error")
	before := sess.Generation()

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEqual(t, before, out["generation"])
	assert.Equal(t, sess.Generation(), out["generation"])

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="database.sql"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	script := string(body)
	assert.NotContains(t, script, "scratch")
	assert.Equal(t, 5, strings.Count(script, "INSERT INTO users VALUES"))
}

func TestHandlers_InitFailure(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	sess := session.New(session.Config{Engine: failingEngine{}, Logger: logger})
	ts := httptest.NewServer(New(Config{Session: sess, Logger: logger}).Handler())
	defer ts.Close()

	for _, path := range []string{"/api/tables", "/api/overview", "/api/export"} {
		resp, body := doRequest(t, http.MethodGet, ts.URL+path, "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Contains(t, string(body), "engine unavailable", path)
	}

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/query", `{"sql": "SELECT 1"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "engine unavailable")
}

func TestHandlers_Events(t *testing.T) {
	ts, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor := func(substr string) {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", substr)
				if strings.Contains(line, substr) {
					return
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", substr)
			}
		}
	}

	waitFor(`"changed":"connected"`)

	doRequest(t, http.MethodPost, ts.URL+"/api/reset", "")
	waitFor(`"changed":"reset"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(&core.EngineInitError{Engine: "x", Err: errors.New("y")}))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(core.ErrNotReady))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("other")))
}

type failingEngine struct{}

func (failingEngine) Name() string { return "failing" }

func (failingEngine) Open(context.Context) (core.Instance, error) {
	return nil, errors.New("engine unavailable")
}
