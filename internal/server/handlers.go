package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqlbench/internal/server/notifier"
	"github.com/leapstack-labs/sqlbench/internal/session"
	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// Handlers serves the API endpoints.
type Handlers struct {
	session  *session.Session
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates API handlers over sess.
func NewHandlers(sess *session.Session, n *notifier.Notifier, logger *slog.Logger) *Handlers {
	return &Handlers{session: sess, notifier: n, logger: logger}
}

type queryRequest struct {
	SQL string `json:"sql"`
}

// Query executes SQL. The response is always a result; SQL faults are
// reported in its error field.
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid request body: expected {\"sql\": \"...\"}"))
		return
	}

	res := h.session.Execute(r.Context(), req.SQL)
	if !res.HasError() {
		h.notify("query")
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Tables lists user tables, loading the sample data into an empty database first.
func (h *Handlers) Tables(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SeedIfEmpty(r.Context()); err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	tables, err := h.session.ListTables(r.Context())
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, tables)
}

// Table describes one table. Only names present in the catalog are accepted.
func (h *Handlers) Table(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	tables, err := h.session.ListTables(r.Context())
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	if !slices.Contains(tables, name) {
		h.writeError(w, http.StatusNotFound, errors.New("table "+name+" not found"))
		return
	}

	cols, err := h.session.DescribeTable(r.Context(), name)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, core.Table{Name: name, Columns: cols})
}

// Overview returns every table with its create statement.
func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	if err := h.session.EnsureReady(r.Context()); err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.session.Overview(r.Context()))
}

// Reset replaces the database with a fresh copy of the sample data.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ResetAndReseed(r.Context()); err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	gen := h.notify("reset")
	h.writeJSON(w, http.StatusOK, map[string]string{"generation": gen})
}

// Export downloads the database as a SQL script.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	script, err := h.session.ExportScript(r.Context())
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="database.sql"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(script))
}

// Events streams change notifications as datastar signal patches.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	initial := notifier.Event{Generation: h.session.Generation(), Changed: "connected"}
	if err := sse.MarshalAndPatchSignals(initial); err != nil {
		h.logger.Debug("failed to send initial event", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.MarshalAndPatchSignals(ev); err != nil {
				h.logger.Debug("failed to send event", "error", err)
				return
			}
		}
	}
}

// notify broadcasts a change and returns the current generation.
func (h *Handlers) notify(changed string) string {
	gen := h.session.Generation()
	h.notifier.Broadcast(notifier.Event{Generation: gen, Changed: changed})
	return gen
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err)
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	var initErr *core.EngineInitError
	if errors.As(err, &initErr) || errors.Is(err, core.ErrNotReady) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
