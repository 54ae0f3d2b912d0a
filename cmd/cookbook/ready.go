package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"

	"github.com/samber/lo"
)

type Readyable interface {
	Ready(context.Context) error
}

// readiness checks the backends the facade depends on. After one fully passing round it
// answers ready without checking again.
type readiness struct {
	passed atomic.Bool
	checks map[string]Readyable
}

func newReadiness() *readiness {
	return &readiness{checks: map[string]Readyable{}}
}

func (r *readiness) Add(name string, check Readyable) {
	r.checks[name] = check
}

// Ready runs every check and joins the failures, each prefixed with its name.
func (r *readiness) Ready(ctx context.Context) error {
	if r.passed.Load() {
		return nil
	}
	names := lo.Keys(r.checks)
	slices.Sort(names)
	var errs []error
	for _, name := range names {
		if err := r.checks[name].Ready(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	r.passed.Store(true)
	return nil
}

type readyStatus struct {
	Ready  bool     `json:"ready"`
	Checks []string `json:"checks"`
	Error  string   `json:"error,omitempty"`
}

func (r *readiness) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	status := readyStatus{Ready: true, Checks: lo.Keys(r.checks)}
	slices.Sort(status.Checks)
	code := http.StatusOK
	if err := r.Ready(req.Context()); err != nil {
		slog.WarnContext(req.Context(), "not ready", "error", err)
		status.Ready, status.Error, code = false, err.Error(), http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		slog.ErrorContext(req.Context(), "failed to write readiness response", "error", err)
	}
}
