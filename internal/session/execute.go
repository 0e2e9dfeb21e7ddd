package session

import (
	"context"
	"errors"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// Execute runs sqlText against the live instance and returns the outcome.
//
// Only the first result set is returned; later ones are discarded.
// SQL faults and initialization failures are reported in Result.Error,
// never as a Go error. Statements before a failing one keep their effects.
func (s *Session) Execute(ctx context.Context, sqlText string) core.Result {
	inst, err := s.acquire(ctx)
	if err != nil {
		return core.ErrorResult(err.Error())
	}
	defer s.mu.Unlock()

	return s.executeLocked(ctx, inst, sqlText)
}

func (s *Session) executeLocked(ctx context.Context, inst core.Instance, sqlText string) core.Result {
	sets, err := inst.Exec(ctx, sqlText)
	if err != nil {
		s.logger.Debug("query failed", "error", err)
		return core.ErrorResult(err.Error())
	}
	if len(sets) == 0 {
		return core.EmptyResult()
	}
	if len(sets) > 1 {
		s.logger.Debug("discarding additional result sets", "count", len(sets)-1)
	}
	return core.ResultFromSet(sets[0])
}

// queryLocked runs catalog SQL and returns its rows, or the fault as an error.
func (s *Session) queryLocked(ctx context.Context, inst core.Instance, sqlText string) (core.Result, error) {
	res := s.executeLocked(ctx, inst, sqlText)
	if res.HasError() {
		return res, &core.QueryError{SQL: sqlText, Err: errors.New(res.Error)}
	}
	return res, nil
}
