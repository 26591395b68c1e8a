// Package session is the top-level entry point: one SQL statement per
// call, plan, begin a transaction, execute, commit on success or roll
// back on error (§2's "Session" layer, §6's CLI/session surface).
package session

import (
	"go.uber.org/zap"

	"github.com/bobboyms/kvsql/pkg/mvcc"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/exec"
	"github.com/bobboyms/kvsql/pkg/sql/plan"
	"github.com/bobboyms/kvsql/pkg/sql/txn"
)

// Session runs statements against one MVCC engine.
type Session struct {
	engine *mvcc.Engine
	log    *zap.Logger
}

// New creates a Session over engine. logger may be nil (defaults to a
// no-op logger, matching mvcc.NewEngine's own convention).
func New(engine *mvcc.Engine, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{engine: engine, log: logger}
}

// Execute runs one statement to completion: plan, begin, execute, then
// commit on success or roll back on any error. A WriteConflict is
// returned to the caller for retry on a fresh statement, same as any
// other execution error.
func (s *Session) Execute(stmt ast.Statement) (exec.ResultSet, error) {
	node, err := plan.Plan(stmt)
	if err != nil {
		s.log.Warn("session: plan failed", zap.Error(err))
		return exec.ResultSet{}, err
	}

	mv, err := s.engine.Begin()
	if err != nil {
		return exec.ResultSet{}, err
	}
	tx := txn.New(mv)

	rs, err := exec.Execute(node, tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Warn("session: rollback after execution error also failed",
				zap.Error(err), zap.NamedError("rollback_error", rbErr))
		}
		s.log.Info("session: statement rolled back", zap.Error(err))
		return exec.ResultSet{}, err
	}

	if err := tx.Commit(); err != nil {
		return exec.ResultSet{}, err
	}
	s.log.Info("session: statement committed", zap.Int("kind", int(rs.Kind)))
	return rs, nil
}
