// Package mvcc implements the multi-version concurrency control
// transaction layer over an abstract ordered byte-keyed store (pkg/kv):
// versioned keys, snapshot-isolation visibility, write-conflict detection,
// and commit/rollback.
package mvcc

import (
	"sync"

	"github.com/bobboyms/kvsql/pkg/encoding"
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/kv"
	"go.uber.org/zap"
)

// Engine is the single mutually-excluded mutable resource every
// transaction shares. Every operation briefly acquires mu, performs its
// reads/writes/scans, and releases it; scans hold mu for their duration,
// so a Transaction's iteration methods are scoped and must return before
// the next engine call on that transaction (see the concurrency model).
type Engine struct {
	mu     sync.Mutex
	store  kv.Store
	log    *zap.Logger
	liveMu sync.Mutex
	live   map[uint64]struct{}
}

// NewEngine wraps store with the MVCC layer. A nil logger defaults to a
// no-op logger so the engine is usable without a caller wiring logging.
func NewEngine(store kv.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store: store,
		log:   logger,
		live:  make(map[uint64]struct{}),
	}
}

func (e *Engine) markLive(v uint64) {
	e.liveMu.Lock()
	e.live[v] = struct{}{}
	e.liveMu.Unlock()
}

func (e *Engine) markDone(v uint64) {
	e.liveMu.Lock()
	delete(e.live, v)
	e.liveMu.Unlock()
}

func (e *Engine) isLive(v uint64) bool {
	e.liveMu.Lock()
	_, ok := e.live[v]
	e.liveMu.Unlock()
	return ok
}

// Begin starts a new transaction: it reads and advances NextVersion,
// snapshots the active-version set, and publishes its own TxnActive
// marker, all under the engine lock.
func (e *Engine) Begin() (*Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.nextVersionLocked()
	if err != nil {
		return nil, err
	}

	active, err := e.activeVersionsLocked()
	if err != nil {
		return nil, err
	}

	if err := e.store.Set(encodeTxnActive(v), []byte{}); err != nil {
		return nil, &errors.InternalError{Message: "Begin: writing TxnActive: " + err.Error()}
	}

	e.markLive(v)

	txn := &Transaction{
		engine:  e,
		Version: v,
		active:  active,
		TraceID: newTraceID(),
	}
	e.log.Debug("mvcc: begin", zap.Uint64("version", v), zap.String("trace_id", txn.TraceID))
	return txn, nil
}

func (e *Engine) nextVersionLocked() (uint64, error) {
	raw, ok, err := e.store.Get(encodeNextVersion())
	if err != nil {
		return 0, &errors.InternalError{Message: "reading NextVersion: " + err.Error()}
	}
	var v uint64 = 1
	if ok {
		v, _, err = encoding.DecodeUint64(raw)
		if err != nil {
			return 0, err
		}
	}
	if err := e.store.Set(encodeNextVersion(), encoding.EncodeUint64(v+1)); err != nil {
		return 0, &errors.InternalError{Message: "writing NextVersion: " + err.Error()}
	}
	return v, nil
}

func (e *Engine) activeVersionsLocked() (map[uint64]struct{}, error) {
	pairs, err := e.store.ScanPrefix(encodeTxnActivePrefix())
	if err != nil {
		return nil, &errors.InternalError{Message: "scanning TxnActive: " + err.Error()}
	}
	active := make(map[uint64]struct{}, len(pairs))
	for _, p := range pairs {
		v, err := decodeTxnActive(p.Key)
		if err != nil {
			return nil, err
		}
		active[v] = struct{}{}
	}
	return active, nil
}

// ReapAbandoned rolls back every persisted TxnActive entry whose version
// is not one this Engine instance currently considers live — i.e. a
// transaction handle was lost (dropped without Commit or Rollback) rather
// than properly terminated. It is a defensive recovery pass a caller
// invokes explicitly (e.g. between sessions), not a background goroutine.
func (e *Engine) ReapAbandoned() (int, error) {
	e.mu.Lock()
	pairs, err := e.store.ScanPrefix(encodeTxnActivePrefix())
	e.mu.Unlock()
	if err != nil {
		return 0, &errors.InternalError{Message: "ReapAbandoned: scanning TxnActive: " + err.Error()}
	}

	reaped := 0
	for _, p := range pairs {
		v, err := decodeTxnActive(p.Key)
		if err != nil {
			return reaped, err
		}
		if e.isLive(v) {
			continue
		}
		orphan := &Transaction{engine: e, Version: v, TraceID: newTraceID()}
		if err := orphan.Rollback(); err != nil {
			return reaped, err
		}
		e.log.Warn("mvcc: reaped abandoned transaction", zap.Uint64("version", v))
		reaped++
	}
	return reaped, nil
}
