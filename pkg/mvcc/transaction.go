package mvcc

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/kv"
	"go.uber.org/zap"
)

// Transaction is the per-transaction MVCC state: its own write version and
// the snapshot of versions that were active (begun but not yet
// terminated) when it began. Visibility: a committed write at version w is
// visible to this transaction iff w <= Version and w is not in active.
type Transaction struct {
	engine  *Engine
	Version uint64
	active  map[uint64]struct{}
	TraceID string
	done    bool
}

func (t *Transaction) visible(w uint64) bool {
	if w > t.Version {
		return false
	}
	_, inActive := t.active[w]
	return !inActive
}

func (t *Transaction) checkUsable() error {
	if t.done {
		return &errors.InternalError{Message: "transaction already committed or rolled back"}
	}
	return nil
}

// Get reads the visible value for raw, per the visibility rule: it range
// scans Version(raw, 0)..=Version(raw, Version) in reverse and returns the
// payload of the first visible entry, or ok=false if none exists or the
// visible entry is a tombstone.
func (t *Transaction) Get(raw []byte) ([]byte, bool, error) {
	if err := t.checkUsable(); err != nil {
		return nil, false, err
	}
	e := t.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	lo := encodeVersion(raw, 0)
	hi := encodeVersion(raw, t.Version)
	pairs, err := e.store.ScanReverse(kv.RangeBetween(lo, false, hi, false))
	if err != nil {
		return nil, false, &errors.InternalError{Message: "Get: scan failed: " + err.Error()}
	}

	for _, p := range pairs {
		_, w, err := decodeVersion(p.Key)
		if err != nil {
			return nil, false, err
		}
		if !t.visible(w) {
			continue
		}
		opt, err := decodeOption(p.Value)
		if err != nil {
			return nil, false, err
		}
		if !opt.present {
			return nil, false, nil
		}
		return opt.bytes, true, nil
	}
	return nil, false, nil
}

// Set writes value for raw, subject to the write-conflict check.
func (t *Transaction) Set(raw, value []byte) error {
	return t.write(raw, some(value))
}

// Delete writes a tombstone for raw, subject to the write-conflict check.
func (t *Transaction) Delete(raw []byte) error {
	return t.write(raw, none())
}

// write performs the conflict scan and, if clear, records the write:
// compute lo = min(active_versions ∪ {Version+1}), range-scan
// Version(raw, lo)..=Version(raw, MAX), and inspect the last entry. If its
// version is not visible to this transaction, another transaction holds
// or committed-after this one began: fail with WriteConflict. On success,
// record TxnWrite(Version, raw) then Version(raw, Version) := opt.
func (t *Transaction) write(raw []byte, opt optionValue) error {
	if err := t.checkUsable(); err != nil {
		return err
	}
	e := t.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	lo := t.Version + 1
	for w := range t.active {
		if w < lo {
			lo = w
		}
	}

	rangeLow := encodeVersion(raw, lo)
	rangeHigh := encodeVersion(raw, MaxVersion)
	pairs, err := e.store.Scan(kv.RangeBetween(rangeLow, false, rangeHigh, false))
	if err != nil {
		return &errors.InternalError{Message: "write: conflict scan failed: " + err.Error()}
	}

	if len(pairs) > 0 {
		last := pairs[len(pairs)-1]
		_, w, err := decodeVersion(last.Key)
		if err != nil {
			return err
		}
		if !t.visible(w) {
			e.log.Warn("mvcc: write conflict",
				zap.Uint64("version", t.Version),
				zap.Uint64("conflicting_version", w),
				zap.String("trace_id", t.TraceID))
			return &errors.WriteConflictError{Key: string(raw)}
		}
	}

	if err := e.store.Set(encodeTxnWrite(t.Version, raw), []byte{}); err != nil {
		return &errors.InternalError{Message: "write: recording TxnWrite: " + err.Error()}
	}
	if err := e.store.Set(encodeVersion(raw, t.Version), encodeOption(opt)); err != nil {
		return &errors.InternalError{Message: "write: writing Version: " + err.Error()}
	}
	return nil
}

// ScanPrefix returns the visible value (or omits a tombstoned key) for
// every user key beginning with userPrefix, in ascending key order.
func (t *Transaction) ScanPrefix(userPrefix []byte) ([]kv.Pair, error) {
	if err := t.checkUsable(); err != nil {
		return nil, err
	}
	e := t.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	pairs, err := e.store.ScanPrefix(encodeVersionScanPrefix(userPrefix))
	if err != nil {
		return nil, &errors.InternalError{Message: "ScanPrefix: scan failed: " + err.Error()}
	}

	type entry struct {
		raw     []byte
		value   []byte
		removed bool
	}
	order := make([]string, 0, len(pairs))
	byRaw := make(map[string]*entry, len(pairs))

	for _, p := range pairs {
		raw, w, err := decodeVersion(p.Key)
		if err != nil {
			return nil, err
		}
		if !t.visible(w) {
			continue
		}
		opt, err := decodeOption(p.Value)
		if err != nil {
			return nil, err
		}

		key := string(raw)
		ent, ok := byRaw[key]
		if !ok {
			if !opt.present {
				continue // tombstoned before ever becoming visible: omit entirely
			}
			ent = &entry{raw: raw, value: opt.bytes}
			byRaw[key] = ent
			order = append(order, key)
			continue
		}
		if opt.present {
			ent.value = opt.bytes
			ent.removed = false
		} else {
			ent.removed = true
		}
	}

	out := make([]kv.Pair, 0, len(order))
	for _, key := range order {
		ent := byRaw[key]
		if ent.removed {
			continue
		}
		out = append(out, kv.Pair{Key: ent.raw, Value: ent.value})
	}
	return out, nil
}

// Commit deletes every TxnWrite(Version,*) record and TxnActive(Version);
// Version(*,Version) records remain as the durable result of the
// transaction. The transaction must not be reused afterward.
func (t *Transaction) Commit() error {
	if err := t.checkUsable(); err != nil {
		return err
	}
	e := t.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	pairs, err := e.store.ScanPrefix(encodeTxnWritePrefix(t.Version))
	if err != nil {
		return &errors.InternalError{Message: "Commit: scanning TxnWrite: " + err.Error()}
	}
	for _, p := range pairs {
		if err := e.store.Delete(p.Key); err != nil {
			return &errors.InternalError{Message: "Commit: deleting TxnWrite: " + err.Error()}
		}
	}
	if err := e.store.Delete(encodeTxnActive(t.Version)); err != nil {
		return &errors.InternalError{Message: "Commit: deleting TxnActive: " + err.Error()}
	}

	e.markDone(t.Version)
	t.done = true
	e.log.Debug("mvcc: commit", zap.Uint64("version", t.Version), zap.String("trace_id", t.TraceID))
	return nil
}

// Rollback deletes, for every TxnWrite(Version,raw), both the write record
// and the corresponding Version(raw,Version) entry, then TxnActive(Version).
// The transaction must not be reused afterward.
func (t *Transaction) Rollback() error {
	if err := t.checkUsable(); err != nil {
		return err
	}
	e := t.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	pairs, err := e.store.ScanPrefix(encodeTxnWritePrefix(t.Version))
	if err != nil {
		return &errors.InternalError{Message: "Rollback: scanning TxnWrite: " + err.Error()}
	}
	for _, p := range pairs {
		_, raw, err := decodeTxnWrite(p.Key)
		if err != nil {
			return err
		}
		if err := e.store.Delete(encodeVersion(raw, t.Version)); err != nil {
			return &errors.InternalError{Message: "Rollback: deleting Version: " + err.Error()}
		}
		if err := e.store.Delete(p.Key); err != nil {
			return &errors.InternalError{Message: "Rollback: deleting TxnWrite: " + err.Error()}
		}
	}
	if err := e.store.Delete(encodeTxnActive(t.Version)); err != nil {
		return &errors.InternalError{Message: "Rollback: deleting TxnActive: " + err.Error()}
	}

	e.markDone(t.Version)
	t.done = true
	e.log.Debug("mvcc: rollback", zap.Uint64("version", t.Version), zap.String("trace_id", t.TraceID))
	return nil
}
