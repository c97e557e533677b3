package store

import (
	"sync"
	"time"

	"github.com/farzanaesha/crypto-analysis/internal/market"
)

// Snapshot is what presenters consume: the last successfully assembled
// series plus enough metadata to tell fresh from stale.
type Snapshot struct {
	Series    market.Series `json:"series"`
	Sequence  uint64        `json:"sequence"`
	RefreshID string        `json:"refresh_id"`
	UpdatedAt time.Time     `json:"updated_at"`
	LastError string        `json:"last_error,omitempty"`
	FailedAt  time.Time     `json:"failed_at,omitempty"`
}

// Stale reports whether the newest completed refresh failed. The series
// still holds the last good window in that case.
func (s Snapshot) Stale() bool { return s.LastError != "" }

// HasData reports whether any refresh has ever succeeded.
func (s Snapshot) HasData() bool { return len(s.Series) > 0 }

// SnapshotStore is the single shared slot between the refresh loop and
// the presenters. Replace-on-success, preserve-on-failure: a failed
// tick records its error but keeps the previous series on display.
type SnapshotStore struct {
	mu  sync.RWMutex
	cur Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Publish installs a freshly assembled series and clears any failure
// marker. The caller hands over ownership of the slice.
func (s *SnapshotStore) Publish(refreshID string, series market.Series) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Sequence++
	s.cur.RefreshID = refreshID
	s.cur.Series = series
	s.cur.UpdatedAt = time.Now()
	s.cur.LastError = ""
	s.cur.FailedAt = time.Time{}
	return s.snapshotLocked()
}

// Fail records a failed refresh while preserving the previous series.
func (s *SnapshotStore) Fail(refreshID string, err error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Sequence++
	s.cur.RefreshID = refreshID
	s.cur.LastError = err.Error()
	s.cur.FailedAt = time.Now()
	return s.snapshotLocked()
}

// Latest returns a copy of the current snapshot; the series slice is
// cloned so readers can never observe a tick in progress.
func (s *SnapshotStore) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SnapshotStore) snapshotLocked() Snapshot {
	out := s.cur
	if len(s.cur.Series) > 0 {
		out.Series = make(market.Series, len(s.cur.Series))
		copy(out.Series, s.cur.Series)
	}
	return out
}
