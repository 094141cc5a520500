package balance

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Tracker owns the balance snapshot for one connected account. The
// snapshot is replaced wholesale on every refresh; readers get copies.
type Tracker struct {
	fetcher *Fetcher
	owner   solana.PublicKey

	mu   sync.Mutex
	snap Snapshot
}

// NewTracker creates a tracker for the given account. The snapshot
// starts unknown until the first Refresh.
func NewTracker(fetcher *Fetcher, owner solana.PublicKey) *Tracker {
	return &Tracker{fetcher: fetcher, owner: owner}
}

// Refresh fetches a fresh snapshot and installs it. A failed fetch
// installs the (possibly empty) result rather than keeping stale data.
func (t *Tracker) Refresh(ctx context.Context) {
	snap := t.fetcher.Fetch(ctx, t.owner)
	t.mu.Lock()
	t.snap = snap
	t.mu.Unlock()
}

// Snapshot returns a copy of the current snapshot. Nil means balances
// have never been loaded.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap == nil {
		return nil
	}
	out := make(Snapshot, len(t.snap))
	for k, v := range t.snap {
		out[k] = v
	}
	return out
}

// Clear drops the snapshot, e.g. on disconnect.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.snap = nil
	t.mu.Unlock()
}
