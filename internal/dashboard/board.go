package dashboard

import (
	"sync"
	"time"

	"cfanalyzer/internal/common/cache"
)

// Token orders analysis requests of one board.
type Token uint64

// Board holds the newest completed snapshot of one client. A completion that
// is older than the held snapshot is discarded, so a slow response can never
// overwrite a newer one.
type Board struct {
	mu   sync.Mutex
	next Token
	held Token
	snap *Snapshot
}

func NewBoard() *Board {
	return &Board{}
}

// Begin issues the token for a new analysis.
func (b *Board) Begin() Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	return b.next
}

// Commit stores snap if t is newer than the held token. It reports whether
// the snapshot was kept.
func (b *Board) Commit(t Token, snap *Snapshot) bool {
	if snap == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if t <= b.held || t > b.next {
		return false
	}
	b.held = t
	b.snap = snap
	return true
}

// Latest returns a copy of the held snapshot and its token.
func (b *Board) Latest() (*Snapshot, Token, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snap == nil {
		return nil, 0, false
	}
	return b.snap.Clone(), b.held, true
}

// Sessions maps client session ids to boards. Idle sessions expire.
type Sessions struct {
	boards *cache.LRU[string, *Board]
}

func NewSessions(maxSessions int, ttl time.Duration) *Sessions {
	return &Sessions{boards: cache.NewLRU[string, *Board](maxSessions, ttl)}
}

// Board returns the board of id, creating it on first use.
func (s *Sessions) Board(id string) *Board {
	return s.boards.GetOrCreate(id, NewBoard)
}

// Lookup returns the board of id without creating one.
func (s *Sessions) Lookup(id string) (*Board, bool) {
	return s.boards.Get(id)
}

func (s *Sessions) Len() int {
	return s.boards.Len()
}
