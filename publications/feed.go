package publications

import (
	"context"
	"sync"
)

// FeedState is the list view's lifecycle state.
type FeedState int

const (
	FeedIdle FeedState = iota
	FeedLoading
	FeedLoaded
	FeedFailed
)

func (s FeedState) String() string {
	switch s {
	case FeedIdle:
		return "idle"
	case FeedLoading:
		return "loading"
	case FeedLoaded:
		return "loaded"
	case FeedFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a point-in-time view of the feed.
type Snapshot struct {
	State        FeedState
	Criteria     Criteria
	Publications []Publication
	Err          error
}

// Feed drives the publications list view: any criteria change moves the
// feed to loading and issues a fresh list call. Each call carries a
// monotonically increasing sequence number and completions older than the
// latest issued call are discarded, so a slow stale response can never
// overwrite a fresher result.
type Feed struct {
	client *Client

	mu       sync.Mutex
	seq      uint64
	state    FeedState
	criteria Criteria
	pubs     []Publication
	err      error
}

// NewFeed creates an idle feed.
func NewFeed(client *Client) *Feed {
	return &Feed{client: client, state: FeedIdle}
}

// Load applies the criteria and fetches the matching publications. It is
// safe to call concurrently; whichever call was issued last wins,
// regardless of response arrival order.
func (f *Feed) Load(ctx context.Context, criteria Criteria) error {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.criteria = criteria
	f.state = FeedLoading
	f.mu.Unlock()

	pubs, err := f.client.List(ctx, criteria)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		// A newer load was issued while this one was in flight.
		return err
	}
	if err != nil {
		f.state = FeedFailed
		f.err = err
		f.pubs = nil
		return err
	}
	f.state = FeedLoaded
	f.err = nil
	f.pubs = pubs
	return nil
}

// Reload re-runs the last applied criteria.
func (f *Feed) Reload(ctx context.Context) error {
	f.mu.Lock()
	criteria := f.criteria
	f.mu.Unlock()
	return f.Load(ctx, criteria)
}

// Snapshot returns the current feed state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	pubs := make([]Publication, len(f.pubs))
	copy(pubs, f.pubs)
	return Snapshot{
		State:        f.state,
		Criteria:     f.criteria,
		Publications: pubs,
		Err:          f.err,
	}
}
