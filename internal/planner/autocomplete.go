package planner

import (
	"strings"
	"time"
	"trek-planner/internal/domain"
	"trek-planner/internal/ports"
)

// autocomplete binds one slot to the location search service.
// Queries are debounced and only the latest one may update the slot.
type autocomplete struct {
	slot     *Slot
	session  *Session
	searcher ports.LocationSearcher
	debounce time.Duration
	minQuery int

	timer *time.Timer
	seq   uint64
}

func newAutocomplete(s *Session, slot *Slot) *autocomplete {
	return &autocomplete{
		slot:     slot,
		session:  s,
		searcher: s.searcher,
		debounce: s.opts.Debounce,
		minQuery: s.opts.MinQuery,
	}
}

// query runs on the loop. Every call supersedes all earlier ones, including
// requests already on the wire.
func (a *autocomplete) query(text string) {
	a.seq++
	seq := a.seq

	if a.timer != nil {
		a.timer.Stop()
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < a.minQuery {
		return
	}

	a.timer = time.AfterFunc(a.debounce, func() {
		a.session.loop.post(func() {
			if seq != a.seq {
				return
			}
			a.issue(seq, text)
		})
	})
}

func (a *autocomplete) issue(seq uint64, text string) {
	ctx := a.session.ctx
	go func() {
		locs, err := a.searcher.SearchLocations(ctx, text)
		a.session.loop.post(func() { a.complete(seq, locs, err) })
	}()
}

func (a *autocomplete) complete(seq uint64, locs []domain.Location, err error) {
	if seq != a.seq {
		a.session.staleSearches++
		logf(a.session.ctx, "op=search.discard slot=%s seq=%d current=%d", a.slot.ID, seq, a.seq)
		return
	}

	n := a.session.notifier
	if err != nil {
		logf(a.session.ctx, "search slot=%s failed: %v", a.slot.ID, err)
		n.NoResults(a.slot.ID)
		return
	}

	a.slot.candidates = locs
	a.slot.searched = true
	n.CandidatesChanged(a.slot.ID, locs)
	if len(locs) == 0 {
		n.NoResults(a.slot.ID)
	}
}

func (a *autocomplete) stop() {
	a.seq++
	if a.timer != nil {
		a.timer.Stop()
	}
}
