package libadg

import (
	"sort"

	"github.com/manybody/adg/adg"
	"golang.org/x/sync/errgroup"
)

// CandidateStream is a pipeline stage emitting enumerated candidates.
type CandidateStream struct {
	Outlet chan Candidate
}

// DiagramStream is a pipeline stage emitting realized diagrams.
type DiagramStream struct {
	Outlet chan *Diagram
}

// EnumerateStream emits Enumerate(cfg) in tag order.
func EnumerateStream(cfg adg.TheoryConfig) *CandidateStream {
	next := &CandidateStream{
		Outlet: make(chan Candidate, 8),
	}

	go func() {
		for _, C := range Enumerate(cfg) {
			next.Outlet <- C
		}
		next.Close()
	}()

	return next
}

// StreamCandidates emits the given candidates as-is.
func StreamCandidates(candidates []Candidate) *CandidateStream {
	next := &CandidateStream{
		Outlet: make(chan Candidate, 8),
	}

	go func() {
		for _, C := range candidates {
			next.Outlet <- C
		}
		next.Close()
	}()

	return next
}

func (stream *CandidateStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// PullAll drains this stream and returns what was emitted.
func (stream *CandidateStream) PullAll() []Candidate {
	var all []Candidate
	for C := range stream.Outlet {
		all = append(all, C)
	}
	return all
}

// Tally increments *count for each candidate passing through.
// *count is safe to read once the downstream stage has been drained.
func (stream *CandidateStream) Tally(count *int) *CandidateStream {
	next := &CandidateStream{
		Outlet: make(chan Candidate, 1),
	}

	go func() {
		for C := range stream.Outlet {
			*count++
			next.Outlet <- C
		}
		next.Close()
	}()

	return next
}

// Filter passes only candidates that are Admissible() for cfg, checking them on the given number of workers.
//
// Output order is not preserved when workers > 1.
func (stream *CandidateStream) Filter(cfg adg.TheoryConfig, workers int) *CandidateStream {
	if workers < 1 {
		workers = 1
	}
	next := &CandidateStream{
		Outlet: make(chan Candidate, workers),
	}

	var group errgroup.Group
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for C := range stream.Outlet {
				if Admissible(cfg, &C.Adj) {
					next.Outlet <- C
				}
			}
			return nil
		})
	}

	go func() {
		group.Wait()
		next.Close()
	}()

	return next
}

// Build realizes each candidate as a Diagram.
func (stream *CandidateStream) Build(cfg adg.TheoryConfig) *DiagramStream {
	next := &DiagramStream{
		Outlet: make(chan *Diagram, 1),
	}

	go func() {
		for C := range stream.Outlet {
			next.Outlet <- NewDiagram(cfg, &C)
		}
		next.Close()
	}()

	return next
}

func (stream *DiagramStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// KeepConnected passes only weakly connected diagrams.
func (stream *DiagramStream) KeepConnected() *DiagramStream {
	next := &DiagramStream{
		Outlet: make(chan *Diagram, 1),
	}

	go func() {
		for D := range stream.Outlet {
			if D.IsWeaklyConnected() {
				next.Outlet <- D
			}
		}
		next.Close()
	}()

	return next
}

// Collect drains this stream and returns its diagrams in ascending tag order.
func (stream *DiagramStream) Collect() []*Diagram {
	var all []*Diagram
	for D := range stream.Outlet {
		all = append(all, D)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Tag() < all[j].Tag()
	})
	return all
}
