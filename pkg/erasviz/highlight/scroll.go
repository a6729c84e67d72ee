package highlight

import (
	"math"
	"sync"
)

// ScrollState is derived from the current scroll offset alone.
type ScrollState struct {
	SectionIndex int     `json:"section_index"`
	Progress     float64 `json:"progress"`
}

// Derive maps "pixels scrolled past the top of the pinned region" to a
// section and the progress through it. History plays no part.
func Derive(scrolledPast, viewportHeight float64, sectionCount int) ScrollState {
	if sectionCount < 1 {
		sectionCount = 1
	}
	if viewportHeight <= 0 || math.IsNaN(scrolledPast) {
		return ScrollState{}
	}
	ratio := scrolledPast / viewportHeight
	// clamp before converting; huge or infinite ratios overflow int
	idx := int(clamp(math.Floor(ratio), 0, float64(sectionCount-1)))
	return ScrollState{
		SectionIndex: idx,
		Progress:     clamp(ratio-float64(idx), 0, 1),
	}
}

// PageProgress is the percentage (0-100) of the document scrolled.
func PageProgress(offset, documentHeight, viewportHeight float64) float64 {
	scrollable := documentHeight - viewportHeight
	if scrollable <= 0 {
		return 0
	}
	return clamp(offset/scrollable*100, 0, 100)
}

// Sync is a scoped scroll subscription for one pinned storyboard. Each
// notification re-derives the section; a section change swaps the
// highlight set in one step. Close releases it.
type Sync struct {
	mu             sync.Mutex
	state          *State
	board          *Storyboard
	viewportHeight float64
	lastOffset     float64
	lastIndex      int
	closed         bool
}

// NewSync attaches a storyboard to state. The first section's highlight is
// applied immediately, since a pinned region starts at section 0.
func NewSync(state *State, board *Storyboard, viewportHeight float64) *Sync {
	s := &Sync{
		state:          state,
		board:          board,
		viewportHeight: viewportHeight,
	}
	if board.Len() > 0 {
		state.SetHighlight(board.Sections[0].Set())
	}
	state.SetScroll(ScrollState{})
	return s
}

// Notify handles a scroll notification. Repeated offsets inside the same
// section only update progress.
func (s *Sync) Notify(scrolledPast float64) ScrollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Derive(s.lastOffset, s.viewportHeight, s.board.Len())
	}
	s.lastOffset = scrolledPast
	return s.applyLocked()
}

// Resize changes the viewport height and re-derives from the last offset.
func (s *Sync) Resize(viewportHeight float64) ScrollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportHeight = viewportHeight
	if s.closed {
		return Derive(s.lastOffset, s.viewportHeight, s.board.Len())
	}
	return s.applyLocked()
}

func (s *Sync) applyLocked() ScrollState {
	ss := Derive(s.lastOffset, s.viewportHeight, s.board.Len())
	s.state.SetScroll(ss)
	if ss.SectionIndex != s.lastIndex && s.board.Len() > 0 {
		s.lastIndex = ss.SectionIndex
		s.state.SetHighlight(s.board.Sections[ss.SectionIndex].Set())
	}
	return ss
}

// Section returns the storyboard section currently in view.
func (s *Sync) Section() (Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board.Len() == 0 {
		return Section{}, false
	}
	return s.board.Sections[s.lastIndex], true
}

// ContainerHeight is the height of the pinned container: one viewport per
// section plus one to scroll the last section out.
func (s *Sync) ContainerHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.board.Len()+1) * s.viewportHeight
}

// PageProgress is how far through the container the last offset is, as a
// percentage.
func (s *Sync) PageProgress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PageProgress(s.lastOffset, float64(s.board.Len()+1)*s.viewportHeight, s.viewportHeight)
}

// Close detaches the subscription. Further notifications change nothing.
func (s *Sync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Sync) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
