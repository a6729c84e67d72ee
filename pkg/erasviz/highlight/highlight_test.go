package highlight

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSet(t *testing.T) {
	s := NewSet(5, 1, 5, 3)
	if s.Len() != 3 {
		t.Fatalf("Expected 3 unique members, got %d", s.Len())
	}
	if !s.Has(3) || s.Has(2) {
		t.Error("Unexpected membership")
	}
	if !s.Equal(NewSet(1, 3, 5)) {
		t.Error("Expected equal sets regardless of input order")
	}
	if !(Set{}).Empty() || !NewSet().Empty() {
		t.Error("Expected empty sets")
	}

	ids := s.IDs()
	ids[0] = 99
	if !s.Has(1) {
		t.Error("Expected IDs to return a copy")
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		vh       float64
		count    int
		wantIdx  int
		wantProg float64
	}{
		{"before pinned region", -250, 800, 4, 0, 0},
		{"top", 0, 800, 4, 0, 0},
		{"halfway first", 400, 800, 4, 0, 0.5},
		{"second", 800, 800, 4, 1, 0},
		{"last section", 2500, 800, 4, 3, 0.125},
		{"past the end", 10000, 800, 4, 3, 1},
		{"zero viewport", 500, 0, 4, 0, 0},
		{"no sections", 900, 800, 0, 0, 1},
		{"ratio beyond int range", 1e30, 1, 4, 3, 1},
		{"overflowing ratio", 1e300, 1e-300, 4, 3, 1},
		{"infinite offset", math.Inf(1), 600, 4, 3, 1},
		{"negative infinite offset", math.Inf(-1), 600, 4, 0, 0},
		{"far above", -1e30, 1, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.offset, tt.vh, tt.count)
			if got.SectionIndex != tt.wantIdx || math.Abs(got.Progress-tt.wantProg) > 1e-9 {
				t.Errorf("Expected (%d, %g), got (%d, %g)", tt.wantIdx, tt.wantProg, got.SectionIndex, got.Progress)
			}
		})
	}
}

func testBoard() *Storyboard {
	return &Storyboard{
		Name: "test",
		Sections: []Section{
			{Title: "intro"},
			{Title: "one", Highlight: []int{1, 2}},
			{Title: "two", Highlight: []int{3}},
		},
	}
}

func TestSectionSequenceCountsOnlyChanges(t *testing.T) {
	state := NewState()
	sync := NewSync(state, testBoard(), 100)
	defer sync.Close()

	// section indexes 0, 0, 1, 1, 2
	for _, offset := range []float64{10, 50, 120, 180, 250} {
		sync.Notify(offset)
	}

	if got := state.Transitions(); got != 2 {
		t.Errorf("Expected 2 transitions, got %d", got)
	}
	if !state.Highlight().Equal(NewSet(3)) {
		t.Errorf("Expected section two highlight, got %v", state.Highlight().IDs())
	}
}

func TestRepeatedSectionIsIdempotent(t *testing.T) {
	state := NewState()
	sync := NewSync(state, testBoard(), 100)

	sync.Notify(150)
	before := state.Transitions()
	for i := 0; i < 50; i++ {
		sync.Notify(100 + float64(i))
	}
	if state.Transitions() != before {
		t.Errorf("Expected no extra transitions, got %d -> %d", before, state.Transitions())
	}
	if state.Snapshot().Scroll.SectionIndex != 1 {
		t.Errorf("Expected section 1, got %d", state.Snapshot().Scroll.SectionIndex)
	}
}

func TestSetHighlightCompareBeforeSet(t *testing.T) {
	state := NewState()
	if !state.SetHighlight(NewSet(1, 2)) {
		t.Error("Expected first set to change state")
	}
	if state.SetHighlight(NewSet(2, 1)) {
		t.Error("Expected equal set to be a no-op")
	}
	if state.Transitions() != 1 {
		t.Errorf("Expected 1 transition, got %d", state.Transitions())
	}
}

func TestNonEmptyFirstSectionAppliedOnAttach(t *testing.T) {
	board := &Storyboard{Name: "b", Sections: []Section{{Title: "a", Highlight: []int{7}}, {Title: "b"}}}
	state := NewState()
	sync := NewSync(state, board, 500)

	if !state.Highlight().Has(7) {
		t.Error("Expected first section highlight on attach")
	}
	sync.Notify(600)
	if !state.Highlight().Empty() {
		t.Error("Expected empty highlight in second section")
	}
	if sync.ContainerHeight() != 1500 {
		t.Errorf("Expected container height 1500, got %g", sync.ContainerHeight())
	}
}

func TestResizeRederives(t *testing.T) {
	state := NewState()
	sync := NewSync(state, testBoard(), 100)
	sync.Notify(150)

	ss := sync.Resize(50)
	if ss.SectionIndex != 2 {
		t.Errorf("Expected section 2 after shrinking viewport, got %d", ss.SectionIndex)
	}
	sec, ok := sync.Section()
	if !ok || sec.Title != "two" {
		t.Errorf("Expected section two, got %+v", sec)
	}
}

func TestClosedSyncIgnoresNotifications(t *testing.T) {
	state := NewState()
	sync := NewSync(state, testBoard(), 100)
	sync.Close()

	sync.Notify(250)
	if state.Transitions() != 0 || !state.Highlight().Empty() {
		t.Errorf("Expected closed sync to leave state untouched")
	}
	if !sync.Closed() {
		t.Error("Expected Closed() to report true")
	}
}

func TestSubscriptionCoalesces(t *testing.T) {
	state := NewState()
	sub := state.Subscribe()

	state.SetHighlight(NewSet(1))
	state.SetHighlight(NewSet(2))
	state.SetScroll(ScrollState{SectionIndex: 1, Progress: 0.5})

	snap := <-sub.C
	if !snap.Highlight.Equal(NewSet(2)) || snap.Scroll.SectionIndex != 1 {
		t.Errorf("Expected newest snapshot, got %+v", snap)
	}
	select {
	case extra := <-sub.C:
		t.Errorf("Expected a single coalesced snapshot, got another: %+v", extra)
	default:
	}

	state.Unsubscribe(sub)
	if _, ok := <-sub.C; ok {
		t.Error("Expected channel closed after Unsubscribe")
	}
	if state.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", state.SubscriberCount())
	}
}

func TestStateCloseReleasesSubscribers(t *testing.T) {
	state := NewState()
	a, b := state.Subscribe(), state.Subscribe()
	state.Close()

	for _, sub := range []*Subscription{a, b} {
		if _, ok := <-sub.C; ok {
			t.Error("Expected closed subscription")
		}
	}
	if state.SetHighlight(NewSet(1)) {
		t.Error("Expected writes after Close to be ignored")
	}
	late := state.Subscribe()
	if _, ok := <-late.C; ok {
		t.Error("Expected subscription on closed state to be closed")
	}
	state.Unsubscribe(a)
}

func TestPageProgress(t *testing.T) {
	if got := PageProgress(500, 2000, 1000); got != 50 {
		t.Errorf("Expected 50, got %g", got)
	}
	if got := PageProgress(5000, 2000, 1000); got != 100 {
		t.Errorf("Expected clamp to 100, got %g", got)
	}
	if got := PageProgress(10, 500, 1000); got != 0 {
		t.Errorf("Expected 0 for short documents, got %g", got)
	}
}

func TestDefaultSetlistStoryboard(t *testing.T) {
	b := DefaultSetlistStoryboard()
	if err := b.Validate(); err != nil {
		t.Fatalf("Expected valid default storyboard: %v", err)
	}
	if b.Len() != 4 {
		t.Fatalf("Expected 4 sections, got %d", b.Len())
	}
	if !b.Sections[0].Set().Empty() {
		t.Error("Expected first section to have no emphasis")
	}
	if b.Sections[1].Set().Len() != 26 {
		t.Errorf("Expected 26 pacing ids, got %d", b.Sections[1].Set().Len())
	}
	if b.MaxID() != 42 {
		t.Errorf("Expected max id 42, got %d", b.MaxID())
	}
}

func TestBindSelectingSections(t *testing.T) {
	b := &Storyboard{Name: "albums", Sections: []Section{
		{Title: "All", Highlight: []int{}},
		{Title: "Fives", Highlight: []int{9}, Select: "track-five"},
	}}
	if !b.Selects() {
		t.Fatal("Expected storyboard to need binding")
	}

	bound, err := b.Bind(func(selector string) ([]int, error) {
		if selector != "track-five" {
			t.Errorf("Unexpected selector %q", selector)
		}
		return []int{1, 3}, nil
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if !bound.Sections[1].Set().Equal(NewSet(1, 3, 9)) {
		t.Errorf("Expected {1 3 9}, got %v", bound.Sections[1].Highlight)
	}
	if !bound.Sections[0].Set().Empty() {
		t.Error("Expected sections without a selector to stay empty")
	}
	if len(b.Sections[1].Highlight) != 1 {
		t.Errorf("Expected original storyboard untouched, got %v", b.Sections[1].Highlight)
	}

	_, err = b.Bind(func(string) ([]int, error) { return nil, errors.New("no such selector") })
	if !errors.Is(err, ErrInvalidStoryboard) {
		t.Errorf("Expected ErrInvalidStoryboard, got %v", err)
	}
	if DefaultSetlistStoryboard().Selects() {
		t.Error("Expected the setlist storyboard to be static")
	}
}

func TestLoadStoryboard(t *testing.T) {
	yamlDoc := `name: chart
chart: scatter
sections:
  - title: Everything
    highlight: []
  - title: Number ones
    description: Songs that peaked at 1
    highlight: [0, 3, 7]
`
	path := filepath.Join(t.TempDir(), "chart.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("Failed to write storyboard: %v", err)
	}

	b, err := LoadStoryboard(path)
	if err != nil {
		t.Fatalf("LoadStoryboard failed: %v", err)
	}
	if b.Chart != "scatter" || !b.Sections[1].Set().Equal(NewSet(0, 3, 7)) {
		t.Errorf("Unexpected storyboard: %+v", b)
	}

	invalid := []string{
		"name: x\nsections: []\n",
		"sections:\n  - title: a\n",
		"name: x\nsections:\n  - title: a\n    highlight: [-1]\n",
		"name: x\nsections:\n  - highlight: [1]\n",
	}
	for _, doc := range invalid {
		if _, err := ParseStoryboard([]byte(doc)); !errors.Is(err, ErrInvalidStoryboard) {
			t.Errorf("Expected ErrInvalidStoryboard for %q, got %v", doc, err)
		}
	}
	if _, err := ParseStoryboard([]byte("name: [")); err == nil {
		t.Error("Expected YAML syntax error")
	}
}
