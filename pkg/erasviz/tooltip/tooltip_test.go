package tooltip

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/himanishpuri/erasviz/pkg/models"
)

func TestPositionDefaultPlacement(t *testing.T) {
	left, top := Position(100, 200, 80, 40, 800, 600)
	if left != 112 {
		t.Errorf("Expected left 112, got %v", left)
	}
	if top != 148 {
		t.Errorf("Expected top 148 (above pointer), got %v", top)
	}
}

func TestPositionReflects(t *testing.T) {
	// right edge: flip to the left of the pointer
	left, _ := Position(780, 300, 80, 40, 800, 600)
	if left != 780-12-80 {
		t.Errorf("Expected reflected left %v, got %v", 780-12-80, left)
	}
	// top edge: flip below the pointer
	_, top := Position(100, 10, 80, 40, 800, 600)
	if top != 22 {
		t.Errorf("Expected reflected top 22, got %v", top)
	}
}

func TestPositionStaysInBounds(t *testing.T) {
	const vw, vh, tw, th = 640.0, 480.0, 150.0, 90.0
	corners := [][2]float64{{0, 0}, {vw, 0}, {0, vh}, {vw, vh}, {-50, -50}, {vw + 50, vh + 50}}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		corners = append(corners, [2]float64{r.Float64()*(vw+200) - 100, r.Float64()*(vh+200) - 100})
	}
	for _, p := range corners {
		left, top := Position(p[0], p[1], tw, th, vw, vh)
		if left < 0 || left > vw-tw || top < 0 || top > vh-th {
			t.Fatalf("Pointer %v: tooltip at (%v, %v) leaves the surface", p, left, top)
		}
	}
}

func TestPositionOversizedTooltip(t *testing.T) {
	left, top := Position(50, 50, 900, 700, 800, 600)
	if left != 0 || top != 0 {
		t.Errorf("Expected oversized tooltip pinned at origin, got (%v, %v)", left, top)
	}
}

func TestContentFor(t *testing.T) {
	track := models.Track{
		ID: 4, Title: "Cruel Summer", Album: "Lover", Danceability: 0.552,
		PeakRank: 3, AverageRank: 12.4, WeeksOnChart: 1042, TrackNumber: 2,
	}
	c := ContentFor(track)
	body := strings.Join(c.Lines, "\n")

	for _, want := range []string{"Danceability: 0.552 (55%)", "Era: Lover", "Peak #3", "Average rank: 12.4", "1,042 weeks on chart", "2nd track on the album"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in tooltip, got %q", want, body)
		}
	}
	if c.TrackID != 4 || c.Title != "Cruel Summer" {
		t.Errorf("Unexpected header %+v", c)
	}
}

func TestContentForUnrankedTrack(t *testing.T) {
	c := ContentFor(models.Track{Title: "the 1", Album: "folklore (deluxe version)", Danceability: 0.78, WeeksOnChart: -1})
	body := strings.Join(c.Lines, "\n")
	if strings.Contains(body, "Peak") || strings.Contains(body, "weeks") {
		t.Errorf("Expected no rank or weeks lines, got %q", body)
	}
	if c.Era != "folklore" {
		t.Errorf("Expected canonical era folklore, got %q", c.Era)
	}
}

func TestControllerLifecycle(t *testing.T) {
	c := NewController(800, 600)
	track := models.Track{ID: 1, Title: "Style", Album: "1989", Danceability: 0.588, WeeksOnChart: -1}

	if snap := c.Move(10, 10); snap.Visible {
		t.Fatal("Expected move before enter to stay hidden")
	}

	snap := c.Enter(track, 100, 300)
	if !snap.Visible || snap.Content == nil || snap.Content.Title != "Style" {
		t.Fatalf("Expected visible tooltip for Style, got %+v", snap)
	}

	moved := c.Move(200, 300)
	if moved.Left <= snap.Left {
		t.Errorf("Expected tooltip to follow pointer right, got %v then %v", snap.Left, moved.Left)
	}

	if snap := c.Leave(); snap.Visible || snap.Content != nil {
		t.Errorf("Expected hidden tooltip after leave, got %+v", snap)
	}
	if snap := c.Move(300, 300); snap.Visible {
		t.Error("Expected no sticky tooltip after leave")
	}
}

func TestControllerResizeKeepsInBounds(t *testing.T) {
	c := NewController(1200, 800)
	snap := c.Enter(models.Track{Title: "Karma", Album: "Midnights", Danceability: 0.642, WeeksOnChart: -1}, 1000, 400)
	w, h := snap.Content.Size()

	snap = c.Resize(400, 300)
	if snap.Left < 0 || snap.Left > 400-w || snap.Top < 0 || snap.Top > 300-h {
		t.Errorf("Expected tooltip inside resized surface, got (%v, %v) for %vx%v", snap.Left, snap.Top, w, h)
	}
}
