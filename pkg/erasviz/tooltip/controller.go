package tooltip

import (
	"sync"

	"github.com/himanishpuri/erasviz/pkg/models"
)

// Snapshot is the tooltip as a renderer should draw it. Content is nil while
// hidden.
type Snapshot struct {
	Visible bool     `json:"visible"`
	Content *Content `json:"content,omitempty"`
	Left    float64  `json:"left"`
	Top     float64  `json:"top"`
}

// Controller is the Hidden/Shown state machine for one view. Pointer
// handlers may call it concurrently.
type Controller struct {
	mu       sync.Mutex
	shown    bool
	content  Content
	px, py   float64
	vw, vh   float64
	snapshot Snapshot
}

func NewController(viewportWidth, viewportHeight float64) *Controller {
	return &Controller{vw: viewportWidth, vh: viewportHeight}
}

// Enter shows the tooltip for t at the pointer.
func (c *Controller) Enter(t models.Track, x, y float64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = true
	c.content = ContentFor(t)
	c.px, c.py = x, y
	return c.placeLocked()
}

// Move follows the pointer. It is a no-op while hidden.
func (c *Controller) Move(x, y float64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.shown {
		return c.snapshot
	}
	c.px, c.py = x, y
	return c.placeLocked()
}

// Leave hides the tooltip and forgets the hovered track.
func (c *Controller) Leave() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = false
	c.content = Content{}
	c.snapshot = Snapshot{}
	return c.snapshot
}

// Resize changes the surface and re-places a visible tooltip.
func (c *Controller) Resize(viewportWidth, viewportHeight float64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vw, c.vh = viewportWidth, viewportHeight
	if !c.shown {
		return c.snapshot
	}
	return c.placeLocked()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) placeLocked() Snapshot {
	w, h := c.content.Size()
	left, top := Position(c.px, c.py, w, h, c.vw, c.vh)
	content := c.content
	c.snapshot = Snapshot{Visible: true, Content: &content, Left: left, Top: top}
	return c.snapshot
}
