package interact

import (
	"sync"

	"github.com/ritzau/mindmap/pkg/render"
	"github.com/ritzau/mindmap/pkg/scene"
)

// Controller serialises events for one interaction session
type Controller struct {
	mu    sync.Mutex
	state State
	scene *scene.Scene
}

// NewController binds a fresh state to s
func NewController(s *scene.Scene, width, height float64) *Controller {
	return &Controller{state: NewState(width, height), scene: s}
}

// Handle applies ev and returns the result together with the frame to draw
// when a redraw was requested
func (c *Controller) Handle(ev Event) (Result, []render.Command) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, res := Apply(c.state, ev, c.scene)
	c.state = next

	if !res.Redraw {
		return res, nil
	}
	return res, render.Render(c.scene, c.state.View())
}

// Frame renders the current state
func (c *Controller) Frame() []render.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.Render(c.scene, c.state.View())
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rebind switches to a reloaded scene, keeping the camera. The highlight is
// re-resolved because the contributor may be gone, and the tooltip is
// dropped since it may describe a removed node.
func (c *Controller) Rebind(s *scene.Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scene = s
	c.state.Tooltip = nil
	c.state.Highlight = activeHighlight(c.state, s)
}
