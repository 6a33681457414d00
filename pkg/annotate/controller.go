package annotate

import (
	"context"

	"github.com/DrSkyle/lineblame/pkg/editor"
)

// Controller owns the "Toggle Git Blame" command.
type Controller struct {
	toggle     *Toggle
	reconciler *Reconciler
}

func NewController(t *Toggle, r *Reconciler) *Controller {
	return &Controller{toggle: t, reconciler: r}
}

// Enabled reports the current toggle state.
func (c *Controller) Enabled() bool {
	return c.toggle.On()
}

// ShowStatus writes the current toggle wording to the status indicator.
func (c *Controller) ShowStatus(h editor.Host) {
	ShowToggleState(h.Status(), c.toggle.On())
}

// Toggle flips the state. Turning on annotates the active editor right
// away; turning off clears it.
func (c *Controller) Toggle(ctx context.Context, h editor.Host) (bool, Result) {
	on := c.toggle.Flip()
	ShowToggleState(h.Status(), on)

	if !on {
		c.reconciler.Clear(h)
		return false, Result{}
	}
	return true, c.reconciler.Reconcile(ctx, h)
}
