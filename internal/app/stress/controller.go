package stress

import (
	"fmt"
	"time"

	"github.com/airmon1101/kiln/internal/domain"
	"github.com/airmon1101/kiln/internal/ports"
)

// Controller owns the phase/intensity state machine. It advances the
// state on a fixed timer and publishes each new snapshot to the box.
// Phase climbs to MaxPhase and stays there; intensity keeps growing
// without bound so the harness continues raising thermal load until it
// is stopped from outside.
type Controller struct {
	box      *StateBox
	sink     ports.Sink
	obs      ports.Observability
	duration time.Duration
	maxPhase int

	state      domain.StressState
	phaseStart time.Time
}

// NewController starts the state machine at phase 1, intensity 1. The
// first escalation fires once duration has elapsed from start.
func NewController(box *StateBox, sink ports.Sink, obs ports.Observability, duration time.Duration, maxPhase int, start time.Time) *Controller {
	if maxPhase < 1 || maxPhase > ports.MaxPhase {
		maxPhase = ports.MaxPhase
	}
	c := &Controller{
		box:        box,
		sink:       sink,
		obs:        obs,
		duration:   duration,
		maxPhase:   maxPhase,
		state:      domain.StressState{Phase: 1, Intensity: 1},
		phaseStart: start,
	}
	c.box.Publish(c.state)
	return c
}

// Tick advances the state machine when a full phase duration has elapsed
// since the last escalation. Calling it more often is a no-op. Returns
// whether an escalation fired.
func (c *Controller) Tick(now time.Time) bool {
	if now.Sub(c.phaseStart) < c.duration {
		return false
	}

	next := c.state
	if next.Phase < c.maxPhase {
		next.Phase++
	}
	next.Intensity++

	c.state = next
	c.phaseStart = now
	c.box.Publish(next)

	if err := c.sink.WriteEvent(fmt.Sprintf("Escalating to phase %d with intensity %d", next.Phase, next.Intensity)); err != nil {
		c.obs.LogError("escalation_event_write_failed", err)
	}
	c.obs.IncCounter("kiln_escalations_total", 1)
	c.obs.SetGauge("kiln_phase", float64(next.Phase))
	c.obs.SetGauge("kiln_intensity", float64(next.Intensity))
	c.obs.LogInfo("escalated",
		ports.Field{Key: "phase", Value: next.Phase},
		ports.Field{Key: "intensity", Value: next.Intensity})
	return true
}

// State returns the controller's view of the current stress state.
func (c *Controller) State() domain.StressState {
	return c.state
}
