package creature

import "math"

// clockEps absorbs floating-point drift when locating the current
// behavior slot; it is far below one slot duration and far above the
// drift accumulated over any plausible playback.
const clockEps = 1e-9

// Animate advances the behavior program and the physics together by dt.
// Slot boundaries are walked exactly: crossing one toggles the
// contraction phase of the muscle named by the completed slot (NoAction
// slots sustain the current state), and the slot index wraps modulo the
// program length. Because the walk is driven by the creature's clock,
// many short calls produce the same toggles at the same times as one
// long call covering the same total duration.
//
// Once the energy budget is spent the creature goes limp: every muscle
// relaxes and no further toggling happens, but physics continues.
func (c *Creature) Animate(p *Params, dt float64) {
	if c.Exhausted(p) {
		for i := int32(0); i < c.NMuscles; i++ {
			c.Muscles[i].Contracting = false
		}
		c.Update(p, dt)
		c.Clock += dt
		return
	}

	actionTime := p.ActionTime()
	for dt > 0 {
		slot := math.Floor(c.Clock/actionTime + clockEps)
		boundary := (slot + 1) * actionTime
		remain := boundary - c.Clock

		if remain > dt {
			// The call ends inside the current slot.
			c.Update(p, dt)
			c.Clock += dt
			return
		}

		if remain > 0 {
			c.Update(p, remain)
		}
		c.Clock = boundary
		dt -= remain

		action := c.Behavior.Actions[int(slot)%MaxActions]
		// Slots can reference muscles lost to later mutations; those
		// hold state like NoAction.
		if action != NoAction && action < c.NMuscles {
			m := &c.Muscles[action]
			m.Contracting = !m.Contracting
		}

		// The budget can run out mid-call; the remaining time plays out
		// limp.
		if c.Exhausted(p) {
			c.Animate(p, dt)
			return
		}
	}
}
