package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/rlucine/creature-evolution/creature"
)

// Playback speed bounds for the HUD slider.
const (
	minSpeed = 0.1
	maxSpeed = 4.0
)

// HUD holds the playback controls drawn over the 3D view.
type HUD struct {
	// Speed is the playback rate, 1.0 being real time.
	Speed float32

	// Paused freezes the creature while the camera stays live.
	Paused bool
}

func NewHUD() *HUD {
	return &HUD{Speed: 1}
}

// Draw renders the control panel and applies any interaction. Keyboard
// shortcuts mirror the buttons: space pauses, R resets.
func (h *HUD) Draw(c *creature.Creature, p *creature.Params) (reset bool) {
	const (
		panelX = 10
		width  = 220
	)
	y := float32(10)

	rl.DrawText("speed", panelX, int32(y), 14, rl.Gray)
	y += 18
	h.Speed = gui.SliderBar(
		rl.Rectangle{X: panelX, Y: y, Width: width - 60, Height: 20},
		"", fmt.Sprintf("%.1fx", h.Speed),
		h.Speed, minSpeed, maxSpeed,
	)
	y += 30

	label := "Pause"
	if h.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 100, Height: 24}, label) {
		h.Paused = !h.Paused
	}
	if gui.Button(rl.Rectangle{X: panelX + 110, Y: y, Width: 100, Height: 24}, "Reset") {
		reset = true
	}
	y += 34

	if rl.IsKeyPressed(rl.KeySpace) {
		h.Paused = !h.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		reset = true
	}

	status := fmt.Sprintf("clock %.2fs   energy %.0f / %.0f", c.Clock, c.Energy, p.MaxEnergy)
	rl.DrawText(status, panelX, int32(y), 14, rl.LightGray)
	y += 20
	if c.Exhausted(p) {
		rl.DrawText("exhausted", panelX, int32(y), 14, rl.Pink)
	}

	return reset
}
