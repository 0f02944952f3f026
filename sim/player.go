package sim

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/rlucine/creature-evolution/config"
	"github.com/rlucine/creature-evolution/creature"
	"github.com/rlucine/creature-evolution/persist"
	"github.com/rlucine/creature-evolution/renderer"
)

// Play loads a saved creature and runs the interactive viewer until
// the window is closed.
func Play(cfg *config.Config, path string) error {
	c, err := persist.Load(path)
	if err != nil {
		return err
	}
	params, err := Params(cfg)
	if err != nil {
		return err
	}

	slog.Info("playing creature", "path", path, "nodes", c.NNodes, "muscles", c.NMuscles)
	settle(c, params)

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "creature playback")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	camera := renderer.NewOrbit()
	camera.Target = renderer.FocusPoint(c)
	hud := renderer.NewHUD()

	for !rl.WindowShouldClose() {
		dt := float64(rl.GetFrameTime())

		camera.HandleInput()
		if !hud.Paused && dt > 0 {
			c.Animate(params, dt*float64(hud.Speed))
		}
		camera.Follow(renderer.FocusPoint(c), dt)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.BeginMode3D(camera.Camera())
		renderer.DrawGround()
		renderer.DrawCreature(c, params)
		rl.EndMode3D()

		if hud.Draw(c, params) {
			settle(c, params)
		}

		rl.EndDrawing()
	}
	return nil
}

// settle drops the creature onto the ground from its rest pose so
// playback starts from a stable stance.
func settle(c *creature.Creature, p *creature.Params) {
	c.Reset()
	if !c.Settle(p) {
		slog.Warn("creature did not come to rest before playback")
	}
}

// Describe prints a saved creature without opening a window.
func Describe(path string) error {
	c, err := persist.Load(path)
	if err != nil {
		return err
	}
	fmt.Print(c.String())
	return nil
}
