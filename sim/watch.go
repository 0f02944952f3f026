package sim

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/rlucine/creature-evolution/config"
	"github.com/rlucine/creature-evolution/creature"
	"github.com/rlucine/creature-evolution/renderer"
	"github.com/rlucine/creature-evolution/telemetry"
)

// generationBudget caps how much frame time each render frame spends
// evolving, so the window stays responsive on slow generations.
const generationBudget = 50 * time.Millisecond

// Watch runs evolution with a live window showing the current champion
// walking. The champion on screen is a copy; the population keeps
// evolving underneath it and the display swaps whenever a better
// creature appears.
func Watch(cfg *config.Config, seed int64, output *telemetry.OutputManager) error {
	evolver, err := NewEvolver(cfg, seed, output)
	if err != nil {
		return err
	}
	defer evolver.Close()
	params, err := Params(cfg)
	if err != nil {
		return err
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "creature evolution")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	camera := renderer.NewOrbit()
	hud := renderer.NewHUD()

	// The display creature starts empty until the first generation
	// produces a champion.
	var shown creature.Creature
	haveShown := false
	lastBest := 0.0

	done := false
	for !rl.WindowShouldClose() {
		// Evolve between frames, bounded so rendering never starves.
		deadline := time.Now().Add(generationBudget)
		for !done && time.Now().Before(deadline) {
			if err := evolver.Step(); err != nil {
				return err
			}
			done = evolver.Done()
		}

		if best := evolver.BestDistance(); !haveShown || best > lastBest {
			shown = *evolver.Best()
			settle(&shown, params)
			camera.Target = renderer.FocusPoint(&shown)
			haveShown = true
			lastBest = best
		}

		dt := float64(rl.GetFrameTime())
		camera.HandleInput()
		if haveShown && !hud.Paused && dt > 0 {
			shown.Animate(params, dt*float64(hud.Speed))
		}
		if haveShown {
			camera.Follow(renderer.FocusPoint(&shown), dt)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.BeginMode3D(camera.Camera())
		renderer.DrawGround()
		if haveShown {
			renderer.DrawCreature(&shown, params)
		}
		rl.EndMode3D()

		if haveShown && hud.Draw(&shown, params) {
			settle(&shown, params)
		}
		progress := fmt.Sprintf("generation %d   distance %.3f", evolver.Generations(), lastBest)
		if done {
			progress += "   (finished)"
		}
		rl.DrawText(progress, 10, int32(cfg.Screen.Height)-24, 14, rl.Gray)

		rl.EndDrawing()
	}

	slog.Info("watch window closed",
		"generations", evolver.Generations(),
		"distance", evolver.BestDistance(),
		"simulations", evolver.Simulations(),
	)
	return nil
}
