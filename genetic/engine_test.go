package genetic

import (
	"math"
	"math/rand"
	"testing"
)

// number is the simplest possible entity: the engine should drive its
// value toward zero when fitness is the absolute value.
type number struct {
	value float64
}

func numberOps(rng *rand.Rand) Ops[number] {
	return Ops[number]{
		Randomize: func(n *number) { n.value = rng.Float64()*200 - 100 },
		Breed: func(mother, father, son, daughter *number) {
			mid := (mother.value + father.value) / 2
			son.value = mid + rng.NormFloat64()
			daughter.value = mid - rng.NormFloat64()
		},
		Fitness: func(n *number) float64 { return math.Abs(n.value) },
	}
}

func TestNewValidation(t *testing.T) {
	ops := numberOps(rand.New(rand.NewSource(1)))

	if _, err := New(Config{PopulationSize: 3}, ops); err == nil {
		t.Error("accepted population below minimum")
	}
	if _, err := New(Config{PopulationSize: 8}, Ops[number]{Fitness: ops.Fitness}); err == nil {
		t.Error("accepted missing operators")
	}
	e, err := New(Config{PopulationSize: 8, Workers: 1}, ops)
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	defer e.Close()
	if e.Size() != 8 {
		t.Errorf("Size() = %d, want 8", e.Size())
	}
}

func TestBestFitnessNeverWorsens(t *testing.T) {
	e, err := New(Config{PopulationSize: 20, Workers: 1}, numberOps(rand.New(rand.NewSource(2))))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	prev := math.Inf(1)
	for g := 0; g < 50; g++ {
		e.Generation()
		if best := e.BestFitness(); best > prev {
			t.Fatalf("generation %d: best worsened from %v to %v", g, prev, best)
		} else {
			prev = best
		}
	}
}

func TestBestSurvivesGeneration(t *testing.T) {
	e, err := New(Config{PopulationSize: 12, Workers: 1}, numberOps(rand.New(rand.NewSource(3))))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	for g := 0; g < 30; g++ {
		e.Generation()
		bestValue := e.Best().value
		bestScore := e.BestFitness()

		// The ranked best must actually be present and carry the
		// reported score.
		if got := math.Abs(bestValue); got != bestScore {
			t.Fatalf("generation %d: best entity scores %v, engine reports %v", g, got, bestScore)
		}
		found := false
		for i := 0; i < e.Size(); i++ {
			if math.Abs(e.Entity(i).value) <= bestScore {
				found = true
			}
		}
		if !found {
			t.Fatalf("generation %d: no entity at the reported best score", g)
		}
	}
}

func TestGenerationReplacesWorst(t *testing.T) {
	next := 0.0
	ops := Ops[number]{
		// Deterministic spread so ranking is unambiguous.
		Randomize: func(n *number) { next += 10; n.value = next },
		Breed: func(mother, father, son, daughter *number) {
			son.value = mother.value
			daughter.value = father.value
		},
		Fitness: func(n *number) float64 { return n.value },
	}

	e, err := New(Config{PopulationSize: 8, Workers: 1}, ops)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	// Population is 10..80; parents are 10,20,30,40 and their children
	// (copies) overwrite 80,70,60,50. No leftover slots at size 8.
	e.Generation()

	counts := map[float64]int{}
	for i := 0; i < e.Size(); i++ {
		counts[e.Entity(i).value]++
	}
	for _, v := range []float64{10, 20, 30, 40} {
		if counts[v] != 2 {
			t.Errorf("value %v appears %d times, want 2", v, counts[v])
		}
	}
	for _, v := range []float64{50, 60, 70, 80} {
		if counts[v] != 0 {
			t.Errorf("worst value %v survived", v)
		}
	}
}

func TestLeftoversRandomized(t *testing.T) {
	next := 0.0
	randomized := 0
	ops := Ops[number]{
		Randomize: func(n *number) { next += 10; n.value = next; randomized++ },
		Breed: func(mother, father, son, daughter *number) {
			son.value = mother.value
			daughter.value = father.value
		},
		Fitness: func(n *number) float64 { return n.value },
	}

	// Size 10: two breeding pairs give four children, so two mid slots
	// get randomized each generation.
	e, err := New(Config{PopulationSize: 10, Workers: 1}, ops)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	randomized = 0
	e.Generation()
	if randomized != 2 {
		t.Errorf("randomized %d leftover slots, want 2", randomized)
	}

	// The best entity (10) must never be the one randomized.
	found := false
	for i := 0; i < e.Size(); i++ {
		if e.Entity(i).value == 10 {
			found = true
		}
	}
	if !found {
		t.Error("top-ranked entity was overwritten")
	}
}

func TestSolve(t *testing.T) {
	e, err := New(Config{PopulationSize: 40, Workers: 1}, numberOps(rand.New(rand.NewSource(5))))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	gens, solved := e.Solve(0.5, 1000)
	if !solved {
		t.Fatalf("target not reached in %d generations", gens)
	}
	if e.BestFitness() > 0.5 {
		t.Errorf("solved but best fitness is %v", e.BestFitness())
	}
	if gens != e.Generations() {
		t.Errorf("Solve reports %d generations, engine counted %d", gens, e.Generations())
	}
}

func TestSolveTimeout(t *testing.T) {
	e, err := New(Config{PopulationSize: 8, Workers: 1}, numberOps(rand.New(rand.NewSource(6))))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	gens, solved := e.Solve(-1, 5)
	if solved {
		t.Error("impossible target reported solved")
	}
	if gens != 5 {
		t.Errorf("ran %d generations, want 5", gens)
	}
}
