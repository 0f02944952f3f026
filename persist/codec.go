// Package persist stores creature genotypes in a compact binary
// format. Only the heritable parts are written: node rest poses,
// muscle definitions, and the behavior script. Runtime state is
// rebuilt on load.
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rlucine/creature-evolution/creature"
)

var magic = [4]byte{'C', 'R', 'T', 'R'}

const version uint8 = 1

type wireHeader struct {
	Magic    [4]byte
	Version  uint8
	_        [3]byte
	NNodes   int32
	NMuscles int32
}

type wireNode struct {
	X, Y, Z  float64
	Friction float64
}

type wireMuscle struct {
	First, Second        int32
	Extended, Contracted float64
	Strength             float64
}

// Encode writes the creature's genotype. The creature must be valid.
func Encode(w io.Writer, c *creature.Creature) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to encode: %w", err)
	}

	hdr := wireHeader{Magic: magic, Version: version, NNodes: c.NNodes, NMuscles: c.NMuscles}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		wn := wireNode{X: n.Initial.X, Y: n.Initial.Y, Z: n.Initial.Z, Friction: n.Friction}
		if err := binary.Write(w, binary.LittleEndian, &wn); err != nil {
			return fmt.Errorf("write node %d: %w", i, err)
		}
	}
	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		wm := wireMuscle{
			First: m.First, Second: m.Second,
			Extended: m.Extended, Contracted: m.Contracted,
			Strength: m.Strength,
		}
		if err := binary.Write(w, binary.LittleEndian, &wm); err != nil {
			return fmt.Errorf("write muscle %d: %w", i, err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, &c.Behavior.Actions); err != nil {
		return fmt.Errorf("write behavior: %w", err)
	}
	return nil
}

// Decode reads a genotype and returns a creature at rest with no
// fitness memo. Anything malformed is rejected.
func Decode(r io.Reader) (*creature.Creature, error) {
	var hdr wireHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if hdr.Magic != magic {
		return nil, fmt.Errorf("bad magic %q", hdr.Magic[:])
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version %d", hdr.Version)
	}
	if hdr.NNodes < creature.MinNodes || hdr.NNodes > creature.MaxNodes {
		return nil, fmt.Errorf("node count %d out of range", hdr.NNodes)
	}
	if hdr.NMuscles < hdr.NNodes || hdr.NMuscles > creature.MaxMuscles {
		return nil, fmt.Errorf("muscle count %d out of range", hdr.NMuscles)
	}

	c := &creature.Creature{NNodes: hdr.NNodes, NMuscles: hdr.NMuscles}
	for i := int32(0); i < c.NNodes; i++ {
		var wn wireNode
		if err := binary.Read(r, binary.LittleEndian, &wn); err != nil {
			return nil, fmt.Errorf("read node %d: %w", i, err)
		}
		n := &c.Nodes[i]
		n.Initial.X, n.Initial.Y, n.Initial.Z = wn.X, wn.Y, wn.Z
		n.Friction = wn.Friction
	}
	for i := int32(0); i < c.NMuscles; i++ {
		var wm wireMuscle
		if err := binary.Read(r, binary.LittleEndian, &wm); err != nil {
			return nil, fmt.Errorf("read muscle %d: %w", i, err)
		}
		m := &c.Muscles[i]
		m.First, m.Second = wm.First, wm.Second
		m.Extended, m.Contracted = wm.Extended, wm.Contracted
		m.Strength = wm.Strength
	}
	if err := binary.Read(r, binary.LittleEndian, &c.Behavior.Actions); err != nil {
		return nil, fmt.Errorf("read behavior: %w", err)
	}

	c.Reset()
	c.InvalidateFitness()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("decoded creature invalid: %w", err)
	}
	return c, nil
}

// Save writes the creature to a file.
func Save(path string, c *creature.Creature) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save creature: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, c); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("save creature: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save creature: %w", err)
	}
	return nil
}

// Load reads a creature from a file.
func Load(path string) (*creature.Creature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load creature: %w", err)
	}
	defer f.Close()
	c, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}
