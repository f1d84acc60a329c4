package game

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Difficulty struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Width     int    `yaml:"width" json:"width"`
	Height    int    `yaml:"height" json:"height"`
	MineCount int    `yaml:"mines" json:"mines"`
}

var (
	Easy   = Difficulty{Name: "easy", Width: 9, Height: 9, MineCount: 10}
	Medium = Difficulty{Name: "medium", Width: 16, Height: 16, MineCount: 40}
	Hard   = Difficulty{Name: "hard", Width: 30, Height: 16, MineCount: 99}
)

// Presets maps difficulty names to their board configuration
type Presets map[string]Difficulty

func DefaultPresets() Presets {
	return Presets{
		Easy.Name:   Easy,
		Medium.Name: Medium,
		Hard.Name:   Hard,
	}
}

func (d Difficulty) NumCells() int {
	return d.Width * d.Height
}

// Capacity is the number of mines that fit on the board whichever cell is
// clicked first, i.e. outside the largest possible safe zone
func (d Difficulty) Capacity() int {
	return d.NumCells() - min(d.Width, 3)*min(d.Height, 3)
}

// Validate checks the board has at least one cell and that the mines fit
// around any first click
func (d Difficulty) Validate() error {
	if d.Width < 1 || d.Height < 1 {
		return errors.Wrapf(ErrInvalidDifficulty, "grid size %dx%d", d.Width, d.Height)
	}
	if d.MineCount < 0 || d.MineCount > d.Capacity() {
		return errors.Wrapf(ErrInvalidDifficulty, "%d mines on a %dx%d grid, which holds at most %d",
			d.MineCount, d.Width, d.Height, d.Capacity())
	}
	return nil
}

func (presets Presets) Get(name string) (Difficulty, error) {
	if d, ok := presets[name]; ok {
		return d, nil
	}
	return Difficulty{}, errors.Wrapf(ErrInvalidDifficulty, "unknown preset %q", name)
}

// Names returns the preset names, smallest board first
func (presets Presets) Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := presets[names[i]], presets[names[j]]
		if a.NumCells() != b.NumCells() {
			return a.NumCells() < b.NumCells()
		}
		return names[i] < names[j]
	})
	return names
}

// LoadPresets reads a YAML mapping of preset name to difficulty, on top of the defaults
func LoadPresets(in io.Reader) (Presets, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "read presets")
	}

	var loaded map[string]Difficulty
	if err := yaml.UnmarshalStrict(data, &loaded); err != nil {
		return nil, errors.Wrap(err, "parse presets")
	}

	presets := DefaultPresets()
	for name, d := range loaded {
		d.Name = name
		if err := d.Validate(); err != nil {
			return nil, errors.Wrapf(err, "preset %q", name)
		}
		presets[name] = d
	}
	return presets, nil
}
