package mines

import (
	"fmt"
	"strings"
)

const (
	// MinSide is the smallest allowed width or height.
	MinSide = 5
	// SafeZoneSize is the number of cells kept clear around the first click.
	SafeZoneSize = 9
)

type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Validate() error {
	switch {
	case p.Width < MinSide:
		return fmt.Errorf("%w: width must be at least %d (got %d)",
			ErrInvalidParams, MinSide, p.Width)
	case p.Height < MinSide:
		return fmt.Errorf("%w: height must be at least %d (got %d)",
			ErrInvalidParams, MinSide, p.Height)
	case p.MineCount < 0:
		return fmt.Errorf("%w: mine count cannot be negative (got %d)",
			ErrInvalidParams, p.MineCount)
	case p.MineCount > p.Width*p.Height-SafeZoneSize:
		return fmt.Errorf(
			"%w: %dx%d minefield is not large enough to fit %d mines",
			ErrInvalidParams, p.Width, p.Height, p.MineCount,
		)
	}
	return nil
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}

type Preset struct {
	Name    string
	Aliases []string
	GameParams
}

var Presets = []Preset{
	{
		Name:       "super-easy",
		Aliases:    []string{"super_easy"},
		GameParams: GameParams{Width: 20, Height: 10, MineCount: 10},
	},
	{
		Name:       "easy",
		GameParams: GameParams{Width: 9, Height: 9, MineCount: 10},
	},
	{
		Name:       "intermediate",
		Aliases:    []string{"medium"},
		GameParams: GameParams{Width: 16, Height: 16, MineCount: 40},
	},
	{
		Name:       "hard",
		GameParams: GameParams{Width: 30, Height: 16, MineCount: 99},
	},
}

// LookupPreset finds a difficulty by name or alias, ignoring case.
func LookupPreset(name string) (GameParams, error) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p.GameParams, nil
		}
		for _, alias := range p.Aliases {
			if strings.EqualFold(alias, name) {
				return p.GameParams, nil
			}
		}
	}
	return GameParams{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}
