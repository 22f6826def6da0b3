package game

import (
	"fmt"
	"strings"
)

// Color identifies a player. Dead pieces carry the Dead marker instead of their owner's color.
type Color int8

const (
	Dead Color = iota - 1
	Yellow
	Pink
	Red
	Blue
	Purple
	Green
)

// None is returned where no color applies, e.g. a kill without a killer chief.
const None Color = -2

var colorNames = map[Color]string{
	Dead:   "grey",
	Yellow: "yellow",
	Pink:   "pink",
	Red:    "red",
	Blue:   "blue",
	Purple: "purple",
	Green:  "green",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "none"
}

func ParseColor(s string) (Color, error) {
	for c, name := range colorNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Kind is the piece class tag. Movement and capture rules dispatch on it.
type Kind int8

const (
	Militant Kind = iota
	Assassin
	Chief
	Diplomat
	Necromobile
	Reporter
)

var kindNames = [...]string{"militant", "assassin", "chief", "diplomat", "necromobile", "reporter"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece class %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Standard piece values used by scoring.
const (
	MilitantValue = 60
	PieceValue    = 120
	ChiefValue    = 180
)

// StandardValue is the scoring value of a piece class outside the central cell.
func StandardValue(k Kind) int {
	switch k {
	case Militant:
		return MilitantValue
	case Chief:
		return ChiefValue
	default:
		return PieceValue
	}
}

// lethal kinds kill by landing on their victim.
func (k Kind) lethal() bool {
	return k == Militant || k == Assassin || k == Chief
}
