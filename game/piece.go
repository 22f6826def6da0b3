package game

import "math/bits"

// Piece is an element of the game's piece arena. Relations to other pieces are
// bitmasks over arena indices so copying a game is a flat copy.
type Piece struct {
	Cell    Cell
	Color   Color
	Kind    Kind
	Alive   bool
	Central bool // chief garrisoning the origin
	Value   int

	Threatens    uint64
	Protects     uint64
	ThreatenedBy uint64
	ProtectedBy  uint64
	ThreatScore  float64
}

// MaxPieces is the arena capacity imposed by the relation bitmasks.
const MaxPieces = 64

// PieceState is the primitive description of a piece used by setups and snapshots.
type PieceState struct {
	Cell  Cell  `json:"cell"`
	Color Color `json:"color"`
	Kind  Kind  `json:"kind"`
	Alive bool  `json:"alive"`
}

func newPiece(s PieceState) Piece {
	p := Piece{
		Cell:  s.Cell,
		Color: s.Color,
		Kind:  s.Kind,
		Alive: s.Alive,
		Value: StandardValue(s.Kind),
	}
	if !p.Alive {
		p.Color = Dead
	}
	if p.Alive && p.Kind == Chief && p.Cell == Origin {
		p.Central = true
		p.Value = 2 * ChiefValue
	}
	return p
}

func (p Piece) State() PieceState {
	return PieceState{Cell: p.Cell, Color: p.Color, Kind: p.Kind, Alive: p.Alive}
}

func (p *Piece) die() {
	p.Alive = false
	p.Color = Dead
	p.Central = false
	p.Value = StandardValue(p.Kind)
	p.Threatens, p.Protects, p.ThreatenedBy, p.ProtectedBy = 0, 0, 0, 0
	p.ThreatScore = 0
}

func (p *Piece) enterCenter() {
	p.Central = true
	p.Value = 2 * ChiefValue
}

func (p *Piece) leaveCenter() {
	p.Central = false
	p.Value = ChiefValue
}

// Threatened reports whether an enemy can kill the piece this turn.
func (p Piece) Threatened() bool { return p.ThreatenedBy != 0 }

// Protected reports whether an ally covers the piece's cell.
func (p Piece) Protected() bool { return p.ProtectedBy != 0 }

func (p Piece) threatCount() int { return bits.OnesCount64(p.ThreatenedBy) }

func bit(i int) uint64 { return 1 << uint(i) }
