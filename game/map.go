package game

import "fmt"

// Cell is an axial coordinate. The square variant reuses the same addressing.
type Cell struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Origin is the central cell.
var Origin = Cell{}

func (c Cell) Add(d Cell) Cell {
	return Cell{Q: c.Q + d.Q, R: c.R + d.R}
}

func (c Cell) Scale(k int) Cell {
	return Cell{Q: c.Q * k, R: c.R * k}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.R)
}

var (
	hexAdjacent    = []Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, -1}, {-1, 1}}
	hexDiagonal    = []Cell{{2, -1}, {1, -2}, {-1, -1}, {-2, 1}, {-1, 2}, {1, 1}}
	squareAdjacent = []Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	squareDiagonal = []Cell{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}
)

type flank struct {
	a, b Cell
}

// Map is the static board topology derived from the rules.
type Map struct {
	size     int
	square   bool
	adjacent []Cell
	diagonal []Cell
	all      []Cell
	flanks   map[Cell]flank
	cells    []Cell
}

// NewMap builds the board for the given rules.
func NewMap(r Rules) *Map {
	m := &Map{
		size:   r.Size,
		square: r.Square,
		flanks: make(map[Cell]flank),
	}
	switch {
	case r.Square:
		m.adjacent, m.diagonal = squareAdjacent, squareDiagonal
	case r.Players == 6:
		m.adjacent, m.diagonal = hexAdjacent, hexDiagonal
	default:
		m.adjacent = hexAdjacent
	}
	m.all = append(append([]Cell{}, m.adjacent...), m.diagonal...)

	// A diagonal is the sum of two non-opposite adjacent vectors
	for _, d := range m.diagonal {
		for i, v1 := range m.adjacent {
			for _, v2 := range m.adjacent[i+1:] {
				if v1.Add(v2) == d {
					m.flanks[d] = flank{v1, v2}
				}
			}
		}
	}

	for q := -m.size + 1; q < m.size; q++ {
		for r := -m.size + 1; r < m.size; r++ {
			if c := (Cell{q, r}); m.Contains(c) {
				m.cells = append(m.cells, c)
			}
		}
	}
	return m
}

// Contains reports whether c is on the board.
func (m *Map) Contains(c Cell) bool {
	if abs(c.Q) >= m.size || abs(c.R) >= m.size {
		return false
	}
	return m.square || abs(c.Q+c.R) < m.size
}

// Cells lists every board cell in a stable order.
func (m *Map) Cells() []Cell { return m.cells }

func (m *Map) Adjacent() []Cell { return m.adjacent }

func (m *Map) Diagonal() []Cell { return m.diagonal }

// Directions lists adjacent directions followed by diagonal ones.
func (m *Map) Directions() []Cell { return m.all }

func (m *Map) IsDiagonal(d Cell) bool {
	_, ok := m.flanks[d]
	return ok
}

// Flanks returns the two adjacent vectors composing a diagonal vector.
func (m *Map) Flanks(d Cell) (Cell, Cell, bool) {
	f, ok := m.flanks[d]
	return f.a, f.b, ok
}

// index maps an in-bounds cell to a dense slot for occupancy grids.
func (m *Map) index(c Cell) int {
	width := 2*m.size - 1
	return (c.Q+m.size-1)*width + c.R + m.size - 1
}

func (m *Map) slots() int {
	width := 2*m.size - 1
	return width * width
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
