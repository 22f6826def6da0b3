package game

type start struct {
	q, r  int
	color Color
	kind  Kind
}

func (s start) state() PieceState {
	return PieceState{Cell: Cell{s.q, s.r}, Color: s.color, Kind: s.kind, Alive: true}
}

var sixPlayerStart = []start{
	{-5, -1, Purple, Assassin}, {-4, -2, Purple, Militant}, {-6, 0, Purple, Chief},
	{-4, -1, Purple, Militant}, {-5, 0, Purple, Diplomat}, {-4, 0, Purple, Necromobile},
	{-5, 1, Purple, Militant}, {-6, 1, Purple, Reporter}, {-6, 2, Purple, Militant},

	{0, -6, Blue, Chief}, {1, -6, Blue, Reporter}, {2, -6, Blue, Militant},
	{0, -5, Blue, Diplomat}, {-1, -4, Blue, Militant}, {-2, -4, Blue, Militant},
	{0, -4, Blue, Necromobile}, {1, -5, Blue, Militant}, {-1, -5, Blue, Assassin},

	{6, -4, Red, Militant}, {6, -5, Red, Assassin}, {6, -6, Red, Chief},
	{5, -6, Red, Reporter}, {4, -6, Red, Militant}, {5, -5, Red, Diplomat},
	{4, -4, Red, Necromobile}, {4, -5, Red, Militant}, {5, -4, Red, Militant},

	{6, -2, Pink, Militant}, {5, -1, Pink, Militant}, {6, -1, Pink, Assassin},
	{4, 2, Pink, Militant}, {5, 0, Pink, Diplomat}, {4, 0, Pink, Necromobile},
	{6, 0, Pink, Chief}, {5, 1, Pink, Reporter}, {4, 1, Pink, Militant},

	{0, 5, Yellow, Diplomat}, {-1, 5, Yellow, Militant}, {-2, 6, Yellow, Militant},
	{-1, 6, Yellow, Assassin}, {1, 5, Yellow, Reporter}, {0, 6, Yellow, Chief},
	{0, 4, Yellow, Necromobile}, {2, 4, Yellow, Militant}, {1, 4, Yellow, Militant},

	{-5, 6, Green, Assassin}, {-4, 6, Green, Militant}, {-6, 6, Green, Chief},
	{-6, 5, Green, Reporter}, {-6, 4, Green, Militant}, {-5, 5, Green, Diplomat},
	{-4, 5, Green, Militant}, {-5, 4, Green, Militant}, {-4, 4, Green, Necromobile},
}

var threePlayerStart = []start{
	{-3, -1, Green, Assassin}, {-2, -2, Green, Militant}, {-4, 0, Green, Chief},
	{-2, -1, Green, Militant}, {-3, 0, Green, Diplomat}, {-2, 0, Green, Necromobile},
	{-3, 1, Green, Militant}, {-4, 1, Green, Reporter}, {-4, 2, Green, Militant},

	{4, -2, Red, Militant}, {4, -3, Red, Assassin}, {4, -4, Red, Chief},
	{3, -4, Red, Reporter}, {2, -4, Red, Militant}, {3, -3, Red, Diplomat},
	{2, -2, Red, Necromobile}, {2, -3, Red, Militant}, {3, -2, Red, Militant},

	{0, 3, Yellow, Diplomat}, {-1, 3, Yellow, Militant}, {-2, 4, Yellow, Militant},
	{-1, 4, Yellow, Assassin}, {1, 3, Yellow, Reporter}, {0, 4, Yellow, Chief},
	{0, 2, Yellow, Necromobile}, {2, 2, Yellow, Militant}, {1, 2, Yellow, Militant},
}

var fourPlayerStart = []start{
	{-3, 4, Yellow, Assassin}, {-2, 4, Yellow, Militant}, {-4, 4, Yellow, Chief},
	{-4, 3, Yellow, Reporter}, {-4, 2, Yellow, Militant}, {-3, 3, Yellow, Diplomat},
	{-2, 3, Yellow, Militant}, {-3, 2, Yellow, Militant}, {-2, 2, Yellow, Necromobile},

	{4, -2, Blue, Militant}, {4, -3, Blue, Assassin}, {4, -4, Blue, Chief},
	{3, -4, Blue, Reporter}, {2, -4, Blue, Militant}, {3, -3, Blue, Diplomat},
	{2, -2, Blue, Necromobile}, {2, -3, Blue, Militant}, {3, -2, Blue, Militant},

	{4, 2, Green, Militant}, {4, 3, Green, Assassin}, {4, 4, Green, Chief},
	{3, 4, Green, Reporter}, {2, 4, Green, Militant}, {3, 3, Green, Diplomat},
	{2, 2, Green, Necromobile}, {2, 3, Green, Militant}, {3, 2, Green, Militant},

	{-4, -2, Red, Militant}, {-4, -3, Red, Assassin}, {-4, -4, Red, Chief},
	{-3, -4, Red, Reporter}, {-2, -4, Red, Militant}, {-3, -3, Red, Diplomat},
	{-2, -2, Red, Necromobile}, {-2, -3, Red, Militant}, {-3, -2, Red, Militant},
}

// StandardSetup returns the starting pieces for the rules' player count, grouped by color in seating order.
func StandardSetup(r Rules) []PieceState {
	var starts []start
	switch r.Players {
	case 3:
		starts = threePlayerStart
	case 4:
		starts = fourPlayerStart
	case 6:
		starts = sixPlayerStart
	}
	var setup []PieceState
	for _, color := range r.Colors() {
		for _, s := range starts {
			if s.color == color {
				setup = append(setup, s.state())
			}
		}
	}
	return setup
}
