package fractal

import "fmt"

// Cell is the grid offset of a sub-cube inside its parent.
type Cell [3]int

// Stencil lists which sub-cubes of a Divisions³ partition survive one
// subdivision step. Cells are visited in table order.
type Stencil struct {
	Name      string
	Divisions int
	Cells     []Cell
}

// Menger keeps the 20 cells of a 3×3×3 grid that have fewer than two
// coordinates equal to 1.
var Menger = Stencil{
	Name:      "menger sponge",
	Divisions: 3,
	Cells: []Cell{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{0, 0, 1}, {2, 0, 1},
		{0, 0, 2}, {1, 0, 2}, {2, 0, 2},

		{0, 1, 0}, {2, 1, 0},
		{0, 1, 2}, {2, 1, 2},

		{0, 2, 0}, {1, 2, 0}, {2, 2, 0},
		{0, 2, 1}, {2, 2, 1},
		{0, 2, 2}, {1, 2, 2}, {2, 2, 2},
	},
}

// Jerusalem is a 76-cell selection of a 5×5×5 grid. The table is kept as
// published; it is not derived from a rule.
var Jerusalem = Stencil{
	Name:      "jerusalem cube",
	Divisions: 5,
	Cells: []Cell{
		// y = 0
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0},
		{0, 0, 1}, {1, 0, 1}, {3, 0, 1}, {4, 0, 1},
		{0, 0, 2}, {4, 0, 2},
		{0, 0, 3}, {1, 0, 3}, {3, 0, 3}, {4, 0, 3},
		{0, 0, 4}, {1, 0, 4}, {2, 0, 4}, {3, 0, 4}, {4, 0, 4},

		// y = 1
		{0, 1, 0}, {1, 1, 0}, {3, 1, 0}, {4, 1, 0},
		{0, 1, 1}, {1, 1, 1}, {3, 1, 1}, {4, 1, 1},
		{0, 1, 3}, {1, 1, 3}, {3, 1, 3}, {4, 1, 3},
		{0, 1, 4}, {1, 1, 4}, {3, 1, 4}, {4, 1, 4},

		// y = 2
		{0, 2, 0}, {0, 2, 4}, {4, 2, 0}, {4, 2, 4},

		// y = 3
		{0, 3, 0}, {1, 3, 0}, {3, 3, 0}, {4, 3, 0},
		{0, 3, 1}, {1, 3, 1}, {3, 3, 1}, {4, 3, 1},
		{0, 3, 3}, {1, 3, 3}, {3, 3, 3}, {4, 3, 3},
		{0, 3, 4}, {1, 3, 4}, {3, 3, 4}, {4, 3, 4},

		// y = 4
		{0, 4, 0}, {1, 4, 0}, {2, 4, 0}, {3, 4, 0}, {4, 4, 0},
		{0, 4, 1}, {1, 4, 1}, {3, 4, 1}, {4, 4, 1},
		{0, 4, 2}, {4, 4, 2},
		{0, 4, 3}, {1, 4, 3}, {3, 4, 3}, {4, 4, 3},
		{0, 4, 4}, {1, 4, 4}, {2, 4, 4}, {3, 4, 4}, {4, 4, 4},
	},
}

// Validate reports cells outside the grid and repeated cells.
func (s Stencil) Validate() error {
	if s.Divisions < 2 {
		return fmt.Errorf("%s: divisions must be at least 2, got %d", s.Name, s.Divisions)
	}
	if len(s.Cells) == 0 {
		return fmt.Errorf("%s: empty stencil", s.Name)
	}
	seen := make(map[Cell]int, len(s.Cells))
	for i, c := range s.Cells {
		for axis, v := range c {
			if v < 0 || v >= s.Divisions {
				return fmt.Errorf("%s: cell %d %v: axis %d out of range [0,%d)", s.Name, i, c, axis, s.Divisions)
			}
		}
		if j, ok := seen[c]; ok {
			return fmt.Errorf("%s: cell %d %v duplicates cell %d", s.Name, i, c, j)
		}
		seen[c] = i
	}
	return nil
}

// CubeCount is the number of cubes emitted at level. Levels below 1 emit a
// single cube.
func (s Stencil) CubeCount(level int) int {
	n := 1
	for range level - 1 {
		n *= len(s.Cells)
	}
	return n
}
