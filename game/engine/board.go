package engine

// neighborOffsets lists the 8 positional offsets around a cell as {dx, dy}
var neighborOffsets = [MaxNeighbors][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Board is the immutable geometry of a game
type Board struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// NewBoard creates the geometry for a rows x cols grid
func NewBoard(rows, cols int) Board {
	return Board{Rows: rows, Cols: cols}
}

// CellCount returns the number of cells on the board
func (b Board) CellCount() int {
	return b.Rows * b.Cols
}

// Contains reports whether id addresses a cell on this board
func (b Board) Contains(id int) bool {
	return id >= 0 && id < b.CellCount()
}

// InBounds reports whether x,y lie on the board
func (b Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Cols && y >= 0 && y < b.Rows
}

// ID converts coordinates to a cell id
func (b Board) ID(x, y int) int {
	return y*b.Cols + x
}

// Coords converts a cell id to coordinates
func (b Board) Coords(id int) (x, y int) {
	return id % b.Cols, id / b.Cols
}

// NeighborsOf returns the ids of the in-bounds cells adjacent to id
func NeighborsOf(id, rows, cols int) []int {
	x, y := id%cols, id/cols
	neighbors := make([]int, 0, MaxNeighbors)
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
			continue
		}
		neighbors = append(neighbors, ny*cols+nx)
	}
	return neighbors
}

// newCells builds the cell arena with neighbors precomputed
func (b Board) newCells() []Cell {
	cells := make([]Cell, b.CellCount())
	for id := range cells {
		x, y := b.Coords(id)
		cells[id] = Cell{
			ID:        id,
			X:         x,
			Y:         y,
			Neighbors: NeighborsOf(id, b.Rows, b.Cols),
		}
	}
	return cells
}
