package kernel

import (
	"fmt"

	"filterlab/internal/models"
)

// StructuringElement is a boolean neighbourhood for morphology. Only cells marked true take
// part in the min/max; there are no weights.
type StructuringElement struct {
	rx, ry int
	cells  []bool
}

// NewStructuringElement builds an element from rows of cells. Extents must be odd and at
// least one cell must be included.
func NewStructuringElement(rows [][]bool) (*StructuringElement, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, models.NewValidationError("structuring_element", "empty", "structuring element must have at least one cell")
	}

	height, width := len(rows), len(rows[0])
	if height%2 == 0 || width%2 == 0 {
		return nil, models.NewValidationError("structuring_element", fmt.Sprintf("%dx%d", width, height), "structuring element extents must be odd")
	}

	se := &StructuringElement{rx: width / 2, ry: height / 2, cells: make([]bool, 0, width*height)}
	included := 0
	for i, row := range rows {
		if len(row) != width {
			return nil, models.NewValidationError("structuring_element", fmt.Sprintf("row %d", i), "structuring element rows must have equal length")
		}
		for _, c := range row {
			if c {
				included++
			}
		}
		se.cells = append(se.cells, row...)
	}
	if included == 0 {
		return nil, models.NewValidationError("structuring_element", "all zero", "structuring element must include at least one cell")
	}

	return se, nil
}

// FromMatrix converts the editor's 0/1 grid; any non-zero cell is included.
func FromMatrix(matrix [][]int) (*StructuringElement, error) {
	rows := make([][]bool, len(matrix))
	for j, row := range matrix {
		rows[j] = make([]bool, len(row))
		for i, v := range row {
			rows[j][i] = v != 0
		}
	}
	return NewStructuringElement(rows)
}

// Cross is the 3x3 four-neighbour element without its center.
func Cross() *StructuringElement {
	return &StructuringElement{rx: 1, ry: 1, cells: []bool{
		false, true, false,
		true, false, true,
		false, true, false,
	}}
}

// Square returns an n x n element with every cell included.
func Square(n int) (*StructuringElement, error) {
	if n <= 0 || n%2 == 0 {
		return nil, models.NewValidationError("size", n, "structuring element size must be a positive odd number")
	}
	se := &StructuringElement{rx: n / 2, ry: n / 2, cells: make([]bool, n*n)}
	for i := range se.cells {
		se.cells[i] = true
	}
	return se, nil
}

func (se *StructuringElement) RadiusX() int { return se.rx }
func (se *StructuringElement) RadiusY() int { return se.ry }
func (se *StructuringElement) Width() int   { return 2*se.rx + 1 }
func (se *StructuringElement) Height() int  { return 2*se.ry + 1 }

// Contains reports whether offset (i,j) is part of the element.
func (se *StructuringElement) Contains(i, j int) bool {
	if i < -se.rx || i > se.rx || j < -se.ry || j > se.ry {
		return false
	}
	return se.cells[(j+se.ry)*se.Width()+i+se.rx]
}

// Offsets lists the included offsets in row-major order.
func (se *StructuringElement) Offsets() [][2]int {
	var offsets [][2]int
	for j := -se.ry; j <= se.ry; j++ {
		for i := -se.rx; i <= se.rx; i++ {
			if se.Contains(i, j) {
				offsets = append(offsets, [2]int{i, j})
			}
		}
	}
	return offsets
}

// Matrix returns the element as the editor's 0/1 grid.
func (se *StructuringElement) Matrix() [][]int {
	matrix := make([][]int, se.Height())
	for j := range matrix {
		matrix[j] = make([]int, se.Width())
		for i := range matrix[j] {
			if se.cells[j*se.Width()+i] {
				matrix[j][i] = 1
			}
		}
	}
	return matrix
}
