// Package bridge converts between gocv matrices and pixel grids. OpenCV stores color as BGR or
// BGRA; grids are RGB with a separate alpha plane.
package bridge

import (
	"fmt"

	"filterlab/internal/pixel"

	"gocv.io/x/gocv"
)

// MatToGrid copies an 8-bit 1, 3 or 4 channel matrix into a new grid. Single-channel input is
// broadcast to gray; a fourth channel becomes the alpha plane.
func MatToGrid(mat gocv.Mat) (*pixel.Grid, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("matrix is empty")
	}

	rows, cols, channels := mat.Rows(), mat.Cols(), mat.Channels()
	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return nil, fmt.Errorf("unsupported matrix type: %v", mat.Type())
	}

	grid, err := pixel.New(cols, rows)
	if err != nil {
		return nil, err
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		// Non-continuous matrices (ROIs) have no flat buffer.
		clone := mat.Clone()
		defer clone.Close()
		data = clone.ToBytes()
	}
	if len(data) < rows*cols*channels {
		return nil, fmt.Errorf("matrix buffer too short: %d bytes for %dx%dx%d", len(data), cols, rows, channels)
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * channels
			switch channels {
			case 1:
				v := data[i]
				grid.Set(x, y, pixel.Color{R: v, G: v, B: v})
			case 3:
				grid.Set(x, y, pixel.Color{R: data[i+2], G: data[i+1], B: data[i]})
			case 4:
				grid.Set(x, y, pixel.Color{R: data[i+2], G: data[i+1], B: data[i]})
				if a := data[i+3]; a != 255 {
					grid.SetAlpha(x, y, a)
				}
			}
		}
	}

	return grid, nil
}

// GridToMat builds a BGR matrix, or BGRA when the grid carries alpha. The caller owns the
// returned matrix and must Close it.
func GridToMat(grid *pixel.Grid) (gocv.Mat, error) {
	if grid == nil {
		return gocv.NewMat(), fmt.Errorf("grid is nil")
	}

	w, h := grid.Width(), grid.Height()
	channels, matType := 3, gocv.MatTypeCV8UC3
	if grid.HasAlpha() {
		channels, matType = 4, gocv.MatTypeCV8UC4
	}

	data := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := grid.At(x, y)
			i := (y*w + x) * channels
			data[i], data[i+1], data[i+2] = c.B, c.G, c.R
			if channels == 4 {
				data[i+3] = grid.Alpha(x, y)
			}
		}
	}

	shared, err := gocv.NewMatFromBytes(h, w, matType, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("create matrix: %w", err)
	}
	defer shared.Close()

	// The matrix above borrows data; hand back one that owns its buffer.
	return shared.Clone(), nil
}
