package widgets

import (
	"fmt"
	"strconv"

	"filterlab/internal/kernel"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const maxElementSize = 15

// ShowStructuringElementEditor asks for an odd size, then shows an n x n grid of checkboxes
// seeded from current. onConfirm receives the new element only when the user presses OK.
func ShowStructuringElementEditor(window fyne.Window, current *kernel.StructuringElement, onConfirm func(*kernel.StructuringElement)) {
	size := widget.NewEntry()
	size.SetText("3")
	if current != nil {
		size.SetText(strconv.Itoa(current.Width()))
	}

	dialog.ShowForm("Structuring Element", "Next", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Size (odd)", size)},
		func(ok bool) {
			if !ok {
				return
			}
			n, err := parseElementSize(size.Text)
			if err != nil {
				dialog.ShowError(err, window)
				return
			}
			showElementGrid(window, n, current, onConfirm)
		}, window)
}

func parseElementSize(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("size must be a number: %q", text)
	}
	if n < 1 || n%2 == 0 || n > maxElementSize {
		return 0, fmt.Errorf("size must be odd and between 1 and %d, got %d", maxElementSize, n)
	}
	return n, nil
}

func showElementGrid(window fyne.Window, n int, current *kernel.StructuringElement, onConfirm func(*kernel.StructuringElement)) {
	checks := make([][]*widget.Check, n)
	cells := container.NewGridWithColumns(n)
	for j := 0; j < n; j++ {
		checks[j] = make([]*widget.Check, n)
		for i := 0; i < n; i++ {
			check := widget.NewCheck("", nil)
			check.SetChecked(seedCell(current, n, i, j))
			checks[j][i] = check
			cells.Add(check)
		}
	}

	dialog.ShowCustomConfirm("Structuring Element", "OK", "Cancel", cells, func(ok bool) {
		if !ok {
			return
		}
		matrix := make([][]int, n)
		for j, row := range checks {
			matrix[j] = make([]int, n)
			for i, check := range row {
				if check.Checked {
					matrix[j][i] = 1
				}
			}
		}
		se, err := kernel.FromMatrix(matrix)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		onConfirm(se)
	}, window)
}

// seedCell centers the current element inside the new grid; the center cell is checked for
// an empty start.
func seedCell(current *kernel.StructuringElement, n, i, j int) bool {
	r := n / 2
	if current == nil {
		return i == r && j == r
	}
	return current.Contains(i-r, j-r)
}
