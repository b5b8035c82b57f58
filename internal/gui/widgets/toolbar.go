package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ToolbarState drives which buttons are enabled.
type ToolbarState int

const (
	StateEmpty ToolbarState = iota
	StateReady
	StateBusy
	StateProcessing
)

type Toolbar struct {
	container      *fyne.Container
	loadButton     *widget.Button
	saveButton     *widget.Button
	operatorSelect *widget.Select
	applyButton    *widget.Button
	cancelButton   *widget.Button
	backButton     *widget.Button
	elementButton  *widget.Button
	progressBar    *widget.ProgressBar
	statusLabel    *widget.Label
	metricsLabel   *widget.Label

	loadHandler           func()
	saveHandler           func()
	applyHandler          func()
	cancelHandler         func()
	backHandler           func()
	elementHandler        func()
	operatorChangeHandler func(string)
}

func NewToolbar(operators []string) *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents(operators)
	toolbar.buildLayout()
	toolbar.SetState(StateEmpty)
	return toolbar
}

func (t *Toolbar) createComponents(operators []string) {
	t.loadButton = widget.NewButton("Open", func() { call(t.loadHandler) })
	t.loadButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButton("Save", func() { call(t.saveHandler) })

	t.applyButton = widget.NewButton("Apply", func() { call(t.applyHandler) })
	t.applyButton.Importance = widget.HighImportance

	t.cancelButton = widget.NewButton("Cancel", func() { call(t.cancelHandler) })
	t.backButton = widget.NewButton("Back", func() { call(t.backHandler) })
	t.elementButton = widget.NewButton("Structuring Element...", func() { call(t.elementHandler) })

	t.operatorSelect = widget.NewSelect(operators, func(name string) {
		if t.operatorChangeHandler != nil {
			t.operatorChangeHandler(name)
		}
	})

	t.progressBar = widget.NewProgressBar()
	t.progressBar.Min, t.progressBar.Max = 0, 100

	t.statusLabel = widget.NewLabel("Open an image to begin")
	t.metricsLabel = widget.NewLabel("PSNR: --")
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func (t *Toolbar) buildLayout() {
	background := canvas.NewRectangle(color.RGBA{R: 248, G: 249, B: 250, A: 255})

	fileSection := container.NewHBox(t.loadButton, t.saveButton)

	operatorGroup := container.NewVBox(
		widget.NewLabel("Operator"),
		t.operatorSelect,
	)

	processGroup := container.NewHBox(t.applyButton, t.cancelButton, t.backButton, t.elementButton)

	statusRow := container.NewBorder(nil, nil, t.statusLabel, t.metricsLabel, t.progressBar)

	content := container.NewVBox(
		container.NewHBox(
			fileSection,
			widget.NewSeparator(),
			operatorGroup,
			widget.NewSeparator(),
			container.NewCenter(processGroup),
		),
		statusRow,
	)

	t.container = container.NewStack(background, container.NewPadded(content))
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetLoadHandler(handler func()) { t.loadHandler = handler }
func (t *Toolbar) SetSaveHandler(handler func()) { t.saveHandler = handler }
func (t *Toolbar) SetApplyHandler(handler func()) { t.applyHandler = handler }
func (t *Toolbar) SetCancelHandler(handler func()) { t.cancelHandler = handler }
func (t *Toolbar) SetBackHandler(handler func()) { t.backHandler = handler }
func (t *Toolbar) SetStructuringElementHandler(handler func()) { t.elementHandler = handler }
func (t *Toolbar) SetOperatorChangeHandler(handler func(string)) { t.operatorChangeHandler = handler }

// SelectOperator must be called on the fyne goroutine.
func (t *Toolbar) SelectOperator(name string) {
	t.operatorSelect.SetSelected(name)
}

// The setters below must be called on the fyne goroutine.

func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

func (t *Toolbar) SetProgress(percent int) {
	t.progressBar.SetValue(float64(percent))
}

func (t *Toolbar) SetMetrics(text string) {
	t.metricsLabel.SetText(text)
}

func (t *Toolbar) SetState(state ToolbarState) {
	enable := func(b *widget.Button, on bool) {
		if on {
			b.Enable()
		} else {
			b.Disable()
		}
	}

	loaded := state != StateEmpty
	idle := state == StateEmpty || state == StateReady

	enable(t.loadButton, idle)
	enable(t.saveButton, loaded && idle)
	enable(t.applyButton, loaded && state != StateBusy)
	enable(t.cancelButton, state == StateProcessing)
	enable(t.backButton, loaded && idle)
	enable(t.elementButton, idle)
}
