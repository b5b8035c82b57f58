package gui

import (
	"fmt"
	"image"

	"filterlab/internal/gui/widgets"
	"filterlab/internal/kernel"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
)

// View handles all UI components and their layout. Every method must be called on the fyne
// goroutine.
type View struct {
	window     fyne.Window
	controller *Controller
	operators  []string

	toolbar        *widgets.Toolbar
	imageDisplay   *widgets.ImageDisplay
	parameterPanel *widgets.ParameterPanel
	mainContainer  *fyne.Container
}

func NewView(window fyne.Window, operators []string) *View {
	view := &View{
		window:    window,
		operators: operators,
	}

	view.setupComponents(operators)
	view.setupLayout()

	return view
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.setupEventHandlers()
}

func (v *View) setupComponents(operators []string) {
	v.toolbar = widgets.NewToolbar(operators)
	v.imageDisplay = widgets.NewImageDisplay()
	v.parameterPanel = widgets.NewParameterPanel()
}

func (v *View) setupLayout() {
	side := container.NewVScroll(v.parameterPanel.GetContainer())
	side.SetMinSize(fyne.NewSize(260, 0))

	v.mainContainer = container.NewBorder(
		nil,
		v.toolbar.GetContainer(),
		nil,
		side,
		v.imageDisplay.GetContainer(),
	)
}

func (v *View) setupEventHandlers() {
	if v.controller == nil {
		return
	}

	v.toolbar.SetLoadHandler(v.controller.LoadImage)
	v.toolbar.SetSaveHandler(v.controller.SaveImage)
	v.toolbar.SetApplyHandler(v.controller.Apply)
	v.toolbar.SetCancelHandler(v.controller.Cancel)
	v.toolbar.SetBackHandler(v.controller.Back)
	v.toolbar.SetStructuringElementHandler(v.controller.EditStructuringElement)
	v.toolbar.SetOperatorChangeHandler(v.controller.ChangeOperator)

	v.parameterPanel.SetParameterChangeHandler(v.controller.UpdateParameter)

	v.window.SetMainMenu(v.buildMainMenu())
}

// buildMainMenu mirrors the toolbar; picking a filter selects it and applies it at once.
func (v *View) buildMainMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Open...", v.controller.LoadImage),
		fyne.NewMenuItem("Save As...", v.controller.SaveImage),
	)

	items := make([]*fyne.MenuItem, 0, len(v.operators))
	for _, name := range v.operators {
		name := name
		items = append(items, fyne.NewMenuItem(name, func() {
			v.toolbar.SelectOperator(name)
			v.controller.Apply()
		}))
	}
	filters := fyne.NewMenu("Filters", items...)

	edit := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Back to Original", v.controller.Back),
		fyne.NewMenuItem("Cancel", v.controller.Cancel),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Structuring Element...", v.controller.EditStructuringElement),
	)

	return fyne.NewMainMenu(file, edit, filters)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

func (v *View) SelectOperator(name string) {
	v.toolbar.SelectOperator(name)
}

func (v *View) SetOriginalImage(img image.Image) {
	v.imageDisplay.SetOriginalImage(img)
}

func (v *View) SetCurrentImage(img image.Image, title string) {
	v.imageDisplay.SetCurrentImage(img, title)
}

func (v *View) UpdateParameterPanel(description string, params map[string]interface{}) {
	v.parameterPanel.UpdateParameters(description, params)
}

func (v *View) SetStatus(status string) {
	v.toolbar.SetStatus(status)
}

func (v *View) SetProgress(percent int) {
	v.toolbar.SetProgress(percent)
}

func (v *View) SetMetrics(text string) {
	v.toolbar.SetMetrics(text)
}

func (v *View) SetState(state widgets.ToolbarState) {
	v.toolbar.SetState(state)
}

func (v *View) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), v.window)
}

func (v *View) ShowFileDialog(callback func(fyne.URIReadCloser, error)) {
	dialog.ShowFileOpen(callback, v.window)
}

func (v *View) ShowSaveDialog(callback func(fyne.URIWriteCloser, error)) {
	dialog.ShowFileSave(callback, v.window)
}

func (v *View) ShowStructuringElementEditor(current *kernel.StructuringElement, onConfirm func(*kernel.StructuringElement)) {
	widgets.ShowStructuringElementEditor(v.window, current, onConfirm)
}
