package widgets

import (
	"fmt"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ParameterPanel shows one entry per operator parameter. Values are handed back as text and
// validated when the operator is built.
type ParameterPanel struct {
	container              *fyne.Container
	parametersContent      *fyne.Container
	descriptionLabel       *widget.Label
	parameterChangeHandler func(string, interface{})
}

func NewParameterPanel() *ParameterPanel {
	panel := &ParameterPanel{}
	panel.setupPanel()
	return panel
}

func (pp *ParameterPanel) setupPanel() {
	pp.descriptionLabel = widget.NewLabel("")
	pp.descriptionLabel.Wrapping = fyne.TextWrapWord
	pp.parametersContent = container.NewVBox()
	pp.container = container.NewVBox(
		widget.NewLabelWithStyle("Parameters", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		pp.descriptionLabel,
		pp.parametersContent,
	)
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

func (pp *ParameterPanel) SetParameterChangeHandler(handler func(string, interface{})) {
	pp.parameterChangeHandler = handler
}

// UpdateParameters rebuilds the form. It must be called on the fyne goroutine.
func (pp *ParameterPanel) UpdateParameters(description string, params map[string]interface{}) {
	pp.descriptionLabel.SetText(description)
	pp.parametersContent.RemoveAll()

	if len(params) == 0 {
		pp.parametersContent.Add(widget.NewLabel("No parameters"))
		pp.container.Refresh()
		return
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	form := widget.NewForm()
	for _, key := range keys {
		entry := widget.NewEntry()
		entry.SetText(formatValue(params[key]))
		entry.OnSubmitted = func(value string) { pp.notify(key, value) }
		entry.OnChanged = func(value string) { pp.notify(key, value) }
		form.Append(key, entry)
	}
	pp.parametersContent.Add(form)
	pp.container.Refresh()
}

func (pp *ParameterPanel) notify(key, value string) {
	if pp.parameterChangeHandler != nil {
		pp.parameterChangeHandler(key, value)
	}
}

// formatValue renders matrices in the "a,b;c,d" form the parameter parser accepts.
func formatValue(v interface{}) string {
	switch m := v.(type) {
	case [][]float64:
		s := ""
		for i, row := range m {
			if i > 0 {
				s += "; "
			}
			for j, c := range row {
				if j > 0 {
					s += ","
				}
				s += fmt.Sprint(c)
			}
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
