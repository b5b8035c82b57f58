package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 500
	ImageAreaHeight = 400
)

// ImageDisplay shows the original and the current image side by side.
type ImageDisplay struct {
	container     fyne.CanvasObject
	originalImage *canvas.Image
	currentImage  *canvas.Image
	currentTitle  *widget.Label
	splitView     *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func newImageCanvas() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = newImageCanvas()
	id.currentImage = newImageCanvas()
	id.currentTitle = widget.NewLabelWithStyle("Current", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewLabelWithStyle("Original", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		id.originalImage,
	)
	currentContainer := container.NewBorder(id.currentTitle, nil, nil, nil, id.currentImage)

	id.splitView = container.NewHSplit(originalContainer, currentContainer)
	id.splitView.SetOffset(0.5)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

// SetOriginalImage must be called on the fyne goroutine.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.originalImage.Image = img
	id.originalImage.Refresh()
}

// SetCurrentImage must be called on the fyne goroutine. title names the last applied operator.
func (id *ImageDisplay) SetCurrentImage(img image.Image, title string) {
	if title == "" {
		title = "Current"
	}
	id.currentTitle.SetText(title)
	id.currentImage.Image = img
	id.currentImage.Refresh()
}
