package gui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"filterlab/internal/algorithms"
	"filterlab/internal/config"
	"filterlab/internal/engine"
	"filterlab/internal/gui/widgets"
	"filterlab/internal/kernel"
	"filterlab/internal/logger"
	"filterlab/internal/pipeline"
	"filterlab/internal/services"

	"fyne.io/fyne/v2"
)

// Controller coordinates between view components and the processing services.
type Controller struct {
	view              *View
	ctx               context.Context
	imageService      *services.ImageService
	processingService *services.ProcessingService
	imageRepo         *services.ImageRepository
	algorithmManager  *algorithms.Manager
	cfg               *config.Config
	cfgPath           string
	logger            logger.Logger

	currentOperator string
	overrides       map[string]algorithms.Parameters
	mu              sync.RWMutex
}

func NewController(
	ctx context.Context,
	imageService *services.ImageService,
	processingService *services.ProcessingService,
	imageRepo *services.ImageRepository,
	manager *algorithms.Manager,
	cfg *config.Config,
	cfgPath string,
	log logger.Logger,
) *Controller {
	return &Controller{
		ctx:               ctx,
		imageService:      imageService,
		processingService: processingService,
		imageRepo:         imageRepo,
		algorithmManager:  manager,
		cfg:               cfg,
		cfgPath:           cfgPath,
		logger:            log,
		overrides:         make(map[string]algorithms.Parameters),
	}
}

// SetView must be called on the fyne goroutine.
func (c *Controller) SetView(view *View) {
	c.view = view
	if names := c.algorithmManager.Names(); len(names) > 0 {
		c.view.SelectOperator(names[0])
	}
}

// Image operations

func (c *Controller) LoadImage() {
	c.view.ShowFileDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}

		c.view.SetStatus("Loading image...")
		c.view.SetState(widgets.StateBusy)

		go func() {
			defer reader.Close()

			data, loadErr := c.imageService.Load(reader.URI().Name(), reader)

			fyne.Do(func() {
				if loadErr != nil {
					c.handleError("Image load error", loadErr)
					c.refreshState()
					return
				}

				img := data.Grid.ToImage()
				c.view.SetOriginalImage(img)
				c.view.SetCurrentImage(img, "")
				c.view.SetMetrics("PSNR: --")
				c.view.SetProgress(0)
				c.view.SetStatus(fmt.Sprintf("Loaded %s", data.Metadata))
				c.view.SetState(widgets.StateReady)
			})
		}()
	})
}

func (c *Controller) SaveImage() {
	if c.imageRepo.Current() == nil {
		c.handleError("Save error", errors.New("no image to save"))
		return
	}

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError("File save error", err)
			return
		}
		if writer == nil {
			return
		}

		name := writer.URI().Name()
		c.view.SetStatus("Saving image...")

		go func() {
			saveErr := c.imageService.Save(writer, pipeline.FormatFromPath(name))
			if closeErr := writer.Close(); saveErr == nil {
				saveErr = closeErr
			}

			fyne.Do(func() {
				if saveErr != nil {
					c.handleError("Image save error", saveErr)
					c.view.SetStatus("Save failed")
					return
				}
				c.view.SetStatus(fmt.Sprintf("Saved %s", name))
			})
		}()
	})
}

// Operator and parameter management

// ChangeOperator runs on the fyne goroutine from the operator select.
func (c *Controller) ChangeOperator(name string) {
	descriptor, err := c.algorithmManager.Describe(name)
	if err != nil {
		c.handleError("Operator change error", err)
		return
	}

	c.mu.Lock()
	c.currentOperator = name
	params := c.algorithmManager.GetParameters(name).Merge(c.overrides[name])
	c.mu.Unlock()

	c.view.UpdateParameterPanel(descriptor.Description, params)

	c.logger.Debug("Controller", "operator changed", map[string]interface{}{
		"operator": name,
	})
}

// UpdateParameter records an edit for the current operator. Values are validated when the
// operator is built on Apply.
func (c *Controller) UpdateParameter(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentOperator == "" {
		return
	}
	params := c.overrides[c.currentOperator]
	if params == nil {
		params = algorithms.Parameters{}
		c.overrides[c.currentOperator] = params
	}
	params[key] = value
}

// Processing operations

func (c *Controller) Apply() {
	c.mu.RLock()
	operator := c.currentOperator
	params := algorithms.Parameters{}.Merge(c.overrides[operator])
	c.mu.RUnlock()

	if operator == "" {
		c.handleError("Processing error", errors.New("no operator selected"))
		return
	}
	if c.imageRepo.Current() == nil {
		c.handleError("Processing error", errors.New("no image loaded"))
		return
	}

	c.view.SetProgress(0)
	c.view.SetStatus(fmt.Sprintf("Applying %s...", operator))
	c.view.SetState(widgets.StateProcessing)

	go func() {
		var shown atomic.Int32
		shown.Store(-1)

		result, err := c.processingService.Process(c.ctx, operator, params, func(percent int) {
			if int(shown.Swap(int32(percent))) == percent {
				return
			}
			fyne.Do(func() { c.view.SetProgress(percent) })
		})

		fyne.Do(func() {
			c.showResult(operator, result, err)
		})
	}()
}

// showResult runs on the fyne goroutine. A superseded run leaves the display to its successor.
func (c *Controller) showResult(operator string, result *engine.Result, err error) {
	switch {
	case err != nil:
		c.handleError("Processing error", err)
		c.view.SetStatus(fmt.Sprintf("%s failed", operator))
	case result.State == engine.Cancelled:
		c.view.SetStatus(fmt.Sprintf("%s cancelled", operator))
	default:
		c.view.SetCurrentImage(result.Grid.ToImage(), operator)
		c.view.SetMetrics(c.differenceText(result))
		c.view.SetStatus(fmt.Sprintf("%s completed in %s", operator, result.Elapsed.Round(time.Millisecond)))
	}
	c.refreshState()
}

func (c *Controller) differenceText(result *engine.Result) string {
	metrics, err := pipeline.CompareGrids(c.imageRepo.Original(), result.Grid)
	if err != nil {
		return "PSNR: --"
	}
	if math.IsInf(metrics.PSNR, 1) {
		return "PSNR: identical"
	}
	return fmt.Sprintf("PSNR: %.2f dB", metrics.PSNR)
}

func (c *Controller) Cancel() {
	if c.processingService.Cancel() {
		c.view.SetStatus("Cancelling...")
	}
}

// Back restores the original image.
func (c *Controller) Back() {
	c.view.SetState(widgets.StateBusy)

	go func() {
		reverted := c.processingService.Revert()

		fyne.Do(func() {
			if reverted {
				c.view.SetCurrentImage(c.imageRepo.Current().ToImage(), "")
				c.view.SetMetrics("PSNR: --")
				c.view.SetStatus("Reverted to original")
			}
			c.refreshState()
		})
	}()
}

func (c *Controller) EditStructuringElement() {
	c.view.ShowStructuringElementEditor(c.algorithmManager.StructuringElement(), func(se *kernel.StructuringElement) {
		if err := c.algorithmManager.SetStructuringElement(se); err != nil {
			c.handleError("Structuring element error", err)
			return
		}
		if err := c.cfg.SetStructuringElement(se); err != nil {
			c.handleError("Structuring element error", err)
			return
		}
		if c.cfgPath != "" {
			if err := c.cfg.Save(c.cfgPath); err != nil {
				c.logger.Error("Controller", err, map[string]interface{}{"path": c.cfgPath})
			}
		}
		c.view.SetStatus(fmt.Sprintf("Structuring element set to %dx%d", se.Width(), se.Height()))
	})
}

// Shutdown cancels any running invocation and waits for it to settle.
func (c *Controller) Shutdown() {
	c.processingService.Shutdown()
	c.logger.Info("Controller", "shutdown complete", nil)
}

// refreshState runs on the fyne goroutine.
func (c *Controller) refreshState() {
	switch {
	case c.processingService.IsProcessing():
		c.view.SetState(widgets.StateProcessing)
	case c.imageRepo.Current() == nil:
		c.view.SetState(widgets.StateEmpty)
	default:
		c.view.SetState(widgets.StateReady)
	}
}

func (c *Controller) handleError(title string, err error) {
	c.logger.Error("Controller", err, map[string]interface{}{
		"context": title,
	})
	c.view.ShowError(title, err)
}
