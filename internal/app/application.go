// Package app wires the desktop window to the processing services.
package app

import (
	"filterlab/internal/algorithms"
	"filterlab/internal/config"
	"filterlab/internal/engine"
	"filterlab/internal/gui"
	"filterlab/internal/gui/widgets"
	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"
	"filterlab/internal/services"
	"filterlab/internal/shutdown"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const (
	AppName          = "filterlab"
	AppID            = "io.filterlab.desktop"
	ParameterWidth   = 260
	ControlBarHeight = 120
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	view       *gui.View
	controller *gui.Controller
	shutdown   *shutdown.Manager
	logger     logger.Logger
}

// NewApplication builds the window and services. cfgPath is where structuring element edits
// are persisted; an empty path keeps them in memory.
func NewApplication(cfg *config.Config, cfgPath string, log logger.Logger) (*Application, error) {
	se, err := cfg.StructuringElementValue()
	if err != nil {
		return nil, err
	}
	manager := algorithms.NewManager(se)
	if err := manager.ApplyOverrides(cfg.Operators); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = engine.DefaultWorkers()
	}
	eng := engine.New(engine.WithWorkers(workers), engine.WithLogger(log))

	imageRepo := services.NewImageRepository()
	imageService := services.NewImageService(pipeline.NewLoader(log), pipeline.NewSaver(log), imageRepo, log)
	processingService := services.NewProcessingService(eng, manager, imageRepo, models.NewProcessingStateRepository(), log)

	shutdownManager := shutdown.NewManager(log)

	fyneApp := fyneapp.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(calculateWindowSize())
	window.CenterOnScreen()
	window.SetMaster()

	view := gui.NewView(window, manager.Names())
	controller := gui.NewController(shutdownManager.Context(), imageService, processingService, imageRepo, manager, cfg, cfgPath, log)
	view.SetController(controller)
	controller.SetView(view)

	shutdownManager.Register("controller", shutdown.Func(controller.Shutdown))

	log.Info("Application", "initialization complete", map[string]interface{}{
		"workers":   workers,
		"operators": len(manager.Names()),
	})

	return &Application{
		fyneApp:    fyneApp,
		window:     window,
		view:       view,
		controller: controller,
		shutdown:   shutdownManager,
		logger:     log,
	}, nil
}

func calculateWindowSize() fyne.Size {
	// Two image panes side by side plus the parameter column and control bar.
	return fyne.NewSize(2*widgets.ImageAreaWidth+ParameterWidth, widgets.ImageAreaHeight+ControlBarHeight)
}

// Run blocks until the window is closed or the process receives SIGINT/SIGTERM.
func (a *Application) Run() error {
	stop := a.shutdown.Listen()
	defer stop()

	go func() {
		<-a.shutdown.Done()
		fyne.Do(a.fyneApp.Quit)
	}()

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		go a.shutdown.Shutdown()
	})

	a.window.SetContent(a.view.GetMainContainer())
	a.window.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	return nil
}
