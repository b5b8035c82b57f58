package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"filterlab/internal/algorithms"
	"filterlab/internal/engine"
	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"
)

// ProcessingService runs one operator at a time against the current image. A new request
// cancels and waits out the previous one before it starts.
type ProcessingService struct {
	engine           *engine.Engine
	algorithmManager *algorithms.Manager
	imageRepo        *ImageRepository
	stateRepo        *models.ProcessingStateRepository
	logger           logger.Logger
	startMu          sync.Mutex
}

func NewProcessingService(
	eng *engine.Engine,
	manager *algorithms.Manager,
	imageRepo *ImageRepository,
	stateRepo *models.ProcessingStateRepository,
	log logger.Logger,
) *ProcessingService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProcessingService{
		engine:           eng,
		algorithmManager: manager,
		imageRepo:        imageRepo,
		stateRepo:        stateRepo,
		logger:           log,
	}
}

// Process applies the named operator to the current image. The result is committed only when
// the run completes; on cancellation or failure the current image is left as it was.
func (ps *ProcessingService) Process(
	ctx context.Context,
	operator string,
	params algorithms.Parameters,
	progress engine.ProgressFunc,
) (*engine.Result, error) {
	op, err := ps.algorithmManager.Build(operator, params)
	if err != nil {
		return nil, err
	}

	ps.startMu.Lock()
	if ps.stateRepo.CancelProcessing() {
		ps.logger.Info("ProcessingService", "cancelling previous invocation", map[string]interface{}{
			"operator": ps.stateRepo.GetState().Operator,
		})
	}
	ps.stateRepo.Wait()

	// Read after the previous run has settled so that a commit it made is picked up.
	current := ps.imageRepo.Current()
	if current == nil {
		ps.startMu.Unlock()
		return nil, fmt.Errorf("no original image loaded")
	}

	runCtx, cancel := context.WithCancel(ctx)
	ps.stateRepo.StartProcessing(operator, cancel)
	ps.startMu.Unlock()

	result, err := ps.engine.Run(runCtx, current, op, func(percent int) {
		ps.stateRepo.UpdateProgress(percent)
		if progress != nil {
			progress(percent)
		}
	})
	if err != nil {
		ps.stateRepo.FinishProcessing(models.StageFailed)
		return nil, err
	}

	if result.State == engine.Completed {
		record := models.ProcessingRecord{
			Operator:    operator,
			Parameters:  ps.algorithmManager.GetParameters(operator).Merge(params),
			ProcessTime: result.Elapsed,
			Timestamp:   time.Now(),
		}
		if err := ps.imageRepo.Commit(result.Grid, record); err != nil {
			ps.stateRepo.FinishProcessing(models.StageFailed)
			return nil, err
		}
		ps.logDifference(operator, result)
	}

	stage := models.StageCompleted
	if result.State == engine.Cancelled {
		stage = models.StageCancelled
	}
	ps.stateRepo.FinishProcessing(stage)
	return result, nil
}

func (ps *ProcessingService) logDifference(operator string, result *engine.Result) {
	metrics, err := pipeline.CompareGrids(ps.imageRepo.Original(), result.Grid)
	if err != nil {
		return
	}
	fields := metrics.Fields()
	fields["operator"] = operator
	fields["elapsed"] = result.Elapsed.String()
	ps.logger.Debug("ProcessingService", "difference from original", fields)
}

// Cancel requests cancellation of the running invocation without waiting for it.
func (ps *ProcessingService) Cancel() bool {
	return ps.stateRepo.CancelProcessing()
}

func (ps *ProcessingService) IsProcessing() bool {
	return ps.stateRepo.IsProcessing()
}

func (ps *ProcessingService) State() models.ProcessingState {
	return ps.stateRepo.GetState()
}

// Revert cancels any running invocation and restores the original image.
func (ps *ProcessingService) Revert() bool {
	ps.stateRepo.CancelProcessing()
	ps.stateRepo.Wait()
	return ps.imageRepo.Revert()
}

// Shutdown cancels the running invocation, if any, and waits for it to finish.
func (ps *ProcessingService) Shutdown() {
	ps.startMu.Lock()
	defer ps.startMu.Unlock()

	ps.stateRepo.CancelProcessing()
	ps.stateRepo.Wait()
}
