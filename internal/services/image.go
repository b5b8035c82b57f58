package services

import (
	"fmt"
	"io"
	"sync"
	"time"

	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"
	"filterlab/internal/pixel"
)

// maxHistorySize bounds the list of committed operations kept for display.
const maxHistorySize = 10

// ImageRepository keeps the image as loaded and the image as last committed. Only these two
// are kept: Revert goes straight back to the original.
type ImageRepository struct {
	mu       sync.RWMutex
	original *pixel.Grid
	current  *pixel.Grid
	metadata models.ImageMetadata
	history  []models.ProcessingRecord
}

func NewImageRepository() *ImageRepository {
	return &ImageRepository{}
}

// SetOriginal replaces both the original and the current image and clears the history.
func (r *ImageRepository) SetOriginal(grid *pixel.Grid, meta models.ImageMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.original = grid
	r.current = grid
	r.metadata = meta
	r.history = nil
}

func (r *ImageRepository) Original() *pixel.Grid {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.original
}

func (r *ImageRepository) Current() *pixel.Grid {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *ImageRepository) Metadata() models.ImageMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metadata
}

// Commit makes grid the current image.
func (r *ImageRepository) Commit(grid *pixel.Grid, record models.ProcessingRecord) error {
	if grid == nil {
		return fmt.Errorf("cannot commit an empty image")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.original == nil {
		return fmt.Errorf("no original image loaded")
	}
	r.current = grid
	r.history = append(r.history, record)
	if len(r.history) > maxHistorySize {
		r.history = r.history[1:]
	}
	return nil
}

// Revert restores the original image. It reports false when nothing is loaded.
func (r *ImageRepository) Revert() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.original == nil {
		return false
	}
	r.current = r.original
	r.history = nil
	return true
}

func (r *ImageRepository) History() []models.ProcessingRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := make([]models.ProcessingRecord, len(r.history))
	copy(history, r.history)
	return history
}

func (r *ImageRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.original = nil
	r.current = nil
	r.metadata = models.ImageMetadata{}
	r.history = nil
}

// ImageService handles image loading and saving against the repository.
type ImageService struct {
	loader     pipeline.ImageLoader
	saver      pipeline.ImageSaver
	repository *ImageRepository
	logger     logger.Logger
}

func NewImageService(loader pipeline.ImageLoader, saver pipeline.ImageSaver, repo *ImageRepository, log logger.Logger) *ImageService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ImageService{
		loader:     loader,
		saver:      saver,
		repository: repo,
		logger:     log,
	}
}

// Load decodes r and makes it the new original image.
func (is *ImageService) Load(name string, r io.Reader) (*pipeline.ImageData, error) {
	start := time.Now()

	data, err := is.loader.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	is.repository.SetOriginal(data.Grid, data.Metadata)

	is.logger.Info("ImageService", "image ready", map[string]interface{}{
		"source":   data.Metadata.Name(),
		"duration": time.Since(start).String(),
	})
	return data, nil
}

func (is *ImageService) LoadFile(path string) (*pipeline.ImageData, error) {
	data, err := is.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	is.repository.SetOriginal(data.Grid, data.Metadata)
	return data, nil
}

// Save encodes the current image. An empty format saves as PNG.
func (is *ImageService) Save(w io.Writer, format string) error {
	current := is.repository.Current()
	if current == nil {
		return fmt.Errorf("no image to save")
	}
	return is.saver.Encode(w, current, format)
}

func (is *ImageService) SaveFile(path string) error {
	current := is.repository.Current()
	if current == nil {
		return fmt.Errorf("no image to save")
	}
	return is.saver.SaveFile(path, current)
}
