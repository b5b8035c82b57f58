package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/opencv/bridge"
	"filterlab/internal/pixel"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader decodes with OpenCV first and falls back to the Go decoders for anything OpenCV
// rejects or returns in a depth the grid cannot hold.
type Loader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{logger: log}
}

func (l *Loader) LoadFile(path string) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := l.LoadReader(path, f)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil {
		data.Metadata.FileSize = info.Size()
	}
	return data, nil
}

// LoadReader reads r to the end. name is used for the format hint and the metadata source.
func (l *Loader) LoadReader(name string, r io.Reader) (*ImageData, error) {
	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":      name,
		"extension": strings.ToLower(filepath.Ext(name)),
	})

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	data, err := l.LoadBytes(raw, filepath.Ext(name))
	if err != nil {
		return nil, err
	}
	data.Metadata.Source = name
	data.Metadata.FileSize = int64(len(raw))
	return data, nil
}

// LoadBytes decodes an encoded image. format is an extension hint such as ".png"; it may be empty.
func (l *Loader) LoadBytes(data []byte, format string) (*ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	grid, channels, decodedFormat, err := l.decodeOpenCV(data)
	if err != nil {
		l.logger.Debug("ImageLoader", "opencv decode unavailable, using Go decoders", map[string]interface{}{
			"reason": err.Error(),
		})
		grid, channels, decodedFormat, err = l.decodeStandard(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}

	meta := models.ImageMetadata{
		Format:   determineFormat(strings.ToLower(format), decodedFormat),
		Width:    grid.Width(),
		Height:   grid.Height(),
		Channels: channels,
		HasAlpha: grid.HasAlpha(),
		LoadTime: time.Now(),
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":    meta.Width,
		"height":   meta.Height,
		"channels": meta.Channels,
		"format":   meta.Format,
	})

	return &ImageData{Grid: grid, Metadata: meta}, nil
}

func (l *Loader) decodeOpenCV(data []byte) (*pixel.Grid, int, string, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return nil, 0, "", err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, 0, "", fmt.Errorf("opencv returned an empty matrix")
	}

	grid, err := bridge.MatToGrid(mat)
	if err != nil {
		return nil, 0, "", err
	}
	return grid, mat.Channels(), sniffFormat(data), nil
}

func (l *Loader) decodeStandard(data []byte) (*pixel.Grid, int, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, "", err
	}
	grid, err := pixel.FromImage(img)
	if err != nil {
		return nil, 0, "", err
	}

	channels := 3
	if grid.HasAlpha() {
		channels = 4
	}
	return grid, channels, format, nil
}

// sniffFormat lets the Go registry name the format without decoding the pixels.
func sniffFormat(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return format
}

func determineFormat(extension, decoded string) string {
	if decoded != "" {
		return decoded
	}
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
