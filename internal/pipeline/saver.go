package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filterlab/internal/logger"
	"filterlab/internal/opencv/bridge"
	"filterlab/internal/pixel"

	"gocv.io/x/gocv"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Saver encodes with OpenCV by file extension and falls back to the Go encoders.
type Saver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Saver{logger: log}
}

// FormatFromPath maps a file extension to a format name. Unknown extensions save as PNG.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

func (s *Saver) SaveFile(path string, grid *pixel.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := s.Encode(f, grid, FormatFromPath(path)); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (s *Saver) Encode(w io.Writer, grid *pixel.Grid, format string) error {
	if grid == nil {
		return fmt.Errorf("no image data to save")
	}
	if format == "" {
		format = "png"
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format": format,
		"width":  grid.Width(),
		"height": grid.Height(),
	})

	data, err := s.encodeOpenCV(grid, format)
	if err == nil {
		_, err = w.Write(data)
	} else {
		s.logger.Debug("ImageSaver", "opencv encode unavailable, using Go encoders", map[string]interface{}{
			"reason": err.Error(),
		})
		err = s.encodeStandard(w, grid, format)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
		return err
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"format": format,
	})
	return nil
}

func (s *Saver) encodeOpenCV(grid *pixel.Grid, format string) ([]byte, error) {
	var ext gocv.FileExt
	switch format {
	case "png":
		ext = gocv.PNGFileExt
	case "jpeg":
		ext = gocv.JPEGFileExt
	default:
		return nil, fmt.Errorf("format %s is not encoded through opencv", format)
	}

	mat, err := bridge.GridToMat(grid)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(ext, mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func (s *Saver) encodeStandard(w io.Writer, grid *pixel.Grid, format string) error {
	img := grid.ToImage()
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "png":
		return png.Encode(w, img)
	default:
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(format),
		})
		return png.Encode(w, img)
	}
}
