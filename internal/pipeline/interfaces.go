// Package pipeline moves images between files and pixel grids. Decoding and encoding live only
// here; the engine never sees an encoded byte.
package pipeline

import (
	"io"

	"filterlab/internal/models"
	"filterlab/internal/pixel"
)

// ImageData is a decoded image together with where it came from.
type ImageData struct {
	Grid     *pixel.Grid
	Metadata models.ImageMetadata
}

// ImageLoader handles loading images from various sources
type ImageLoader interface {
	LoadFile(path string) (*ImageData, error)
	LoadReader(name string, r io.Reader) (*ImageData, error)
	LoadBytes(data []byte, format string) (*ImageData, error)
}

// ImageSaver handles saving images to various formats
type ImageSaver interface {
	SaveFile(path string, grid *pixel.Grid) error
	Encode(w io.Writer, grid *pixel.Grid, format string) error
}
