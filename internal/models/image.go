package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ImageMetadata describes where an image came from and how it was encoded.
type ImageMetadata struct {
	Source   string
	Format   string
	Width    int
	Height   int
	Channels int
	HasAlpha bool
	FileSize int64
	LoadTime time.Time
}

// Name is the base name of the source, or "untitled" for images that never touched disk.
func (m ImageMetadata) Name() string {
	if m.Source == "" {
		return "untitled"
	}
	return filepath.Base(m.Source)
}

func (m ImageMetadata) String() string {
	return fmt.Sprintf("%s (%dx%d %s)", m.Name(), m.Width, m.Height, strings.ToUpper(m.Format))
}

// ProcessingRecord is one committed operator application.
type ProcessingRecord struct {
	Operator    string
	Parameters  map[string]interface{}
	ProcessTime time.Duration
	Timestamp   time.Time
}
