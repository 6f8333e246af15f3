package sheet

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the sidecar record written next to each sheet so it can be sliced
// back without knowing the generation parameters.
type Meta struct {
	FrameCount int `yaml:"frame_count"`
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// WriteFiles writes the sheet PNG and its metadata sidecar into dir under
// the given base name (e.g. "knight_attack_sheet").
func (s *Sheet) WriteFiles(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating sheet dir: %w", err)
	}

	data, err := s.EncodePNG()
	if err != nil {
		return "", err
	}

	pngPath := filepath.Join(dir, name+".png")
	if err := os.WriteFile(pngPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing sheet: %w", err)
	}

	meta := Meta{FrameCount: s.FrameCount, CellWidth: s.CellWidth, CellHeight: s.CellHeight}
	out, err := yaml.Marshal(&meta)
	if err != nil {
		return "", fmt.Errorf("marshaling sheet metadata: %w", err)
	}
	if err := os.WriteFile(metaPath(pngPath), out, 0644); err != nil {
		return "", fmt.Errorf("writing sheet metadata: %w", err)
	}

	return pngPath, nil
}

// ReadFiles loads a sheet PNG and its metadata sidecar back into a Sheet.
func ReadFiles(pngPath string) (*Sheet, error) {
	metaData, err := os.ReadFile(metaPath(pngPath))
	if err != nil {
		return nil, fmt.Errorf("reading sheet metadata: %w", err)
	}
	var meta Meta
	if err := yaml.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("parsing sheet metadata: %w", err)
	}

	data, err := os.ReadFile(pngPath)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding sheet: %w", err)
	}

	s, err := Slice(img, meta.FrameCount)
	if err != nil {
		return nil, err
	}
	if s.CellWidth != meta.CellWidth || s.CellHeight != meta.CellHeight {
		return nil, fmt.Errorf("%w: sheet %dx%d does not match recorded cell %dx%d",
			ErrInconsistentFrameSize, s.CellWidth, s.CellHeight, meta.CellWidth, meta.CellHeight)
	}
	return s, nil
}

func metaPath(pngPath string) string {
	return strings.TrimSuffix(pngPath, filepath.Ext(pngPath)) + ".yaml"
}
