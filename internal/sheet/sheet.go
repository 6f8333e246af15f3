// Package sheet lays out per-frame images as a single horizontal sprite
// sheet at a fixed cell size, and slices sheets back into frames.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// ErrInconsistentFrameSize means a frame's geometry cannot be reconciled to
// the cell size without distorting it beyond recognition.
var ErrInconsistentFrameSize = errors.New("inconsistent frame size")

// aspectTolerance is the maximum allowed ratio between a frame's aspect and
// the cell's aspect before cropping would destroy the image.
const aspectTolerance = 2.0

// Sheet is an assembled sprite sheet plus the metadata needed to slice it.
type Sheet struct {
	Image      *image.NRGBA
	FrameCount int
	CellWidth  int
	CellHeight int
}

// Assemble concatenates frames left to right at the given cell size. Frames
// that do not match the cell are scaled to cover it and center-cropped,
// never stretched.
func Assemble(frames []image.Image, cellWidth, cellHeight int) (*Sheet, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to assemble")
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("invalid cell size %dx%d", cellWidth, cellHeight)
	}

	out := image.NewNRGBA(image.Rect(0, 0, cellWidth*len(frames), cellHeight))
	for i, frame := range frames {
		cell, err := fitToCell(frame, cellWidth, cellHeight)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		dst := image.Rect(i*cellWidth, 0, (i+1)*cellWidth, cellHeight)
		draw.Draw(out, dst, cell, cell.Bounds().Min, draw.Src)
	}

	return &Sheet{
		Image:      out,
		FrameCount: len(frames),
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}, nil
}

// fitToCell reconciles one frame to the cell size: exact matches pass
// through, everything else is scaled so both dimensions cover the cell and
// then cropped around the center.
func fitToCell(frame image.Image, cellWidth, cellHeight int) (image.Image, error) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrInconsistentFrameSize)
	}
	if w == cellWidth && h == cellHeight {
		return frame, nil
	}

	frameAspect := float64(w) / float64(h)
	cellAspect := float64(cellWidth) / float64(cellHeight)
	ratio := frameAspect / cellAspect
	if ratio < 1 {
		ratio = 1 / ratio
	}
	if ratio > aspectTolerance {
		return nil, fmt.Errorf("%w: frame aspect %.2f vs cell aspect %.2f", ErrInconsistentFrameSize, frameAspect, cellAspect)
	}

	// Scale to cover: the larger of the two scale factors guarantees both
	// dimensions reach the cell, then the surplus is cropped evenly.
	scale := float64(cellWidth) / float64(w)
	if s := float64(cellHeight) / float64(h); s > scale {
		scale = s
	}
	scaledW := int(float64(w)*scale + 0.5)
	scaledH := int(float64(h)*scale + 0.5)
	if scaledW < cellWidth {
		scaledW = cellWidth
	}
	if scaledH < cellHeight {
		scaledH = cellHeight
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, b, xdraw.Src, nil)

	offsetX := (scaledW - cellWidth) / 2
	offsetY := (scaledH - cellHeight) / 2
	return scaled.SubImage(image.Rect(offsetX, offsetY, offsetX+cellWidth, offsetY+cellHeight)), nil
}

// Frame returns the i-th cell as a sub-image of the sheet.
func (s *Sheet) Frame(i int) (image.Image, error) {
	if i < 0 || i >= s.FrameCount {
		return nil, fmt.Errorf("frame index %d out of range [0,%d)", i, s.FrameCount)
	}
	r := image.Rect(i*s.CellWidth, 0, (i+1)*s.CellWidth, s.CellHeight)
	return s.Image.SubImage(r), nil
}

// Frames slices the sheet back into its independent frames.
func (s *Sheet) Frames() []image.Image {
	frames := make([]image.Image, s.FrameCount)
	for i := range frames {
		frames[i], _ = s.Frame(i)
	}
	return frames
}

// Slice rebuilds a Sheet from a raw sheet image and its frame count,
// deriving the cell size from the image dimensions.
func Slice(img image.Image, frameCount int) (*Sheet, error) {
	if frameCount <= 0 {
		return nil, fmt.Errorf("invalid frame count %d", frameCount)
	}
	b := img.Bounds()
	if b.Dx()%frameCount != 0 {
		return nil, fmt.Errorf("%w: sheet width %d not divisible by %d frames", ErrInconsistentFrameSize, b.Dx(), frameCount)
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	return &Sheet{
		Image:      nrgba,
		FrameCount: frameCount,
		CellWidth:  b.Dx() / frameCount,
		CellHeight: b.Dy(),
	}, nil
}

// EncodePNG serializes the sheet image.
func (s *Sheet) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image); err != nil {
		return nil, fmt.Errorf("encoding sheet: %w", err)
	}
	return buf.Bytes(), nil
}
