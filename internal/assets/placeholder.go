package assets

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder renders a deterministic stand-in artifact: a flat panel whose
// color derives from the subject, with the subject and category labeled in
// the center. Same inputs produce the same bytes, so it can be cached and
// compared like a real generation.
func Placeholder(category, subject string, width, height int) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	bg := placeholderColor(category + "/" + subject)
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	// Thin frame so placeholders read as cards even at thumbnail size.
	border := color.NRGBA{R: 220, G: 220, B: 200, A: 255}
	for x := 0; x < width; x++ {
		img.SetNRGBA(x, 0, border)
		img.SetNRGBA(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.SetNRGBA(0, y, border)
		img.SetNRGBA(width-1, y, border)
	}

	drawLabel(img, subject, height/2-8)
	drawLabel(img, fmt.Sprintf("(%s)", category), height/2+8)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// placeholderColor maps a key to a muted, dark background color.
func placeholderColor(key string) color.NRGBA {
	sum := sha256.Sum256([]byte(key))
	return color.NRGBA{
		R: 40 + sum[0]%80,
		G: 40 + sum[1]%80,
		B: 50 + sum[2]%80,
		A: 255,
	}
}

// drawLabel centers a line of text at the given baseline height.
func drawLabel(img *image.NRGBA, text string, y int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := (img.Bounds().Dx() - width) / 2
	if x < 2 {
		x = 2
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 220, G: 220, B: 200, A: 255}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
