// Package render draws meme captions onto template images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"github.com/timmy/memeforge/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	fontSizeDivisor = 18  // font size = image width / 18
	widthFraction   = 0.9 // share of the image width a line may use
	topPadding      = 15  // px between the image top and the text block
	lineSpacing     = 4   // extra px between wrapped lines
	outlineOffset   = 2
)

var outlineOffsets = []image.Point{
	{-outlineOffset, -outlineOffset},
	{-outlineOffset, outlineOffset},
	{outlineOffset, -outlineOffset},
	{outlineOffset, outlineOffset},
}

var (
	embeddedOnce sync.Once
	embeddedFont *opentype.Font
	embeddedErr  error
)

// Renderer overlays captions on templates. It holds no per-render state and
// is safe for concurrent use.
type Renderer struct {
	fontPath string
}

// New creates a Renderer using the font at fontPath. An empty path selects the
// embedded Go Regular font.
func New(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// FontPath returns the configured font file, or "" for the embedded font.
func (r *Renderer) FontPath() string {
	return r.fontPath
}

// Render loads the template at templatePath and draws caption onto a copy of it.
// Parameters:
//   - templatePath: path to a png or jpeg template.
//   - caption: caption text; it is upper-cased before layout.
//
// Returns:
//   - *domain.RenderedMeme: the new image plus its layout.
//   - error: wraps domain.ErrTemplateLoad or domain.ErrFontLoad; no image is returned on error.
func (r *Renderer) Render(templatePath, caption string) (*domain.RenderedMeme, error) {
	src, err := LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return r.RenderImage(src, caption)
}

// RenderImage draws caption onto a copy of src. src is never modified.
func (r *Renderer) RenderImage(src image.Image, caption string) (*domain.RenderedMeme, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", domain.ErrTemplateLoad)
	}

	bounds := src.Bounds()
	size := float64(bounds.Dx() / fontSizeDivisor)
	if size < 1 {
		size = 1
	}

	face, err := r.loadFace(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	text := strings.ToUpper(caption)
	lines := Wrap(text, CharsPerLine(face, bounds.Dx()))
	l := measure(face, lines, bounds)

	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	for _, off := range outlineOffsets {
		l.draw(dst, face, off, color.Black)
	}
	l.draw(dst, face, image.Point{}, color.White)

	return &domain.RenderedMeme{
		Image:    dst,
		Lines:    lines,
		FontSize: size,
		Origin:   l.origin,
	}, nil
}

// LoadTemplate opens and decodes a template image.
func LoadTemplate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTemplateLoad, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrTemplateLoad, path, err)
	}
	return img, nil
}

// loadFace reads the configured font and returns a face at size px (72 DPI).
func (r *Renderer) loadFace(size float64) (font.Face, error) {
	var (
		parsed *opentype.Font
		err    error
	)
	if r.fontPath == "" {
		parsed, err = loadEmbeddedFont()
	} else {
		parsed, err = loadFontFile(r.fontPath)
	}
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create face: %v", domain.ErrFontLoad, err)
	}
	return face, nil
}

func loadFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFontLoad, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrFontLoad, path, err)
	}
	return parsed, nil
}

func loadEmbeddedFont() (*opentype.Font, error) {
	embeddedOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			embeddedErr = fmt.Errorf("%w: parse embedded font: %v", domain.ErrFontLoad, err)
			return
		}
		embeddedFont = parsed
	})
	return embeddedFont, embeddedErr
}

// CharsPerLine estimates how many characters fit on one line: 90% of width
// divided by the mean advance of 'A'..'Z'. It is an approximation; lines of
// wide glyphs may overflow.
func CharsPerLine(face font.Face, width int) int {
	var total fixed.Int26_6
	for r := 'A'; r <= 'Z'; r++ {
		adv, ok := face.GlyphAdvance(r)
		if ok {
			total += adv
		}
	}
	avg := float64(total) / 64 / 26
	if avg <= 0 {
		return 1
	}

	n := int(float64(width) * widthFraction / avg)
	if n < 1 {
		return 1
	}
	return n
}

type layout struct {
	lines      []string
	widths     []int
	blockWidth int
	lineHeight int
	ascent     int
	origin     image.Point
}

// measure computes the text block position: horizontally centred, fixed top padding.
func measure(face font.Face, lines []string, bounds image.Rectangle) *layout {
	l := &layout{
		lines:  lines,
		widths: make([]int, len(lines)),
	}
	for i, line := range lines {
		l.widths[i] = font.MeasureString(face, line).Ceil()
		if l.widths[i] > l.blockWidth {
			l.blockWidth = l.widths[i]
		}
	}

	metrics := face.Metrics()
	l.ascent = metrics.Ascent.Ceil()
	l.lineHeight = metrics.Height.Ceil() + lineSpacing
	l.origin = image.Point{
		X: bounds.Min.X + (bounds.Dx()-l.blockWidth)/2,
		Y: bounds.Min.Y + topPadding,
	}
	return l
}

// draw paints every line in col, shifted by off. Lines are centred within the block.
func (l *layout) draw(dst draw.Image, face font.Face, off image.Point, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range l.lines {
		x := l.origin.X + (l.blockWidth-l.widths[i])/2 + off.X
		baseline := l.origin.Y + l.ascent + i*l.lineHeight + off.Y
		d.Dot = fixed.P(x, baseline)
		d.DrawString(line)
	}
}
