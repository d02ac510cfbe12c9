// Package signature captures freehand signatures and rasterizes them to PNG.
package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 192
	penRadius     = 1.5
)

var (
	ErrNotPNG   = errors.New("signature is not a PNG image")
	ErrBlank    = errors.New("signature image is empty")
	ErrTooLarge = errors.New("signature image is too large")
)

// Point is a pointer or touch sample in surface coordinates.
type Point struct {
	X float64
	Y float64
}

// Artifact is an exported signature image. It is never mutated after export.
type Artifact struct {
	PNG        []byte
	Generation uint64
	Digest     uint64
}

// Filename is the content-addressed name the artifact is stored under.
func (a *Artifact) Filename() string {
	return fmt.Sprintf("%016x.png", a.Digest)
}

// Pad is a drawing surface. It is safe for concurrent use.
type Pad struct {
	mu         sync.Mutex
	width      int
	height     int
	strokes    [][]Point
	generation uint64
}

func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Pad{width: width, height: height}
}

// AddStroke records one continuous pen movement. Empty strokes are ignored.
func (p *Pad) AddStroke(points ...Point) {
	if len(points) == 0 {
		return
	}
	stroke := make([]Point, len(points))
	copy(stroke, points)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = append(p.strokes, stroke)
}

func (p *Pad) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strokes) == 0
}

// Clear discards all strokes. Artifacts exported earlier stop being Valid.
func (p *Pad) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = nil
	p.generation++
}

// Valid reports whether a was exported from the pad's current drawing.
func (p *Pad) Valid(a *Artifact) bool {
	if a == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return a.Generation == p.generation && len(p.strokes) > 0
}

// Export rasterizes the strokes to PNG. It returns nil, nil for an empty pad.
func (p *Pad) Export() (*Artifact, error) {
	p.mu.Lock()
	strokes := p.strokes
	generation := p.generation
	width, height := p.width, p.height
	p.mu.Unlock()

	if len(strokes) == 0 {
		return nil, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, stroke := range strokes {
		if len(stroke) == 1 {
			dot(img, stroke[0])
			continue
		}
		for i := 1; i < len(stroke); i++ {
			line(img, stroke[i-1], stroke[i])
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "signature.Export: png.Encode failed")
	}

	data := buf.Bytes()
	return &Artifact{
		PNG:        data,
		Generation: generation,
		Digest:     xxh3.Hash(data),
	}, nil
}

// MaxCheckSide bounds each dimension of an uploaded signature image.
const MaxCheckSide = 4096

// Check verifies that data is a decodable PNG with at least one inked pixel.
// Uploaded signature files go through it before they are stored. The header is
// read first so oversized images are refused before any pixel is allocated.
func Check(data []byte) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ErrNotPNG
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxCheckSide || cfg.Height > MaxCheckSide {
		return ErrTooLarge
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return ErrNotPNG
	}
	if inked(img) {
		return nil
	}
	return ErrBlank
}

func inked(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA:
		return anyAlpha(m.Pix, 4, 3)
	case *image.RGBA:
		return anyAlpha(m.Pix, 4, 3)
	case *image.NRGBA64:
		return anyAlpha(m.Pix, 8, 6) || anyAlpha(m.Pix, 8, 7)
	case *image.RGBA64:
		return anyAlpha(m.Pix, 8, 6) || anyAlpha(m.Pix, 8, 7)
	case *image.Gray, *image.Gray16:
		// no alpha channel: every pixel is opaque
		return !m.Bounds().Empty()
	case *image.Paletted:
		for _, idx := range m.Pix {
			if int(idx) >= len(m.Palette) {
				continue
			}
			if _, _, _, a := m.Palette[idx].RGBA(); a != 0 {
				return true
			}
		}
		return false
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				return true
			}
		}
	}
	return false
}

// anyAlpha reports whether the byte at offset within any stride-sized pixel is non-zero.
func anyAlpha(pix []byte, stride, offset int) bool {
	for i := offset; i < len(pix); i += stride {
		if pix[i] != 0 {
			return true
		}
	}
	return false
}

var ink = color.NRGBA{A: 0xff}

func dot(img *image.NRGBA, c Point) {
	r := int(math.Ceil(penRadius))
	cx, cy := int(math.Round(c.X)), int(math.Round(c.Y))
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= penRadius*penRadius {
				set(img, x, y)
			}
		}
	}
}

func line(img *image.NRGBA, a, b Point) {
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(dist))
	if steps == 0 {
		dot(img, a)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		dot(img, Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
	}
}

func set(img *image.NRGBA, x, y int) {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return
	}
	img.SetNRGBA(x, y, ink)
}
