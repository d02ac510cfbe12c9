package signature

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestEmptyPadExportsNothing(t *testing.T) {
	pad := NewPad(0, 0)

	if !pad.IsEmpty() {
		t.Fatalf("new pad should be empty")
	}
	art, err := pad.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if art != nil {
		t.Fatalf("expected nil artifact for empty pad")
	}
	if pad.Valid(art) {
		t.Fatalf("nil artifact must not be valid")
	}
}

func TestExportProducesPNG(t *testing.T) {
	pad := NewPad(100, 40)
	pad.AddStroke(Point{10, 10}, Point{50, 30}, Point{90, 10})
	pad.AddStroke(Point{20, 20})

	art, err := pad.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if art == nil {
		t.Fatalf("expected artifact")
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(art.PNG))
	if err != nil {
		t.Fatalf("artifact is not a png: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 40 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
	if err := Check(art.PNG); err != nil {
		t.Fatalf("expected inked image got %v", err)
	}
	if !pad.Valid(art) {
		t.Fatalf("fresh export should be valid")
	}
	if len(art.Filename()) != len("0000000000000000.png") {
		t.Fatalf("unexpected filename %s", art.Filename())
	}
}

func TestExportIsDeterministic(t *testing.T) {
	a := NewPad(64, 64)
	b := NewPad(64, 64)
	for _, p := range []*Pad{a, b} {
		p.AddStroke(Point{1, 1}, Point{60, 60})
	}

	x, _ := a.Export()
	y, _ := b.Export()
	if x.Digest != y.Digest || !bytes.Equal(x.PNG, y.PNG) {
		t.Fatalf("identical strokes must produce identical artifacts")
	}
}

func TestClearInvalidatesArtifact(t *testing.T) {
	pad := NewPad(64, 64)
	pad.AddStroke(Point{5, 5}, Point{20, 20})

	art, _ := pad.Export()
	pad.Clear()

	if !pad.IsEmpty() {
		t.Fatalf("clear should empty the pad")
	}
	if pad.Valid(art) {
		t.Fatalf("artifact exported before clear must be invalid")
	}

	pad.AddStroke(Point{5, 5}, Point{20, 20})
	if pad.Valid(art) {
		t.Fatalf("old artifact must stay invalid after redrawing")
	}
	again, _ := pad.Export()
	if !pad.Valid(again) {
		t.Fatalf("re-export should be valid")
	}
}

func TestCheckRejectsBlankAndGarbage(t *testing.T) {
	if err := Check([]byte("not an image")); err != ErrNotPNG {
		t.Fatalf("expected ErrNotPNG got %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := Check(buf.Bytes()); err != ErrBlank {
		t.Fatalf("expected ErrBlank got %v", err)
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring a w×h RGBA image, with no pixel data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestCheckRefusesOversizedImage(t *testing.T) {
	if err := Check(pngHeader(12000, 12000)); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge got %v", err)
	}
	if err := Check(pngHeader(MaxCheckSide+1, 10)); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge got %v", err)
	}
}

func TestCheckAcceptsInkedImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(7, 7, color.NRGBA{A: 0xff})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := Check(buf.Bytes()); err != nil {
		t.Fatalf("expected inked image to pass, got %v", err)
	}
}
