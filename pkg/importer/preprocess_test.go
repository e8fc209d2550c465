package importer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestAdjustContrastBounded(t *testing.T) {
	opts := DefaultOptions()
	factor := (259 * (opts.Contrast + 255)) / (255 * (259 - opts.Contrast))
	prev := adjustContrast(0, factor)
	for v := 1; v <= 255; v++ {
		got := adjustContrast(float64(v), factor)
		if got < prev {
			t.Fatalf("contrast transform not monotonic at input %d: %d < %d", v, got, prev)
		}
		prev = got
	}
	// extreme factor must clamp, not wrap
	if adjustContrast(255, 100) != 255 {
		t.Fatalf("expected clamp to 255")
	}
	if adjustContrast(0, 100) != 0 {
		t.Fatalf("expected clamp to 0")
	}
}

func TestPreprocessProducesGrayscalePNG(t *testing.T) {
	img := imaging.New(200, 100, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
	path := filepath.Join(t.TempDir(), "in.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Preprocess(path, false, DefaultOptions())
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	decoded, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png output got %s", format)
	}
	if decoded.Bounds().Dx() != 200 || decoded.Bounds().Dy() != 100 {
		t.Fatalf("unexpected output size %v", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(100, 50).RGBA()
	if r != g || g != b {
		t.Fatalf("output not grayscale: r=%d g=%d b=%d", r, g, b)
	}
}

func TestPreprocessCropsAtDetectedColumn(t *testing.T) {
	// colorful left 60%, dark right: the crop should keep only the right side
	img := imaging.New(400, 100, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
	colorful := imaging.New(240, 100, color.NRGBA{R: 220, G: 30, B: 30, A: 255})
	img = imaging.Paste(img, colorful, image.Pt(0, 0))
	path := filepath.Join(t.TempDir(), "grid.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Preprocess(path, true, DefaultOptions())
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.Bounds().Dx() != 160 || decoded.Bounds().Dy() != 100 {
		t.Fatalf("expected 160x100 crop got %v", decoded.Bounds())
	}
}

func TestPreprocessDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.jpg")
	if err := os.WriteFile(path, []byte("definitely not pixels"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Preprocess(path, true, DefaultOptions())
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode got %v", err)
	}
}
