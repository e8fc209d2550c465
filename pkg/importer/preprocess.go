package importer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	// imaging does not register a webp decoder on its own
	_ "golang.org/x/image/webp"
)

// Preprocess decodes the image at path and prepares it for recognition. When
// focusRight is set the frame is cropped at the detected text column so the
// engine never sees the cover-art grid. Every pixel is converted to grayscale
// by channel averaging, then run through a fixed contrast stretch, and the
// result is encoded as lossless PNG bytes.
func Preprocess(path string, focusRight bool, opts Options) ([]byte, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	src := imaging.Clone(img)
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	if focusRight {
		x := DetectTextColumnStart(src.Pix, w, h, opts)
		src = imaging.Crop(src, image.Rect(x, 0, w, h))
	}

	out := grayContrast(src, opts.Contrast)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// grayContrast averages the channels to gray and applies the standard
// contrast adjustment factor=(259*(C+255))/(255*(259-C)) with
// adjusted=factor*(value-128)+128, clamped to [0,255].
func grayContrast(img *image.NRGBA, contrast float64) *image.NRGBA {
	factor := (259 * (contrast + 255)) / (255 * (259 - contrast))
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			gray := (int(img.Pix[i]) + int(img.Pix[i+1]) + int(img.Pix[i+2])) / 3
			v := adjustContrast(float64(gray), factor)
			out.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

func adjustContrast(value, factor float64) uint8 {
	adjusted := factor*(value-128) + 128
	if adjusted < 0 {
		return 0
	}
	if adjusted > 255 {
		return 255
	}
	return uint8(adjusted)
}
