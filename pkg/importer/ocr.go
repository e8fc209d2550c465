package importer

import (
	"github.com/otiai10/gosseract/v2"
	log "github.com/sirupsen/logrus"
)

// ProgressFunc reports recognition progress as a status label and a 0..1
// fraction. Tesseract does not stream progress through this binding, so the
// adapter reports coarse stage boundaries.
type ProgressFunc func(status string, progress float64)

// Recognize runs the external OCR engine over preprocessed PNG bytes. The
// client is scoped to this call and always released, success or failure. Any
// engine-internal error surfaces as the single ErrOCRFailed; callers never
// see the underlying cause.
func Recognize(png []byte, opts Options, onProgress ProgressFunc) (RawOCRResult, error) {
	report := func(status string, progress float64) {
		if onProgress != nil {
			onProgress(status, progress)
		}
	}
	report("initializing ocr", 0)

	client := gosseract.NewClient()
	defer client.Close()
	lang := opts.Language
	if lang == "" {
		lang = "eng"
	}
	_ = client.SetLanguage(lang)
	if err := client.SetImageFromBytes(png); err != nil {
		log.Errorf("ocr: set image failed: %v", err)
		return RawOCRResult{}, ErrOCRFailed
	}

	report("recognizing text", 0.5)
	text, err := client.Text()
	if err != nil {
		log.Errorf("ocr: recognition failed: %v", err)
		return RawOCRResult{}, ErrOCRFailed
	}

	conf := meanWordConfidence(client)
	report("done", 1)
	return RawOCRResult{Text: text, Confidence: conf}, nil
}

// meanWordConfidence averages per-word confidence into a 0..1 value. A
// failure here only degrades the reported confidence, never the text.
func meanWordConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes)) / 100
}
