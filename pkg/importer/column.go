package importer

// DetectTextColumnStart finds the x offset where a screenshot's colorful
// cover-art region ends and its plain text region begins. pix is a tightly
// packed RGBA buffer (4 bytes per pixel, stride = 4*width); the function is
// pure over that buffer so it stays testable without a decoding surface.
//
// The image is sampled in opts.Bands horizontal bands to average out color
// noise from individual covers. Each band is scanned left to right in strips
// of opts.StripWidth pixels; a strip's colorfulness is the fraction of pixels
// that are both lit (mean RGB above BrightnessFloor) and saturated
// ((max-min)/max above SaturationFloor), multiplied by the mean saturation of
// exactly those pixels. The text column starts one strip past the rightmost
// strip whose band-averaged score still exceeds ColorfulnessThreshold of the
// peak. Implausible results (outside [ClampLow, ClampHigh] of the width) fall
// back to FallbackColumn, so monochrome or fully colorful inputs never
// produce a degenerate crop. Never fails.
func DetectTextColumnStart(pix []uint8, width, height int, opts Options) int {
	fallback := int(opts.FallbackColumn * float64(width))
	strips := width / opts.StripWidth
	if strips < 1 || height < opts.Bands || len(pix) < width*height*4 {
		return fallback
	}

	scores := make([]float64, strips)
	bandH := height / opts.Bands
	for b := 0; b < opts.Bands; b++ {
		y0 := b * bandH
		y1 := y0 + bandH
		for s := 0; s < strips; s++ {
			x0 := s * opts.StripWidth
			x1 := x0 + opts.StripWidth
			total := 0
			qualifying := 0
			satSum := 0.0
			for y := y0; y < y1; y++ {
				row := y * width * 4
				for x := x0; x < x1; x++ {
					i := row + x*4
					r := float64(pix[i])
					g := float64(pix[i+1])
					bl := float64(pix[i+2])
					total++
					maxC := max3(r, g, bl)
					if (r+g+bl)/3 <= opts.BrightnessFloor || maxC == 0 {
						continue
					}
					sat := (maxC - min3(r, g, bl)) / maxC
					if sat > opts.SaturationFloor {
						qualifying++
						satSum += sat
					}
				}
			}
			if qualifying > 0 {
				frac := float64(qualifying) / float64(total)
				scores[s] += frac * (satSum / float64(qualifying))
			}
		}
	}

	maxScore := 0.0
	for s := range scores {
		scores[s] /= float64(opts.Bands)
		if scores[s] > maxScore {
			maxScore = scores[s]
		}
	}

	threshold := opts.ColorfulnessThreshold * maxScore
	rightmost := -1
	for s, sc := range scores {
		if sc > threshold {
			rightmost = s
		}
	}
	if rightmost < 0 {
		return fallback
	}

	x := (rightmost + 1) * opts.StripWidth
	if x < int(opts.ClampLow*float64(width)) || x > int(opts.ClampHigh*float64(width)) {
		return fallback
	}
	return x
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
