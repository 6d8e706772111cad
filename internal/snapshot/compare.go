package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// SSIM constants for 8-bit luminance, from the reference formulation:
// C1 = (K1*L)^2, C2 = (K2*L)^2 with K1=0.01, K2=0.03, L=255.
const (
	ssimC1     = 6.5025
	ssimC2     = 58.5225
	ssimWindow = 8
)

// Comparator scores a candidate image against a reference using structural
// similarity. SSIM is used instead of byte-exact pixel comparison so minor
// anti-aliasing and rendering noise do not fail the snapshot.
type Comparator struct {
	// Threshold is the dissimilarity at or above which the comparison
	// fails. Default 0.01 (1%).
	Threshold float64
}

// NewComparator creates a Comparator with the given failure threshold.
func NewComparator(threshold float64) *Comparator {
	return &Comparator{Threshold: threshold}
}

// Fails reports the verdict for a dissimilarity score. The boundary is
// inclusive: exactly the threshold fails.
func (c *Comparator) Fails(dissimilarity float64) bool {
	return dissimilarity >= c.Threshold
}

// Compare decodes both PNG buffers and returns the dissimilarity score
// (1 - mean SSIM) plus the pass verdict. The boundary is inclusive: a
// dissimilarity of exactly the threshold fails.
func (c *Comparator) Compare(reference, candidate []byte) (float64, bool, error) {
	ref, err := decodeGray(reference)
	if err != nil {
		return 0, false, fmt.Errorf("decode reference: %w", err)
	}
	cand, err := decodeGray(candidate)
	if err != nil {
		return 0, false, fmt.Errorf("decode candidate: %w", err)
	}

	// Dimension drift (browser update, viewport change) still needs a
	// score, so the candidate is rescaled to the reference size first.
	if cand.Bounds() != ref.Bounds() {
		cand = rescale(cand, ref.Bounds())
	}

	score := meanSSIM(ref, cand)
	dissimilarity := 1 - score
	if dissimilarity < 0 {
		dissimilarity = 0
	}
	return dissimilarity, !c.Fails(dissimilarity), nil
}

// decodeGray decodes a PNG buffer into a grayscale (luminance) image.
func decodeGray(buf []byte) (*image.Gray, error) {
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray, nil
}

// rescale resizes img to the target bounds with bilinear interpolation.
func rescale(img *image.Gray, bounds image.Rectangle) *image.Gray {
	dst := image.NewGray(bounds)
	draw.BiLinear.Scale(dst, bounds, img, img.Bounds(), draw.Src, nil)
	return dst
}

// meanSSIM computes the mean structural similarity over non-overlapping
// 8x8 windows of two same-sized grayscale images.
func meanSSIM(a, b *image.Gray) float64 {
	bounds := a.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 1
	}

	var sum float64
	var windows int
	for y := 0; y < h; y += ssimWindow {
		for x := 0; x < w; x += ssimWindow {
			ww := min(ssimWindow, w-x)
			wh := min(ssimWindow, h-y)
			sum += windowSSIM(a, b, bounds.Min.X+x, bounds.Min.Y+y, ww, wh)
			windows++
		}
	}
	return sum / float64(windows)
}

// windowSSIM computes SSIM for a single window starting at (x0, y0).
func windowSSIM(a, b *image.Gray, x0, y0, w, h int) float64 {
	n := float64(w * h)

	var muA, muB float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			muA += float64(a.GrayAt(x, y).Y)
			muB += float64(b.GrayAt(x, y).Y)
		}
	}
	muA /= n
	muB /= n

	var varA, varB, cov float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			da := float64(a.GrayAt(x, y).Y) - muA
			db := float64(b.GrayAt(x, y).Y) - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	num := (2*muA*muB + ssimC1) * (2*cov + ssimC2)
	den := (muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2)
	return num / den
}
