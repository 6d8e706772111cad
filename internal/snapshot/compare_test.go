package snapshot_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/storysnap/internal/snapshot"
)

// solidPNG encodes a w x h image filled with one gray level.
func solidPNG(w, h int, level uint8) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

// checkerPNG encodes a w x h checkerboard of the two gray levels.
func checkerPNG(w, h int, a, b uint8) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			level := a
			if (x+y)%2 == 0 {
				level = b
			}
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Comparator", func() {
	var comparator *snapshot.Comparator

	BeforeEach(func() {
		comparator = snapshot.NewComparator(0.01)
	})

	Describe("Compare", func() {
		It("should be idempotent: an image against itself scores zero", func() {
			img := checkerPNG(64, 64, 40, 200)
			dissimilarity, passed, err := comparator.Compare(img, img)
			Expect(err).ToNot(HaveOccurred())
			Expect(dissimilarity).To(BeZero())
			Expect(passed).To(BeTrue())
		})

		It("should fail for structurally different images", func() {
			ref := solidPNG(64, 64, 255)
			cand := checkerPNG(64, 64, 0, 255)
			dissimilarity, passed, err := comparator.Compare(ref, cand)
			Expect(err).ToNot(HaveOccurred())
			Expect(dissimilarity).To(BeNumerically(">=", 0.01))
			Expect(passed).To(BeFalse())
		})

		It("should tolerate a dimension drift of the same content", func() {
			ref := solidPNG(64, 64, 128)
			cand := solidPNG(80, 80, 128)
			dissimilarity, passed, err := comparator.Compare(ref, cand)
			Expect(err).ToNot(HaveOccurred())
			Expect(dissimilarity).To(BeNumerically("<", 0.01))
			Expect(passed).To(BeTrue())
		})

		It("should reject an undecodable candidate", func() {
			ref := solidPNG(8, 8, 0)
			_, _, err := comparator.Compare(ref, []byte("not a png"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Fails", func() {
		It("should fail at exactly the threshold", func() {
			Expect(comparator.Fails(0.01)).To(BeTrue())
		})

		It("should pass just below the threshold", func() {
			Expect(comparator.Fails(0.0099)).To(BeFalse())
		})

		It("should fail above the threshold", func() {
			Expect(comparator.Fails(0.02)).To(BeTrue())
		})
	})
})
