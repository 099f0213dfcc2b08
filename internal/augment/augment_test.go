package augment_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/field"
)

func filled(t, nx, ny int, v float64) *field.Field {
	f := field.New(t, nx, ny)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

func random(rng *rand.Rand, t, nx, ny int) *field.Field {
	f := field.New(t, nx, ny)
	for i := range f.Data {
		f.Data[i] = rng.Float64()
	}
	return f
}

var _ = Describe("Combine", func() {
	It("concatenates along y for horizontal orientation", func() {
		out, err := augment.Combine(filled(1, 2, 2, 1), filled(1, 2, 2, 0), augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Shape()).To(Equal(field.Shape{T: 1, Nx: 2, Ny: 4}))
		Expect(out.ToSlices()).To(Equal([][][]float64{{{1, 1, 0, 0}, {1, 1, 0, 0}}}))
	})

	It("concatenates along x for vertical orientation", func() {
		out, err := augment.Combine(filled(1, 2, 2, 1), filled(1, 2, 2, 0), augment.Vertical)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Shape()).To(Equal(field.Shape{T: 1, Nx: 4, Ny: 2}))
		Expect(out.ToSlices()).To(Equal([][][]float64{{{1, 1}, {1, 1}, {0, 0}, {0, 0}}}))
	})

	It("rejects fields of different shape", func() {
		_, err := augment.Combine(field.New(1, 2, 2), field.New(1, 2, 3), augment.Horizontal)
		Expect(err).To(MatchError(field.ErrShapeMismatch))
		var se *field.ShapeError
		Expect(err).To(BeAssignableToTypeOf(se))
	})

	It("rejects scalar pairs", func() {
		_, err := augment.CombinePair(&field.Pair{U: field.New(1, 2, 2)}, augment.Horizontal)
		Expect(err).To(MatchError(field.ErrShapeMismatch))
	})
})

var _ = Describe("Split", func() {
	DescribeTable("round trips exactly",
		func(o augment.Orientation, t, nx, ny int) {
			rng := rand.New(rand.NewSource(int64(t*100 + nx*10 + ny)))
			u, v := random(rng, t, nx, ny), random(rng, t, nx, ny)

			aug, err := augment.Combine(u, v, o)
			Expect(err).NotTo(HaveOccurred())

			u2, v2, err := augment.Split(aug, aug.Nx, aug.Ny, o)
			Expect(err).NotTo(HaveOccurred())
			Expect(u2.Equal(u)).To(BeTrue())
			Expect(v2.Equal(v)).To(BeTrue())
		},
		Entry("horizontal square", augment.Horizontal, 3, 4, 4),
		Entry("horizontal single column", augment.Horizontal, 2, 5, 1),
		Entry("vertical rectangular", augment.Vertical, 2, 3, 7),
		Entry("vertical single row", augment.Vertical, 1, 1, 6),
		Entry("empty time axis", augment.Horizontal, 0, 3, 3),
	)

	It("fails on an odd halved dimension", func() {
		_, _, err := augment.Split(field.New(1, 2, 5), 2, 5, augment.Horizontal)
		Expect(err).To(MatchError(field.ErrOddDimension))

		_, _, err = augment.Split(field.New(1, 3, 4), 3, 4, augment.Vertical)
		Expect(err).To(MatchError(field.ErrOddDimension))
	})

	It("accepts an odd dimension on the other axis", func() {
		_, _, err := augment.Split(field.New(1, 3, 4), 3, 4, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails when the combined dims disagree with the array", func() {
		_, _, err := augment.Split(field.New(1, 2, 4), 2, 6, augment.Horizontal)
		Expect(err).To(MatchError(field.ErrShapeMismatch))
	})
})

var _ = Describe("sensor mapping", func() {
	It("maps the far half back to the original frame", func() {
		out, err := augment.MapSensorToOriginal([]augment.Coord{{0, 3}}, [2]int{2, 4}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]augment.Coord{{0, 1}}))
	})

	It("shifts by the half width", func() {
		const ny = 5
		out, err := augment.MapSensorToOriginal([]augment.Coord{{2, ny + 3}}, [2]int{4, 2 * ny}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]augment.Coord{{2, 3}}))
	})

	It("leaves home-half coordinates unchanged", func() {
		in := []augment.Coord{{0, 0}, {1, 1}, {3, 4}}
		h, err := augment.MapSensorToOriginal(in, [2]int{4, 10}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(Equal(in))

		vin := []augment.Coord{{0, 9}, {4, 2}}
		v, err := augment.MapSensorToOriginal(vin, [2]int{10, 10}, augment.Vertical)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(vin))
	})

	It("remaps rows for vertical orientation", func() {
		out, err := augment.MapSensorToOriginal([]augment.Coord{{7, 1}, {2, 1}}, [2]int{8, 3}, augment.Vertical)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]augment.Coord{{3, 1}, {2, 1}}))
	})

	It("never mutates or aliases the input", func() {
		in := []augment.Coord{{0, 3}, {1, 0}}
		out, err := augment.MapSensorToOriginal(in, [2]int{2, 4}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(in).To(Equal([]augment.Coord{{0, 3}, {1, 0}}))
		out[1].Row = 99
		Expect(in[1].Row).To(Equal(1))
	})

	It("reports out-of-range coordinates without a partial result", func() {
		out, err := augment.MapSensorToOriginal([]augment.Coord{{0, 0}, {0, 4}}, [2]int{2, 4}, augment.Horizontal)
		Expect(err).To(MatchError(field.ErrOutOfBounds))
		Expect(out).To(BeNil())

		_, err = augment.MapSensorToOriginal([]augment.Coord{{-1, 0}}, [2]int{2, 4}, augment.Horizontal)
		Expect(err).To(MatchError(field.ErrOutOfBounds))
	})

	It("tags provenance and groups by component", func() {
		coords := []augment.Coord{{0, 3}, {1, 0}, {1, 2}, {0, 1}}
		tagged, err := augment.MapSensorTagged(coords, [2]int{2, 4}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(tagged).To(Equal([]augment.TaggedCoord{
			{Component: augment.ComponentV, Row: 0, Col: 1},
			{Component: augment.ComponentU, Row: 1, Col: 0},
			{Component: augment.ComponentV, Row: 1, Col: 0},
			{Component: augment.ComponentU, Row: 0, Col: 1},
		}))

		u, v, err := augment.SplitSensors(coords, [2]int{2, 4}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(u).To(Equal([]augment.Coord{{1, 0}, {0, 1}}))
		Expect(v).To(Equal([]augment.Coord{{0, 1}, {1, 0}}))
	})

	It("returns an empty result for no coordinates", func() {
		out, err := augment.MapSensorToOriginal(nil, [2]int{2, 4}, augment.Horizontal)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
	})
})

var _ = Describe("Orientation", func() {
	DescribeTable("parses",
		func(in string, want augment.Orientation) {
			o, err := augment.ParseOrientation(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(o).To(Equal(want))
		},
		Entry("horizontal", "horizontal", augment.Horizontal),
		Entry("short vertical", "V", augment.Vertical),
		Entry("padded", "  vertical ", augment.Vertical),
	)

	It("rejects unknown names", func() {
		_, err := augment.ParseOrientation("diagonal")
		Expect(err).To(HaveOccurred())
	})

	It("round trips through text", func() {
		b, err := augment.Vertical.MarshalText()
		Expect(err).NotTo(HaveOccurred())
		var o augment.Orientation
		Expect(o.UnmarshalText(b)).To(Succeed())
		Expect(o).To(Equal(augment.Vertical))
	})

	It("parses coordinates", func() {
		c, err := augment.ParseCoord("2,7")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(augment.Coord{Row: 2, Col: 7}))
		_, err = augment.ParseCoord("x")
		Expect(err).To(HaveOccurred())
	})
})
