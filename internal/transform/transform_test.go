package transform_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/transform"
)

func randomField(rng *rand.Rand, t, nx, ny int) *field.Field {
	f := field.New(t, nx, ny)
	for i := range f.Data {
		f.Data[i] = rng.NormFloat64()
	}
	return f
}

var _ = Describe("geometric transforms", func() {
	var sample *field.Field

	BeforeEach(func() {
		var err error
		sample, err = field.FromSlices([][][]float64{{
			{1, 2, 3},
			{4, 5, 6},
			{7, 8, 9},
			{10, 11, 12},
		}})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("ReflectY", func() {
		It("reverses the y axis of each slice", func() {
			Expect(transform.ReflectY(sample).ToSlices()).To(Equal([][][]float64{{
				{3, 2, 1},
				{6, 5, 4},
				{9, 8, 7},
				{12, 11, 10},
			}}))
		})

		It("is an involution for arbitrary shapes", func() {
			rng := rand.New(rand.NewSource(1))
			for _, s := range [][3]int{{1, 1, 1}, {3, 4, 5}, {2, 7, 1}, {0, 3, 3}} {
				f := randomField(rng, s[0], s[1], s[2])
				Expect(transform.ReflectY(transform.ReflectY(f)).Equal(f)).To(BeTrue(), "shape %v", s)
			}
		})

		It("leaves the input untouched", func() {
			before := sample.Clone()
			_ = transform.ReflectY(sample)
			Expect(sample.Equal(before)).To(BeTrue())
		})
	})

	Describe("Rotate90", func() {
		It("rotates counter-clockwise and transposes the spatial shape", func() {
			r := transform.Rotate90(sample)
			Expect(r.Shape()).To(Equal(field.Shape{T: 1, Nx: 3, Ny: 4}))
			Expect(r.ToSlices()).To(Equal([][][]float64{{
				{3, 6, 9, 12},
				{2, 5, 8, 11},
				{1, 4, 7, 10},
			}}))
		})

		It("has period four", func() {
			rng := rand.New(rand.NewSource(2))
			f := randomField(rng, 3, 5, 2)
			r := f
			for i := 0; i < 4; i++ {
				r = transform.Rotate90(r)
			}
			Expect(r.Equal(f)).To(BeTrue())
		})

		It("applied twice equals reflection about both axes", func() {
			rng := rand.New(rand.NewSource(3))
			f := randomField(rng, 2, 4, 6)
			twice := transform.Rotate90(transform.Rotate90(f))
			Expect(twice.Equal(transform.ReflectX(transform.ReflectY(f)))).To(BeTrue())
			Expect(transform.Rotate(f, 2).Equal(twice)).To(BeTrue())
		})

		It("supports negative quarter turns", func() {
			rng := rand.New(rand.NewSource(4))
			f := randomField(rng, 1, 3, 5)
			Expect(transform.Rotate(transform.Rotate(f, -1), 1).Equal(f)).To(BeTrue())
			Expect(transform.Rotate(f, 3).Equal(transform.Rotate(f, -1))).To(BeTrue())
		})
	})

	Describe("pair transforms", func() {
		It("apply to both components and keep scalars scalar", func() {
			p := &field.Pair{U: sample, V: transform.ReflectY(sample)}
			r := transform.ReflectPair(p)
			Expect(r.U.Equal(p.V)).To(BeTrue())
			Expect(r.V.Equal(p.U)).To(BeTrue())

			s := transform.RotatePair(&field.Pair{U: sample}, 1)
			Expect(s.Scalar()).To(BeTrue())
			Expect(s.Shape()).To(Equal(field.Shape{T: 1, Nx: 3, Ny: 4}))
		})
	})
})

var _ = Describe("complex encoding", func() {
	It("agrees between cartesian and polar forms", func() {
		rng := rand.New(rand.NewSource(5))
		u, v := randomField(rng, 2, 3, 4), randomField(rng, 2, 3, 4)

		c, err := transform.ToComplexCartesian(u, v)
		Expect(err).NotTo(HaveOccurred())
		p, err := transform.ToComplexPolar(u, v)
		Expect(err).NotTo(HaveOccurred())

		for i := range c.Data {
			Expect(real(p.Data[i])).To(BeNumerically("~", real(c.Data[i]), 1e-12))
			Expect(imag(p.Data[i])).To(BeNumerically("~", imag(c.Data[i]), 1e-12))
		}
	})

	It("recovers u and v losslessly from the cartesian form", func() {
		rng := rand.New(rand.NewSource(6))
		u, v := randomField(rng, 1, 4, 4), randomField(rng, 1, 4, 4)
		c, _ := transform.ToComplexCartesian(u, v)
		back := transform.FromComplex(c)
		Expect(back.U.Equal(u)).To(BeTrue())
		Expect(back.V.Equal(v)).To(BeTrue())
	})

	It("recovers magnitude and phase from the polar form", func() {
		u, v := field.New(1, 1, 2), field.New(1, 1, 2)
		u.Data = []float64{3, 0}
		v.Data = []float64{4, -2}
		p, _ := transform.ToComplexPolar(u, v)
		Expect(p.Abs().Data[0]).To(BeNumerically("~", 5, 1e-12))
		Expect(p.Phase().Data[1]).To(BeNumerically("~", -math.Pi/2, 1e-12))
	})

	It("rejects mismatched components", func() {
		_, err := transform.ToComplexCartesian(field.New(1, 2, 2), field.New(1, 2, 3))
		Expect(err).To(MatchError(field.ErrShapeMismatch))
		_, err = transform.ToComplexPolar(field.New(1, 2, 2), field.New(2, 2, 2))
		Expect(err).To(MatchError(field.ErrShapeMismatch))
	})
})
