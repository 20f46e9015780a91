package ordkey_test

import (
	"bytes"
	"math"

	"github.com/bsm/ordkey"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Integers", func() {
	appendInt := func(v int64, width int) []byte {
		b, err := ordkey.AppendInt(nil, v, width)
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	DescribeTable("should encode",
		func(v int64, width int, exp []byte) {
			Expect(appendInt(v, width)).To(Equal(exp))
		},
		Entry("int8 min", int64(math.MinInt8), 8, []byte{0x00}),
		Entry("int8 -1", int64(-1), 8, []byte{0x7f}),
		Entry("int8 0", int64(0), 8, []byte{0x80}),
		Entry("int8 max", int64(math.MaxInt8), 8, []byte{0xff}),
		Entry("int16 -2", int64(-2), 16, []byte{0x7f, 0xfe}),
		Entry("int16 256", int64(256), 16, []byte{0x81, 0x00}),
		Entry("int32 min", int64(math.MinInt32), 32, []byte{0x00, 0x00, 0x00, 0x00}),
		Entry("int32 -1", int64(-1), 32, []byte{0x7f, 0xff, 0xff, 0xff}),
		Entry("int32 0", int64(0), 32, []byte{0x80, 0x00, 0x00, 0x00}),
		Entry("int32 1", int64(1), 32, []byte{0x80, 0x00, 0x00, 0x01}),
		Entry("int32 max", int64(math.MaxInt32), 32, []byte{0xff, 0xff, 0xff, 0xff}),
		Entry("int64 min", int64(math.MinInt64), 64, []byte{0, 0, 0, 0, 0, 0, 0, 0}),
		Entry("int64 max", int64(math.MaxInt64), 64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}),
	)

	It("should round-trip boundaries", func() {
		for _, width := range []int{8, 16, 32, 64} {
			min := int64(-1) << uint(width-1)
			max := -(min + 1)
			for _, v := range []int64{min, min + 1, -1, 0, 1, max - 1, max} {
				enc := appendInt(v, width)
				Expect(enc).To(HaveLen(width / 8))

				dec, n, err := ordkey.DecodeInt(enc, width)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(width / 8))
				Expect(dec).To(Equal(v), "int%d %d", width, v)
			}
		}
	})

	It("should preserve order", func() {
		for _, width := range []int{8, 16, 32, 64} {
			min := int64(-1) << uint(width-1)
			max := -(min + 1)
			vals := []int64{min, min + 1, -2, -1, 0, 1, 2, max - 1, max}
			for i := 1; i < len(vals); i++ {
				Expect(bytes.Compare(appendInt(vals[i-1], width), appendInt(vals[i], width))).To(Equal(-1), "int%d %d < %d", width, vals[i-1], vals[i])
			}
		}
	})

	It("should append to existing buffers", func() {
		dst := []byte("x")
		dst, err := ordkey.AppendInt(dst, 1, 16)
		Expect(err).NotTo(HaveOccurred())
		Expect(dst).To(Equal([]byte{'x', 0x80, 0x01}))
	})

	It("should reject unsupported widths", func() {
		_, err := ordkey.AppendInt(nil, 1, 12)
		Expect(err).To(MatchError(ordkey.ErrUnsupportedWidth))
		_, _, err = ordkey.DecodeInt([]byte{1, 2}, 24)
		Expect(err).To(MatchError(ordkey.ErrUnsupportedWidth))
	})

	It("should reject overflows", func() {
		_, err := ordkey.AppendInt(nil, 128, 8)
		Expect(err).To(MatchError(ordkey.ErrSchemaViolation))
		_, err = ordkey.AppendInt(nil, math.MinInt32-1, 32)
		Expect(err).To(MatchError(ordkey.ErrSchemaViolation))
	})

	It("should fail on short buffers", func() {
		_, _, err := ordkey.DecodeInt([]byte{0x80, 0x00, 0x00}, 32)
		Expect(err).To(MatchError(ordkey.ErrFraming))
		_, _, err = ordkey.DecodeInt(nil, 8)
		Expect(err).To(MatchError(ordkey.ErrFraming))
	})
})

var _ = Describe("Floats", func() {
	appendFloat := func(v float64, width int) []byte {
		b, err := ordkey.AppendFloat(nil, v, width)
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	DescribeTable("should encode",
		func(v float64, width int, exp []byte) {
			Expect(appendFloat(v, width)).To(Equal(exp))
		},
		Entry("float32 -1", -1.0, 32, []byte{0x40, 0x80, 0x00, 0x00}),
		Entry("float32 0", 0.0, 32, []byte{0x80, 0x00, 0x00, 0x00}),
		Entry("float32 1", 1.0, 32, []byte{0xbf, 0x80, 0x00, 0x00}),
		Entry("float64 -1", -1.0, 64, []byte{0x40, 0x10, 0, 0, 0, 0, 0, 0}),
		Entry("float64 -0", math.Copysign(0, -1), 64, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}),
		Entry("float64 0", 0.0, 64, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}),
		Entry("float64 1", 1.0, 64, []byte{0xbf, 0xf0, 0, 0, 0, 0, 0, 0}),
	)

	It("should round-trip", func() {
		for _, width := range []int{32, 64} {
			for _, v := range specialFloats {
				if width == 32 {
					v = float64(float32(v))
				}

				enc := appendFloat(v, width)
				Expect(enc).To(HaveLen(width / 8))

				dec, n, err := ordkey.DecodeFloat(enc, width)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(width / 8))
				Expect(dec).To(Equal(v), "float%d %v", width, v)
			}
		}
	})

	It("should round-trip NaN", func() {
		for _, width := range []int{32, 64} {
			for _, v := range []float64{math.NaN(), math.Copysign(math.NaN(), -1)} {
				dec, _, err := ordkey.DecodeFloat(appendFloat(v, width), width)
				Expect(err).NotTo(HaveOccurred())
				Expect(math.IsNaN(dec)).To(BeTrue())
				Expect(math.Signbit(dec)).To(Equal(math.Signbit(v)))
			}
		}
	})

	It("should collapse negative zero", func() {
		for _, width := range []int{32, 64} {
			neg := appendFloat(math.Copysign(0, -1), width)
			Expect(neg).To(Equal(appendFloat(0, width)))

			dec, _, err := ordkey.DecodeFloat(neg, width)
			Expect(err).NotTo(HaveOccurred())
			Expect(dec).To(BeZero())
			Expect(math.Signbit(dec)).To(BeFalse())
		}
	})

	It("should preserve order", func() {
		for _, width := range []int{32, 64} {
			vals := []float64{math.Copysign(math.NaN(), -1), math.Inf(-1), -2, -1, -0.5, 0, 0.5, 1, 2, math.Inf(1), math.NaN()}
			for i := 1; i < len(vals); i++ {
				Expect(bytes.Compare(appendFloat(vals[i-1], width), appendFloat(vals[i], width))).To(Equal(-1), "float%d %v < %v", width, vals[i-1], vals[i])
			}

			// float64 only, these are zero or equal in float32
			if width == 64 {
				for i := 1; i < len(specialFloats); i++ {
					a, b := specialFloats[i-1], specialFloats[i]
					exp := -1
					if a == b {
						exp = 0
					}
					Expect(bytes.Compare(appendFloat(a, width), appendFloat(b, width))).To(Equal(exp), "%v < %v", a, b)
				}
			}
		}
	})

	DescribeTable("should reject values that do not fit float32",
		func(v float64) {
			dst := []byte{0x01}
			out, err := ordkey.AppendFloat(dst, v, 32)
			Expect(err).To(MatchError(ordkey.ErrSchemaViolation))
			Expect(out).To(Equal(dst))
		},
		Entry("overflow", 1e300),
		Entry("negative overflow", -1e300),
		Entry("precision", 0.1),
		Entry("underflow", 1e-300),
	)

	It("should accept exact float32 values", func() {
		for _, v := range []float64{float64(float32(0.1)), math.MaxFloat32, math.SmallestNonzeroFloat32, math.Inf(-1), math.NaN()} {
			_, err := ordkey.AppendFloat(nil, v, 32)
			Expect(err).NotTo(HaveOccurred(), "%v", v)
		}
	})

	It("should reject unsupported widths", func() {
		_, err := ordkey.AppendFloat(nil, 1, 16)
		Expect(err).To(MatchError(ordkey.ErrUnsupportedWidth))
		_, _, err = ordkey.DecodeFloat([]byte{1, 2}, 16)
		Expect(err).To(MatchError(ordkey.ErrUnsupportedWidth))
	})

	It("should fail on short buffers", func() {
		_, _, err := ordkey.DecodeFloat([]byte{0x80, 0x00, 0x00}, 64)
		Expect(err).To(MatchError(ordkey.ErrFraming))
	})
})

var _ = Describe("Bytes", func() {
	It("should encode", func() {
		Expect(ordkey.AppendBytes(nil, nil)).To(Equal([]byte{0x00}))
		Expect(ordkey.AppendBytes(nil, []byte("ab"))).To(Equal([]byte{'a', 'b', 0x00}))
		Expect(ordkey.AppendBytes(nil, []byte("日本"))).To(HaveLen(len("日本") + 1))
	})

	It("should round-trip", func() {
		for _, s := range []string{"", "a", "ab", "日本語", "\xff\xfe"} {
			enc := ordkey.AppendBytes([]byte("x"), []byte(s))
			dec, n, err := ordkey.DecodeBytes(enc[1:])
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(len(s) + 1))
			Expect(string(dec)).To(Equal(s))
		}
	})

	It("should stop at the first terminator", func() {
		dec, n, err := ordkey.DecodeBytes([]byte{'a', 0x00, 'b', 0x00})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(dec).To(Equal([]byte("a")))
	})

	It("should fail without terminator", func() {
		_, _, err := ordkey.DecodeBytes([]byte("abc"))
		Expect(err).To(MatchError(ordkey.ErrFraming))
	})
})
