package ordkey

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	signBit32 = uint32(1) << 31
	signBit64 = uint64(1) << 63

	terminator = 0x00
)

// AppendInt appends the order-preserving encoding of a signed integer of
// the given width in bits (8, 16, 32 or 64) to dst. The sign bit of the
// two's complement representation is flipped and the result is written
// big-endian in width/8 bytes.
func AppendInt(dst []byte, v int64, width int) ([]byte, error) {
	switch width {
	case 8, 16, 32, 64:
	default:
		return dst, wrapErr(ErrUnsupportedWidth, "int%d", width)
	}

	if width < 64 {
		lim := int64(1) << uint(width-1)
		if v < -lim || v >= lim {
			return dst, wrapErr(ErrSchemaViolation, "%d overflows int%d", v, width)
		}
	}

	sign := uint64(1) << uint(width-1)
	return appendUint(dst, uint64(v)^sign, width), nil
}

// DecodeInt decodes a signed integer of the given width from the front of
// src. It returns the value and the number of bytes consumed.
func DecodeInt(src []byte, width int) (int64, int, error) {
	switch width {
	case 8, 16, 32, 64:
	default:
		return 0, 0, wrapErr(ErrUnsupportedWidth, "int%d", width)
	}

	n := width / 8
	if len(src) < n {
		return 0, 0, wrapErr(ErrFraming, "int%d needs %d bytes, %d available", width, n, len(src))
	}

	sign := uint64(1) << uint(width-1)
	u := readUint(src, width) ^ sign

	// sign-extend
	shift := uint(64 - width)
	return int64(u<<shift) >> shift, n, nil
}

// AppendFloat appends the order-preserving encoding of an IEEE-754 float of
// the given width (32 or 64) to dst. For width 32, v must be exactly
// representable as a float32, NaNs excepted. Positive and negative zero
// encode identically.
func AppendFloat(dst []byte, v float64, width int) ([]byte, error) {
	switch width {
	case 32:
		if float64(float32(v)) != v && !math.IsNaN(v) {
			return dst, wrapErr(ErrSchemaViolation, "%v is not representable as float32", v)
		}
		r := int32(math.Float32bits(float32(v)))
		if r < 0 {
			r = math.MinInt32 - r
		}
		return appendUint(dst, uint64(uint32(r)^signBit32), 32), nil
	case 64:
		r := int64(math.Float64bits(v))
		if r < 0 {
			r = math.MinInt64 - r
		}
		return appendUint(dst, uint64(r)^signBit64, 64), nil
	}
	return dst, wrapErr(ErrUnsupportedWidth, "float%d", width)
}

// DecodeFloat decodes a float of the given width from the front of src. It
// returns the value and the number of bytes consumed. The shared encoding of
// positive and negative zero decodes to positive zero.
func DecodeFloat(src []byte, width int) (float64, int, error) {
	if width != 32 && width != 64 {
		return 0, 0, wrapErr(ErrUnsupportedWidth, "float%d", width)
	}

	n := width / 8
	if len(src) < n {
		return 0, 0, wrapErr(ErrFraming, "float%d needs %d bytes, %d available", width, n, len(src))
	}

	if width == 32 {
		r := int32(uint32(readUint(src, 32)) ^ signBit32)
		if r < 0 {
			r = math.MinInt32 - r
		}
		return float64(math.Float32frombits(uint32(r))), n, nil
	}

	r := int64(readUint(src, 64) ^ signBit64)
	if r < 0 {
		r = math.MinInt64 - r
	}
	return math.Float64frombits(uint64(r)), n, nil
}

// AppendBytes appends the raw payload followed by a zero terminator to dst.
// It does not check for embedded zero bytes, see Schema.Append for the
// validated path.
func AppendBytes(dst, v []byte) []byte {
	dst = append(dst, v...)
	return append(dst, terminator)
}

// DecodeBytes returns the payload in front of the first zero byte of src and
// the number of bytes consumed, including the terminator. The returned slice
// aliases src.
func DecodeBytes(src []byte) ([]byte, int, error) {
	pos := bytes.IndexByte(src, terminator)
	if pos < 0 {
		return nil, 0, wrapErr(ErrFraming, "missing terminator after %d bytes", len(src))
	}
	return src[:pos], pos + 1, nil
}

// --------------------------------------------------------------------

func appendUint(dst []byte, u uint64, width int) []byte {
	var tmp [8]byte
	switch width {
	case 8:
		return append(dst, byte(u))
	case 16:
		binary.BigEndian.PutUint16(tmp[:], uint16(u))
	case 32:
		binary.BigEndian.PutUint32(tmp[:], uint32(u))
	default:
		binary.BigEndian.PutUint64(tmp[:], u)
	}
	return append(dst, tmp[:width/8]...)
}

func readUint(src []byte, width int) uint64 {
	switch width {
	case 8:
		return uint64(src[0])
	case 16:
		return uint64(binary.BigEndian.Uint16(src))
	case 32:
		return uint64(binary.BigEndian.Uint32(src))
	}
	return binary.BigEndian.Uint64(src)
}

// complement inverts every byte of p in place.
func complement(p []byte) {
	for i := range p {
		p[i] = ^p[i]
	}
}
