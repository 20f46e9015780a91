package ordkey

import "bytes"

const (
	nullMarker    = 0x00
	presentMarker = 0x01
)

// Encode returns the encoded key of t.
func (s *Schema) Encode(t Tuple) ([]byte, error) {
	return s.Append(nil, t)
}

// Append appends the encoded key of t to dst and returns the extended
// buffer. On error, dst is returned unchanged.
func (s *Schema) Append(dst []byte, t Tuple) ([]byte, error) {
	if err := s.checkArity(t, false); err != nil {
		return dst, err
	}
	return s.appendColumns(dst, t)
}

// EncodePrefix encodes the leading len(t) columns of a key. The result is
// a byte prefix of every key whose leading columns equal t and can be used
// as a seek position or, together with PrefixEnd, as a scan range.
func (s *Schema) EncodePrefix(t Tuple) ([]byte, error) {
	if err := s.checkArity(t, true); err != nil {
		return nil, err
	}
	return s.appendColumns(nil, t)
}

func (s *Schema) appendColumns(dst []byte, t Tuple) ([]byte, error) {
	orig := len(dst)
	for i, v := range t {
		if err := s.checkValue(i, v); err != nil {
			return dst[:orig], err
		}

		var err error
		if dst, err = s.appendColumn(dst, i, v); err != nil {
			return dst[:orig], err
		}
	}
	return dst, nil
}

func (s *Schema) appendColumn(dst []byte, i int, v Value) ([]byte, error) {
	c := s.cols[i]
	start := len(dst)

	if c.Nullable {
		if v.null {
			dst = append(dst, nullMarker)
			if c.Direction == Descending {
				complement(dst[start:])
			}
			return dst, nil
		}
		dst = append(dst, presentMarker)
	}

	var err error
	switch {
	case c.Type.IsInteger():
		dst, err = AppendInt(dst, v.i, c.Type.Width())
	case c.Type.IsFloat():
		dst, err = AppendFloat(dst, v.f, c.Type.Width())
	default:
		dst = AppendBytes(dst, v.b)
	}
	if err != nil {
		return dst[:start], err
	}

	if c.Direction == Descending {
		complement(dst[start:])
	}
	return dst, nil
}

// --------------------------------------------------------------------

// Decode decodes a key produced by Encode. It fails with ErrFraming if the
// key is truncated, a terminator is missing or bytes remain after the last
// column. No partial tuple is returned on error.
func (s *Schema) Decode(key []byte) (Tuple, error) {
	t := make(Tuple, 0, len(s.cols))
	pos := 0
	for i := range s.cols {
		n, err := s.span(key[pos:], i)
		if err != nil {
			return nil, err
		}

		v, err := s.decodeColumn(key[pos:pos+n], i)
		if err != nil {
			return nil, err
		}
		t = append(t, v)
		pos += n
	}

	if pos != len(key) {
		return nil, wrapErr(ErrFraming, "%d trailing bytes", len(key)-pos)
	}
	return t, nil
}

// Split splits a key into per-column byte spans, exactly as stored (i.e.
// still complemented for descending columns). The spans alias key.
func (s *Schema) Split(key []byte) ([][]byte, error) {
	spans := make([][]byte, 0, len(s.cols))
	pos := 0
	for i := range s.cols {
		n, err := s.span(key[pos:], i)
		if err != nil {
			return nil, err
		}
		spans = append(spans, key[pos:pos+n:pos+n])
		pos += n
	}

	if pos != len(key) {
		return nil, wrapErr(ErrFraming, "%d trailing bytes", len(key)-pos)
	}
	return spans, nil
}

// span returns the length of column i at the front of src.
func (s *Schema) span(src []byte, i int) (int, error) {
	c := s.cols[i]
	desc := c.Direction == Descending

	n := 0
	if c.Nullable {
		if len(src) == 0 {
			return 0, wrapErr(ErrFraming, "column %d: missing null marker", i)
		}

		m := src[0]
		if desc {
			m = ^m
		}
		switch m {
		case nullMarker:
			return 1, nil
		case presentMarker:
			n = 1
		default:
			return 0, wrapErr(ErrFraming, "column %d: bad null marker 0x%02x", i, m)
		}
	}

	if w := c.Type.Width(); w != 0 {
		if len(src)-n < w/8 {
			return 0, wrapErr(ErrFraming, "column %d: %s needs %d bytes, %d available", i, c.Type, w/8, len(src)-n)
		}
		return n + w/8, nil
	}

	if s.allowsZeroPayload(i) {
		if len(src) == n || src[len(src)-1] != terminator {
			return 0, wrapErr(ErrFraming, "column %d: missing terminator", i)
		}
		return len(src), nil
	}

	term := byte(terminator)
	if desc {
		term = ^term
	}
	pos := bytes.IndexByte(src[n:], term)
	if pos < 0 {
		return 0, wrapErr(ErrFraming, "column %d: missing terminator", i)
	}
	return n + pos + 1, nil
}

// decodeColumn decodes an exact column span.
func (s *Schema) decodeColumn(span []byte, i int) (Value, error) {
	c := s.cols[i]

	buf := append([]byte(nil), span...)
	if c.Direction == Descending {
		complement(buf)
	}

	if c.Nullable {
		if buf[0] == nullMarker {
			return Null(c.Type), nil
		}
		buf = buf[1:]
	}

	switch {
	case c.Type.IsInteger():
		v, _, err := DecodeInt(buf, c.Type.Width())
		if err != nil {
			return Value{}, err
		}
		return Value{typ: c.Type, i: v}, nil
	case c.Type.IsFloat():
		v, _, err := DecodeFloat(buf, c.Type.Width())
		if err != nil {
			return Value{}, err
		}
		return Value{typ: c.Type, f: v}, nil
	}

	// the span always ends with the terminator
	return Value{typ: c.Type, b: buf[:len(buf)-1 : len(buf)-1]}, nil
}

// --------------------------------------------------------------------

// PrefixEnd returns the smallest key that is greater than every key with
// the given prefix, or nil if no such key exists (i.e. the prefix consists
// of 0xff bytes only).
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
