package macho

import (
	"bytes"
	"encoding/binary"
)

// cursor reads fixed-width values from an immutable buffer.
// Offsets are relative to buf; errors report base+off so a cursor bound
// to a command body still names absolute file positions.
type cursor struct {
	buf  []byte
	bo   binary.ByteOrder
	base int64
}

func (c cursor) check(off, n uint64) error {
	if off > uint64(len(c.buf)) || n > uint64(len(c.buf))-off {
		return formatErr(ErrOutOfBounds, c.base+int64(off), "read past end of data", n)
	}
	return nil
}

func (c cursor) Uint8(off uint64) (uint8, error) {
	if err := c.check(off, 1); err != nil {
		return 0, err
	}
	return c.buf[off], nil
}

func (c cursor) Uint16(off uint64) (uint16, error) {
	if err := c.check(off, 2); err != nil {
		return 0, err
	}
	return c.bo.Uint16(c.buf[off:]), nil
}

func (c cursor) Uint32(off uint64) (uint32, error) {
	if err := c.check(off, 4); err != nil {
		return 0, err
	}
	return c.bo.Uint32(c.buf[off:]), nil
}

func (c cursor) Uint64(off uint64) (uint64, error) {
	if err := c.check(off, 8); err != nil {
		return 0, err
	}
	return c.bo.Uint64(c.buf[off:]), nil
}

// Bytes returns a copy of [off, off+n).
func (c cursor) Bytes(off, n uint64) ([]byte, error) {
	if err := c.check(off, n); err != nil {
		return nil, err
	}
	return append([]byte(nil), c.buf[off:off+n]...), nil
}

// CString returns the NUL-terminated string starting at off. The terminator
// must appear before end (clamped to the buffer).
func (c cursor) CString(off, end uint64) (string, error) {
	if end > uint64(len(c.buf)) {
		end = uint64(len(c.buf))
	}
	if off >= end {
		return "", formatErr(ErrOutOfBounds, c.base+int64(off), "string offset past end of region", end)
	}
	i := bytes.IndexByte(c.buf[off:end], 0)
	if i < 0 {
		return "", formatErr(ErrOutOfBounds, c.base+int64(off), "unterminated string", nil)
	}
	return string(c.buf[off : off+uint64(i)]), nil
}

// sub returns a cursor over [off, off+n) that keeps reporting absolute offsets.
func (c cursor) sub(off, n uint64) (cursor, error) {
	if err := c.check(off, n); err != nil {
		return cursor{}, err
	}
	return cursor{buf: c.buf[off : off+n], bo: c.bo, base: c.base + int64(off)}, nil
}

func (c cursor) reader(off uint64) *fieldReader {
	return &fieldReader{c: c, off: off}
}

// fieldReader walks consecutive fields of a record. The first failure
// sticks; later reads return zero values and err keeps the original error.
type fieldReader struct {
	c   cursor
	off uint64
	err error
}

func (r *fieldReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint8(r.off)
	r.err = err
	r.off++
	return v
}

func (r *fieldReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint16(r.off)
	r.err = err
	r.off += 2
	return v
}

func (r *fieldReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint32(r.off)
	r.err = err
	r.off += 4
	return v
}

func (r *fieldReader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint64(r.off)
	r.err = err
	r.off += 8
	return v
}

// word reads an address-sized field.
func (r *fieldReader) word(is64 bool) uint64 {
	if is64 {
		return r.u64()
	}
	return uint64(r.u32())
}

// name reads a fixed-width name field.
func (r *fieldReader) name(n uint64) string {
	if r.err != nil {
		return ""
	}
	b, err := r.c.Bytes(r.off, n)
	r.err = err
	r.off += n
	return fixedString(b)
}

// fixedString trims a fixed-width name at its first NUL.
func fixedString(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		i = len(b)
	}
	return string(b[0:i])
}
