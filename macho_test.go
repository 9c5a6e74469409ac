package macho

import (
	"encoding/binary"
	"testing"

	"github.com/appsworld/thinmacho/types"
)

// enc appends fixed-width fields in one byte order.
type enc struct {
	bo binary.ByteOrder
	b  []byte
}

func (e *enc) u8(v uint8) *enc { e.b = append(e.b, v); return e }

func (e *enc) u16(v uint16) *enc {
	var b [2]byte
	e.bo.PutUint16(b[:], v)
	e.b = append(e.b, b[:]...)
	return e
}

func (e *enc) u32(v uint32) *enc {
	var b [4]byte
	e.bo.PutUint32(b[:], v)
	e.b = append(e.b, b[:]...)
	return e
}

func (e *enc) u64(v uint64) *enc {
	var b [8]byte
	e.bo.PutUint64(b[:], v)
	e.b = append(e.b, b[:]...)
	return e
}

func (e *enc) word(is64 bool, v uint64) *enc {
	if is64 {
		return e.u64(v)
	}
	return e.u32(uint32(v))
}

// name writes a 16 byte NUL padded name.
func (e *enc) name(s string) *enc {
	var n [16]byte
	copy(n[:], s)
	e.b = append(e.b, n[:]...)
	return e
}

func (e *enc) raw(b []byte) *enc { e.b = append(e.b, b...); return e }

// align pads with zeros to a multiple of n.
func (e *enc) align(n int) *enc {
	for len(e.b)%n != 0 {
		e.b = append(e.b, 0)
	}
	return e
}

// cmd wraps body in a load command prefix whose size covers the whole record.
func cmd(bo binary.ByteOrder, kind types.LoadCmd, body []byte) []byte {
	e := &enc{bo: bo}
	e.u32(uint32(kind)).u32(uint32(8 + len(body))).raw(body)
	return e.b
}

type testSection struct {
	name, seg string
	addr      uint64
	size      uint64
	offset    uint32
	flags     types.SectionFlag
}

type testSegment struct {
	name           string
	addr, memsz    uint64
	offset, filesz uint64
	sects          []testSection
}

func segmentCmd(bo binary.ByteOrder, is64 bool, s testSegment) []byte {
	kind := types.LC_SEGMENT
	if is64 {
		kind = types.LC_SEGMENT_64
	}
	e := &enc{bo: bo}
	e.name(s.name)
	e.word(is64, s.addr).word(is64, s.memsz).word(is64, s.offset).word(is64, s.filesz)
	e.u32(7).u32(5).u32(uint32(len(s.sects))).u32(0)
	for _, sc := range s.sects {
		e.name(sc.name).name(sc.seg)
		e.word(is64, sc.addr).word(is64, sc.size)
		e.u32(sc.offset).u32(4).u32(0).u32(0).u32(uint32(sc.flags)).u32(0).u32(0)
		if is64 {
			e.u32(0)
		}
	}
	return cmd(bo, kind, e.b)
}

func symtabCmd(bo binary.ByteOrder, symoff, nsyms, stroff, strsize uint32) []byte {
	e := &enc{bo: bo}
	e.u32(symoff).u32(nsyms).u32(stroff).u32(strsize)
	return cmd(bo, types.LC_SYMTAB, e.b)
}

func dysymtabCmd(bo binary.ByteOrder, ilocal, nlocal, iext, next, iundef, nundef uint32) []byte {
	e := &enc{bo: bo}
	e.u32(ilocal).u32(nlocal).u32(iext).u32(next).u32(iundef).u32(nundef)
	for i := 0; i < 12; i++ {
		e.u32(0)
	}
	return cmd(bo, types.LC_DYSYMTAB, e.b)
}

func dylibCmd(bo binary.ByteOrder, kind types.LoadCmd, name string, cur, compat uint32) []byte {
	e := &enc{bo: bo}
	e.u32(24).u32(2).u32(cur).u32(compat)
	e.raw([]byte(name)).u8(0).align(8)
	return cmd(bo, kind, e.b)
}

func rpathCmd(bo binary.ByteOrder, path string) []byte {
	e := &enc{bo: bo}
	e.u32(12).raw([]byte(path)).u8(0)
	for (len(e.b)+8)%8 != 0 {
		e.u8(0)
	}
	return cmd(bo, types.LC_RPATH, e.b)
}

func uuidCmd(bo binary.ByteOrder, id [16]byte) []byte {
	return cmd(bo, types.LC_UUID, id[:])
}

// nlist encodes one symbol table entry.
func nlist(e *enc, is64 bool, strx uint32, typ types.NLType, sect uint8, desc uint16, value uint64) {
	e.u32(strx).u8(uint8(typ)).u8(sect).u16(desc).word(is64, value)
}

// image lays out a thin Mach-O file: header, load commands, then data.
// mk receives the file offset of the data area and must return the same
// sizes on every call.
type image struct {
	bo    binary.ByteOrder
	is64  bool
	cpu   types.CPU
	typ   types.HeaderFileType
	flags types.HeaderFlag
	mk    func(base uint32) (cmds [][]byte, data []byte)

	// overrides for malformed headers
	ncmd  *uint32
	cmdsz *uint32
	trail []byte
}

func (im image) build() (buf []byte, base uint32) {
	hdrsz := uint32(types.FileHeaderSize32)
	if im.is64 {
		hdrsz = types.FileHeaderSize64
	}
	var cmds [][]byte
	var data []byte
	if im.mk != nil {
		cmds, _ = im.mk(0)
	}
	var sz uint32
	for _, c := range cmds {
		sz += uint32(len(c))
	}
	base = hdrsz + sz
	if im.mk != nil {
		cmds, data = im.mk(base)
	}

	ncmd, cmdsz := uint32(len(cmds)), sz
	if im.ncmd != nil {
		ncmd = *im.ncmd
	}
	if im.cmdsz != nil {
		cmdsz = *im.cmdsz
	}
	magic := types.Magic32
	if im.is64 {
		magic = types.Magic64
	}
	cpu := im.cpu
	if cpu == 0 {
		cpu = types.CPUArm64
	}
	e := &enc{bo: im.bo}
	e.u32(uint32(magic)).u32(uint32(cpu)).u32(0).u32(uint32(im.typ)).u32(ncmd).u32(cmdsz).u32(uint32(im.flags))
	if im.is64 {
		e.u32(0)
	}
	for _, c := range cmds {
		e.raw(c)
	}
	e.raw(im.trail)
	e.raw(data)
	return e.b, base
}

func u32p(v uint32) *uint32 { return &v }

func TestLayoutFor(t *testing.T) {
	if got := layoutFor(types.Magic64); got != layout64 {
		t.Errorf("layoutFor(Magic64) = %+v, want %+v", got, layout64)
	}
	if got := layoutFor(types.Magic32); got != layout32 {
		t.Errorf("layoutFor(Magic32) = %+v, want %+v", got, layout32)
	}
	if got := segmentLayout(types.LC_SEGMENT_64).section; got != 80 {
		t.Errorf("64-bit section size = %d, want 80", got)
	}
	if got := segmentLayout(types.LC_SEGMENT).segment; got != 56 {
		t.Errorf("32-bit segment size = %d, want 56", got)
	}
}

func TestBuilderSizes(t *testing.T) {
	bo := binary.LittleEndian
	tests := []struct {
		name string
		b    []byte
		want int
	}{
		{"segment32", segmentCmd(bo, false, testSegment{name: "__TEXT", sects: []testSection{{name: "__text", seg: "__TEXT"}}}), 56 + 68},
		{"segment64", segmentCmd(bo, true, testSegment{name: "__TEXT", sects: []testSection{{name: "__text", seg: "__TEXT"}}}), 72 + 80},
		{"symtab", symtabCmd(bo, 0, 0, 0, 0), 24},
		{"dysymtab", dysymtabCmd(bo, 0, 0, 0, 0, 0, 0), 80},
		{"uuid", uuidCmd(bo, [16]byte{}), 24},
	}
	for _, tt := range tests {
		if len(tt.b) != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, len(tt.b), tt.want)
		}
	}
}
