package macho

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/blacktop/go-dwarf"
)

func dwarfSuffix(s *Section) string {
	switch {
	case strings.HasPrefix(s.Name, "__debug_"):
		return s.Name[8:]
	case strings.HasPrefix(s.Name, "__zdebug_"):
		return s.Name[9:]
	case strings.HasPrefix(s.Name, "__apple_"):
		return s.Name[8:]
	default:
		return ""
	}
}

// dwarfData returns the section contents, inflating "ZLIB" compressed payloads.
func dwarfData(s *Section, buf []byte) ([]byte, error) {
	b, err := s.Data(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", s.Seg, s.Name, err)
	}
	if len(b) < 12 || string(b[:4]) != "ZLIB" {
		return b, nil
	}
	dlen := binary.BigEndian.Uint64(b[4:12])
	r, err := zlib.NewReader(bytes.NewReader(b[12:]))
	if err != nil {
		return nil, fmt.Errorf("failed to inflate %s.%s: %w", s.Seg, s.Name, err)
	}
	defer r.Close()
	// the declared length comes from the file, so let the stream bound it
	var out bytes.Buffer
	if _, err := io.CopyN(&out, r, int64(dlen)); err != nil {
		return nil, fmt.Errorf("failed to inflate %s.%s: %w", s.Seg, s.Name, err)
	}
	return out.Bytes(), nil
}

// DWARF returns the DWARF debug information for the Mach-O file.
// buf must be the buffer the File was parsed from.
func (f *File) DWARF(buf []byte) (*dwarf.Data, error) {
	// There are many other DWARF sections, but these
	// are the ones the dwarf package uses.
	// Don't bother loading others.
	var dat = map[string][]byte{"abbrev": nil, "info": nil, "str": nil, "line": nil, "ranges": nil}
	for _, s := range f.Sections {
		suffix := dwarfSuffix(s)
		if suffix == "" {
			continue
		}
		if _, ok := dat[suffix]; !ok {
			continue
		}
		b, err := dwarfData(s, buf)
		if err != nil {
			return nil, err
		}
		dat[suffix] = b
	}
	if dat["info"] == nil {
		return nil, &FormatError{off: noOffset, msg: "missing __debug_info section"}
	}

	d, err := dwarf.New(dat["abbrev"], nil, nil, dat["info"], dat["line"], nil, dat["ranges"], dat["str"])
	if err != nil {
		return nil, fmt.Errorf("failed to load DWARF: %w", err)
	}

	// Look for DWARF4 .debug_types sections.
	for i, s := range f.Sections {
		if dwarfSuffix(s) != "types" {
			continue
		}
		b, err := dwarfData(s, buf)
		if err != nil {
			return nil, err
		}
		if err := d.AddTypes(fmt.Sprintf("types-%d", i), b); err != nil {
			return nil, fmt.Errorf("failed to add DWARF types: %w", err)
		}
	}

	return d, nil
}
