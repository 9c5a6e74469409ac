package cmd

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	macho "github.com/appsworld/thinmacho"
	"github.com/appsworld/thinmacho/types"
	dwf "github.com/blacktop/go-dwarf"
	"github.com/google/go-cmp/cmp"
)

// dylibImage assembles a little endian arm64 MH_DYLIB from load commands.
func dylibImage(cmds ...[]byte) []byte {
	le := binary.LittleEndian
	var sz int
	for _, c := range cmds {
		sz += len(c)
	}
	buf := make([]byte, types.FileHeaderSize64, types.FileHeaderSize64+sz)
	le.PutUint32(buf[0:], uint32(types.Magic64))
	le.PutUint32(buf[4:], uint32(types.CPUArm64))
	le.PutUint32(buf[12:], uint32(types.MH_DYLIB))
	le.PutUint32(buf[16:], uint32(len(cmds)))
	le.PutUint32(buf[20:], uint32(sz))
	for _, c := range cmds {
		buf = append(buf, c...)
	}
	return buf
}

func dylibCmd(kind types.LoadCmd, name string, cur, compat uint32) []byte {
	n := (types.DylibCmdSize + len(name) + 1 + 7) &^ 7
	b := make([]byte, n)
	le := binary.LittleEndian
	le.PutUint32(b[0:], uint32(kind))
	le.PutUint32(b[4:], uint32(n))
	le.PutUint32(b[8:], types.DylibCmdSize)
	le.PutUint32(b[12:], 2)
	le.PutUint32(b[16:], cur)
	le.PutUint32(b[20:], compat)
	copy(b[types.DylibCmdSize:], name)
	return b
}

func TestSortSymbols(t *testing.T) {
	syms := []macho.Symbol{
		{Name: "_b", Value: 0x10},
		{Name: "_c", Value: 0x08},
		{Name: "_a", Value: 0x20},
	}
	names := func(s []macho.Symbol) []string {
		var out []string
		for _, sym := range s {
			out = append(out, sym.Name)
		}
		return out
	}
	tests := []struct {
		by   string
		want []string
	}{
		{"", []string{"_b", "_c", "_a"}},
		{"name", []string{"_a", "_b", "_c"}},
		{"addr", []string{"_c", "_b", "_a"}},
	}
	for _, tt := range tests {
		got := append([]macho.Symbol(nil), syms...)
		if err := sortSymbols(got, tt.by); err != nil {
			t.Fatalf("sortSymbols(%q) error = %v", tt.by, err)
		}
		if diff := cmp.Diff(tt.want, names(got)); diff != "" {
			t.Errorf("sortSymbols(%q) mismatch (-want +got):\n%s", tt.by, diff)
		}
	}
	if err := sortSymbols(syms, "size"); err == nil {
		t.Error("sortSymbols(size) succeeded")
	}
}

func TestSymbolSection(t *testing.T) {
	m := &macho.File{}
	m.Sections = []*macho.Section{{SectionHeader: macho.SectionHeader{Name: "__text", Seg: "__TEXT"}}}
	tests := []struct {
		sym  macho.Symbol
		want string
	}{
		{macho.Symbol{Type: types.N_SECT | types.N_EXT, Sect: 1}, "__TEXT.__text"},
		{macho.Symbol{Type: types.N_SECT, Sect: 2}, ""},
		{macho.Symbol{Type: types.N_UNDF | types.N_EXT}, ""},
	}
	for _, tt := range tests {
		if got := symbolSection(m, tt.sym); got != tt.want {
			t.Errorf("symbolSection(%+v) = %q, want %q", tt.sym, got, tt.want)
		}
	}
}

func TestNewFileInfoHeaderOnly(t *testing.T) {
	buf := make([]byte, types.FileHeaderSize64)
	binary.LittleEndian.PutUint32(buf[0:], uint32(types.Magic64))
	binary.LittleEndian.PutUint32(buf[4:], uint32(types.CPUAmd64))
	binary.LittleEndian.PutUint32(buf[8:], 3)
	binary.LittleEndian.PutUint32(buf[12:], uint32(types.MH_DYLIB))
	binary.LittleEndian.PutUint32(buf[24:], uint32(types.NoUndefs|types.DyldLink))

	m, err := macho.Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := &fileInfo{
		Path:   "libfoo.dylib",
		Magic:  "64-bit MachO",
		CPU:    "Amd64",
		SubCPU: "x86_64",
		Type:   "DYLIB",
		Flags:  []string{"NoUndefs", "DyldLink"},
	}
	if diff := cmp.Diff(want, newFileInfo("libfoo.dylib", m)); diff != "" {
		t.Errorf("newFileInfo() mismatch (-want +got):\n%s", diff)
	}
	if libs := libraries(m); len(libs) != 0 {
		t.Errorf("libraries() = %v, want none", libs)
	}
}

func TestLibraries(t *testing.T) {
	m, err := macho.Parse(dylibImage(
		dylibCmd(types.LC_ID_DYLIB, "@rpath/libfoo.dylib", 0x00010203, 0x00010000),
		dylibCmd(types.LC_LOAD_DYLIB, "/usr/lib/libSystem.B.dylib", 0x050c6405, 0x00010000),
		dylibCmd(types.LC_LOAD_WEAK_DYLIB, "/usr/lib/libz.1.dylib", 0x0001020c, 0x00010000),
	))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []libInfo{
		{Kind: "LC_ID_DYLIB", Name: "@rpath/libfoo.dylib", Current: "1.2.3", Compat: "1.0.0"},
		{Kind: "LC_LOAD_DYLIB", Name: "/usr/lib/libSystem.B.dylib", Current: "1292.100.5", Compat: "1.0.0"},
		{Kind: "LC_LOAD_WEAK_DYLIB", Name: "/usr/lib/libz.1.dylib", Current: "1.2.12", Compat: "1.0.0"},
	}
	if diff := cmp.Diff(want, libraries(m)); diff != "" {
		t.Errorf("libraries() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"liba.dylib", "libb.dylib", "libc.dylib"} {
		path := filepath.Join(dir, name)
		dat := dylibImage(dylibCmd(types.LC_ID_DYLIB, "@rpath/"+name, 0x00010000, 0x00010000))
		if err := os.WriteFile(path, dat, 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	// repeat a path so every slot is checked against its argument
	paths = append(paths, paths[0])

	files, err := openAll(paths)
	if err != nil {
		t.Fatalf("openAll() error = %v", err)
	}
	var got []string
	for _, m := range files {
		got = append(got, m.DylibID().Name)
	}
	want := []string{"@rpath/liba.dylib", "@rpath/libb.dylib", "@rpath/libc.dylib", "@rpath/liba.dylib"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("openAll() order mismatch (-want +got):\n%s", diff)
	}

	if _, err := openAll(append(paths, filepath.Join(dir, "missing.dylib"))); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("openAll() with a missing file error = %v, want fs.ErrNotExist", err)
	}
}

func TestCompileUnits(t *testing.T) {
	abbrev := []byte{
		0x01, 0x11, 0x01, // abbrev 1: DW_TAG_compile_unit, has children
		0x03, 0x08,       // DW_AT_name, DW_FORM_string
		0x25, 0x08,       // DW_AT_producer, DW_FORM_string
		0x13, 0x0b,       // DW_AT_language, DW_FORM_data1
		0x00, 0x00,
		0x02, 0x2e, 0x00, // abbrev 2: DW_TAG_subprogram, no children
		0x03, 0x08,       // DW_AT_name, DW_FORM_string
		0x00, 0x00,
		0x00,
	}
	unit := func(name string) []byte {
		die := []byte{0x01}
		die = append(die, name+"\x00clang\x00\x0c"...)
		die = append(die, 0x02)
		die = append(die, "main\x00"...)
		die = append(die, 0x00) // end of children
		b := binary.LittleEndian.AppendUint32(nil, uint32(7+len(die)))
		b = append(b, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08)
		return append(b, die...)
	}
	info := append(unit("a.c"), unit("b.c")...)

	d, err := dwf.New(abbrev, nil, nil, info, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("dwarf.New() error = %v", err)
	}
	cus, err := compileUnits(d)
	if err != nil {
		t.Fatalf("compileUnits() error = %v", err)
	}
	want := []compileUnit{
		{Name: "a.c", Producer: "clang", Lang: 0x0c},
		{Name: "b.c", Producer: "clang", Lang: 0x0c},
	}
	if diff := cmp.Diff(want, cus); diff != "" {
		t.Errorf("compileUnits() mismatch (-want +got):\n%s", diff)
	}
}
