package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeaderFlagList(t *testing.T) {
	tests := []struct {
		flags HeaderFlag
		want  []string
	}{
		{None, []string{"None"}},
		{NoUndefs | DyldLink | TwoLevel | PIE, []string{"NoUndefs", "DyldLink", "TwoLevel", "PIE"}},
		{DylibInCache | 0x10000000, []string{"DylibInCache", "0x10000000"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.flags.List()); diff != "" {
			t.Errorf("HeaderFlag(%#x).List() mismatch (-want +got):\n%s", uint32(tt.flags), diff)
		}
	}
	if got := (NoUndefs | PIE).String(); got != "NoUndefs|PIE" {
		t.Errorf("String() = %q", got)
	}
}

func TestMagic(t *testing.T) {
	if !Magic64.Is64() || Magic32.Is64() {
		t.Error("Is64() mismatch")
	}
	if Magic64.HeaderSize() != 32 || Magic32.HeaderSize() != 28 {
		t.Errorf("HeaderSize() = %d/%d, want 28/32", Magic32.HeaderSize(), Magic64.HeaderSize())
	}
	if got := Magic(0x12345678).String(); got != "0x12345678" {
		t.Errorf("String() = %q", got)
	}
}

func TestCPUString(t *testing.T) {
	tests := []struct {
		cpu  CPU
		sub  CPUSubtype
		want string
		subs string
	}{
		{CPUArm64, CPUSubtypeArm64E, "AARCH64", "ARM64e (ARMv8.3)"},
		{CPUAmd64, CPUSubtypeX8664All | CpuSubtypeLib64, "Amd64", "x86_64"},
		{CPU(0x1234), 0, "Unknown(0x1234)", "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.cpu.String(); got != tt.want {
			t.Errorf("CPU(%#x).String() = %q, want %q", uint32(tt.cpu), got, tt.want)
		}
		if got := tt.sub.String(tt.cpu); got != tt.subs {
			t.Errorf("CPUSubtype(%#x).String(%v) = %q, want %q", uint32(tt.sub), tt.cpu, got, tt.subs)
		}
	}
	if !CPUArm64.Is64Bit() || CPUArm.Is64Bit() || CPUArm6432.Is64Bit() {
		t.Error("Is64Bit() mismatch")
	}
}

func TestHeaderFileType(t *testing.T) {
	if MH_BUNDLE.String() != "BUNDLE" {
		t.Errorf("MH_BUNDLE.String() = %q", MH_BUNDLE.String())
	}
	if HeaderFileType(0x42).Known() {
		t.Error("0x42 reported as a known file type")
	}
}

func TestVersions(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Version(0x050c6405).String(), "1292.100.5"},
		{Version(0x00010000).String(), "1.0.0"},
		{Version(0x000e0200).String(), "14.2.0"},
		{SrcVersion(1<<40 | 2<<30 | 3<<20 | 4<<10 | 5).String(), "1.2.3.4.5"},
		{SrcVersion(0).String(), "0.0.0.0.0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestUUIDString(t *testing.T) {
	u := UUID{0xde, 0xad, 0xbe, 0xef, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0xa, 0xb}
	if got := u.String(); got != "DEADBEEF-0001-0203-0405-060708090A0B" {
		t.Errorf("UUID.String() = %q", got)
	}
}

func TestPlatformAndTool(t *testing.T) {
	if PlatformIOSSimulator.String() != "iOS Simulator" {
		t.Errorf("Platform = %q", PlatformIOSSimulator.String())
	}
	if Platform(99).String() != "0x63" {
		t.Errorf("Platform(99) = %q", Platform(99).String())
	}
	if ToolSwift.String() != "swift" {
		t.Errorf("Tool = %q", ToolSwift.String())
	}
}

func TestSectionFlag(t *testing.T) {
	tests := []struct {
		flags    SectionFlag
		str      string
		attrs    string
		zerofill bool
	}{
		{S_REGULAR | S_ATTR_PURE_INSTRUCTIONS | S_ATTR_SOME_INSTRUCTIONS, "", "PureInstructions|SomeInstructions", false},
		{S_CSTRING_LITERALS, "Cstring Literals", "", false},
		{S_ZEROFILL, "Zerofill", "", true},
		{S_THREAD_LOCAL_ZEROFILL, "ThreadLocalZerofill", "", true},
		{S_REGULAR | S_ATTR_DEBUG, "", "Debug", false},
		{SectionFlag(0xfe), "Unknown(0xfe)", "", false},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.str {
			t.Errorf("SectionFlag(%#x).String() = %q, want %q", uint32(tt.flags), got, tt.str)
		}
		if got := tt.flags.AttributesString(); got != tt.attrs {
			t.Errorf("SectionFlag(%#x).AttributesString() = %q, want %q", uint32(tt.flags), got, tt.attrs)
		}
		if got := tt.flags.IsZerofill(); got != tt.zerofill {
			t.Errorf("SectionFlag(%#x).IsZerofill() = %v", uint32(tt.flags), got)
		}
	}
}

func TestNLTypeString(t *testing.T) {
	tests := []struct {
		typ  NLType
		sec  string
		want string
	}{
		{N_SECT | N_EXT, "__TEXT.__text", "external|__TEXT.__text"},
		{N_UNDF | N_EXT, "", "external|undefined"},
		{N_ABS, "", "absolute"},
		{N_SECT | N_PEXT, "__DATA.__data", "private_external|__DATA.__data"},
		{N_INDR | N_EXT, "", "external|indirect"},
		{0x24, "", "debug(0x24)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(tt.sec); got != tt.want {
			t.Errorf("NLType(%#x).String() = %q, want %q", uint8(tt.typ), got, tt.want)
		}
	}
}

func TestNDescType(t *testing.T) {
	d := NDescType(0x0240 | uint16(ARM_THUMB_DEF))
	if got := d.GetLibraryOrdinal(); got != 2 {
		t.Errorf("GetLibraryOrdinal() = %d, want 2", got)
	}
	if !d.IsWeakReferenced() || d.IsWeakDefinition() || !d.IsThumbDefinition() {
		t.Errorf("NDescType(%#x) predicates mismatch", uint16(d))
	}
	if got := NDescType(0xfe00).GetLibraryOrdinal(); got != DYNAMIC_LOOKUP_ORDINAL {
		t.Errorf("GetLibraryOrdinal() = %#x, want flat lookup", got)
	}
}

func TestSegFlag(t *testing.T) {
	if got := (NoReLoc | ReadOnly).String(); got != "NoReLoc|ReadOnly" {
		t.Errorf("SegFlag.String() = %q", got)
	}
	if got := SegFlag(0).String(); got != "" {
		t.Errorf("SegFlag(0).String() = %q", got)
	}
}

func TestLoadCmdString(t *testing.T) {
	if got := LC_SEGMENT_64.String(); got != "LC_SEGMENT_64" {
		t.Errorf("String() = %q", got)
	}
	if got := LC_MAIN.GoString(); got != "macho.LC_MAIN" {
		t.Errorf("GoString() = %q", got)
	}
}
