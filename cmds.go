package macho

import (
	"fmt"
	"strings"

	"github.com/appsworld/thinmacho/types"
)

// A Load represents any Mach-O load command.
type Load interface {
	Raw() []byte
	String() string
	Command() types.LoadCmd
}

// LoadCmdBytes is a command-tagged sequence of bytes.
// This is used for Load Commands that are not (yet)
// interesting to us.
type LoadCmdBytes struct {
	types.LoadCmd
	LoadBytes
}

func (s LoadCmdBytes) String() string {
	return s.LoadCmd.String() + ": " + s.LoadBytes.String()
}

// A LoadBytes is the uninterpreted bytes of a Mach-O load command.
type LoadBytes []byte

func (b LoadBytes) String() string {
	s := "["
	for i, a := range b {
		if i > 0 {
			s += " "
			if len(b) > 48 && i >= 16 {
				s += fmt.Sprintf("... (%d bytes)", len(b))
				break
			}
		}
		s += fmt.Sprintf("%x", a)
	}
	s += "]"
	return s
}
func (b LoadBytes) Raw() []byte { return b }

/*******************************************************************************
 * SEGMENT
 *******************************************************************************/

// A SegmentHeader is the header for a Mach-O 32-bit or 64-bit load segment command.
type SegmentHeader struct {
	types.LoadCmd
	Len       uint32
	Name      string
	Addr      uint64
	Memsz     uint64
	Offset    uint64
	Filesz    uint64
	Maxprot   types.VmProtection
	Prot      types.VmProtection
	Nsect     uint32
	Flag      types.SegFlag
	Firstsect uint32
}

func (s *SegmentHeader) String() string {
	return fmt.Sprintf(
		"Seg %s, len=%#x, addr=%#x, memsz=%#x, offset=%#x, filesz=%#x, maxprot=%#x, prot=%#x, nsect=%d, flag=%#x, firstsect=%d",
		s.Name, s.Len, s.Addr, s.Memsz, s.Offset, s.Filesz, uint32(s.Maxprot), uint32(s.Prot), s.Nsect, uint32(s.Flag), s.Firstsect)
}

// A Segment represents a Mach-O 32-bit or 64-bit load segment command.
// Its sections are File.Sections[Firstsect : Firstsect+Nsect].
type Segment struct {
	SegmentHeader
	LoadBytes
}

func (s *Segment) String() string {
	return fmt.Sprintf("sz=0x%08x off=0x%08x-0x%08x addr=0x%09x-0x%09x %s/%s   %s%s%s",
		s.Filesz, s.Offset, s.Offset+s.Filesz, s.Addr, s.Addr+s.Memsz, s.Prot, s.Maxprot, s.Name, pad(20-len(s.Name)), s.Flag)
}

// Data returns a copy of the segment's file contents from buf, the buffer the
// File was parsed from.
func (s *Segment) Data(buf []byte) ([]byte, error) {
	return cursor{buf: buf}.Bytes(s.Offset, s.Filesz)
}

/*******************************************************************************
 * SECTION
 *******************************************************************************/

type SectionHeader struct {
	Name      string
	Seg       string
	Addr      uint64
	Size      uint64
	Offset    uint32
	Align     uint32
	Reloff    uint32
	Nreloc    uint32
	Flags     types.SectionFlag
	Reserved1 uint32
	Reserved2 uint32
	Reserved3 uint32 // only present if original was 64-bit
}

type Section struct {
	SectionHeader
}

// Data returns a copy of the section contents from buf, the buffer the File
// was parsed from. Zero fill sections have no file contents and return nil.
func (s *Section) Data(buf []byte) ([]byte, error) {
	if s.Flags.IsZerofill() {
		return nil, nil
	}
	return cursor{buf: buf}.Bytes(uint64(s.Offset), s.Size)
}

/*******************************************************************************
 * LC_SYMTAB
 *******************************************************************************/

// A Symtab represents a Mach-O LC_SYMTAB command.
type Symtab struct {
	LoadBytes
	types.SymtabCmd
	Syms []Symbol
}

func (s *Symtab) String() string {
	if s.Nsyms == 0 && s.Strsize == 0 {
		return "Symbols stripped"
	}
	return fmt.Sprintf("Symbol offset=0x%08X, Num Syms: %d, String offset=0x%08X-0x%08X", s.Symoff, s.Nsyms, s.Stroff, s.Stroff+s.Strsize)
}

// A Symbol is a Mach-O 32-bit or 64-bit symbol table entry.
type Symbol struct {
	Name  string
	Type  types.NLType
	Sect  uint8
	Desc  types.NDescType
	Value uint64
}

func (s Symbol) String(m *File) string {
	var sec string
	if s.Sect > 0 && int(s.Sect) <= len(m.Sections) {
		sec = fmt.Sprintf("%s.%s", m.Sections[s.Sect-1].Seg, m.Sections[s.Sect-1].Name)
	}
	return fmt.Sprintf("0x%016X \t <type:%s,desc:%#04x> \t %s", s.Value, s.Type.String(sec), uint16(s.Desc), s.Name)
}

/*******************************************************************************
 * LC_DYSYMTAB
 *******************************************************************************/

// A Dysymtab represents a Mach-O LC_DYSYMTAB command.
type Dysymtab struct {
	LoadBytes
	types.DysymtabCmd
}

func (d *Dysymtab) String() string {
	var tocStr, modStr, extSymStr, indirSymStr, extRelStr, locRelStr string
	if d.Ntoc == 0 {
		tocStr = "No"
	} else {
		tocStr = fmt.Sprintf("%d at 0x%08x", d.Ntoc, d.Tocoffset)
	}
	if d.Nmodtab == 0 {
		modStr = "No"
	} else {
		modStr = fmt.Sprintf("%d at 0x%08x", d.Nmodtab, d.Modtaboff)
	}
	if d.Nextrefsyms == 0 {
		extSymStr = "None"
	} else {
		extSymStr = fmt.Sprintf("%d at 0x%08x", d.Nextrefsyms, d.Extrefsymoff)
	}
	if d.Nindirectsyms == 0 {
		indirSymStr = "None"
	} else {
		indirSymStr = fmt.Sprintf("%d at 0x%08x", d.Nindirectsyms, d.Indirectsymoff)
	}
	if d.Nextrel == 0 {
		extRelStr = "None"
	} else {
		extRelStr = fmt.Sprintf("%d at 0x%08x", d.Nextrel, d.Extreloff)
	}
	if d.Nlocrel == 0 {
		locRelStr = "None"
	} else {
		locRelStr = fmt.Sprintf("%d at 0x%08x", d.Nlocrel, d.Locreloff)
	}
	return fmt.Sprintf(
		"\n"+
			"\t             Local Syms: %d at %d\n"+
			"\t          External Syms: %d at %d\n"+
			"\t         Undefined Syms: %d at %d\n"+
			"\t                    TOC: %s\n"+
			"\t                 Modtab: %s\n"+
			"\tExternal symtab Entries: %s\n"+
			"\tIndirect symtab Entries: %s\n"+
			"\t External Reloc Entries: %s\n"+
			"\t    Local Reloc Entries: %s",
		d.Nlocalsym, d.Ilocalsym,
		d.Nextdefsym, d.Iextdefsym,
		d.Nundefsym, d.Iundefsym,
		tocStr,
		modStr,
		extSymStr,
		indirSymStr,
		extRelStr,
		locRelStr)
}

/*******************************************************************************
 * LC_ID_DYLIB, LC_LOAD_{,WEAK_,UPWARD_}DYLIB, LC_REEXPORT_DYLIB, LC_LAZY_LOAD_DYLIB
 *******************************************************************************/

// A Dylib represents a Mach-O load dynamic library command.
type Dylib struct {
	LoadBytes
	types.DylibCmd
	Name           string
	Time           uint32
	CurrentVersion string
	CompatVersion  string
}

func (d *Dylib) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.CurrentVersion)
}

// A DylibID represents a Mach-O LC_ID_DYLIB command.
type DylibID Dylib

func (d *DylibID) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.CurrentVersion)
}

// A WeakDylib represents a Mach-O LC_LOAD_WEAK_DYLIB command.
type WeakDylib Dylib

func (d *WeakDylib) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.CurrentVersion)
}

// A ReExportDylib represents a Mach-O LC_REEXPORT_DYLIB command.
type ReExportDylib Dylib

func (d *ReExportDylib) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.CurrentVersion)
}

// A LazyLoadDylib represents a Mach-O LC_LAZY_LOAD_DYLIB command.
type LazyLoadDylib Dylib

func (d *LazyLoadDylib) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.CurrentVersion)
}

// A UpwardDylib represents a Mach-O LC_LOAD_UPWARD_DYLIB command.
type UpwardDylib Dylib

func (d *UpwardDylib) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.CurrentVersion)
}

/*******************************************************************************
 * LC_LOAD_DYLINKER, LC_ID_DYLINKER
 *******************************************************************************/

// A LoadDylinker represents a Mach-O LC_LOAD_DYLINKER command.
type LoadDylinker struct {
	LoadBytes
	types.DylinkerCmd
	Name string
}

func (d *LoadDylinker) String() string {
	return d.Name
}

// DylinkerID represents a Mach-O LC_ID_DYLINKER command.
type DylinkerID struct {
	LoadBytes
	types.DylinkerCmd
	Name string
}

func (d *DylinkerID) String() string {
	return d.Name
}

/*******************************************************************************
 * LC_UUID
 *******************************************************************************/

// UUID represents a Mach-O LC_UUID command.
type UUID struct {
	LoadBytes
	types.UUIDCmd
	ID string
}

func (s *UUID) String() string {
	return s.ID
}

/*******************************************************************************
 * LC_RPATH
 *******************************************************************************/

// A Rpath represents a Mach-O LC_RPATH command.
type Rpath struct {
	LoadBytes
	types.RpathCmd
	Path string
}

func (r *Rpath) String() string {
	return r.Path
}

/*******************************************************************************
 * LC_VERSION_MIN_{MACOSX,IPHONEOS,TVOS,WATCHOS}
 *******************************************************************************/

// VersionMin represents any of the Mach-O LC_VERSION_MIN_* commands.
type VersionMin struct {
	LoadBytes
	types.VersionMinCmd
	Version string
	Sdk     string
}

func (v *VersionMin) String() string {
	return fmt.Sprintf("Version=%s, SDK=%s", v.Version, v.Sdk)
}

/*******************************************************************************
 * LC_MAIN
 *******************************************************************************/

// EntryPoint represents a Mach-O LC_MAIN command.
type EntryPoint struct {
	LoadBytes
	types.EntryPointCmd
	EntryOffset uint64
	StackSize   uint64
}

func (e *EntryPoint) String() string {
	return fmt.Sprintf("Entry Point: 0x%016x, Stack Size: %#x", e.EntryOffset, e.StackSize)
}

/*******************************************************************************
 * LC_SOURCE_VERSION
 *******************************************************************************/

// A SourceVersion represents a Mach-O LC_SOURCE_VERSION command.
type SourceVersion struct {
	LoadBytes
	types.SourceVersionCmd
	Version string
}

func (s *SourceVersion) String() string {
	return s.Version
}

/*******************************************************************************
 * LC_BUILD_VERSION
 *******************************************************************************/

// A BuildVersion represents a Mach-O build for platform min OS version.
type BuildVersion struct {
	LoadBytes
	types.BuildVersionCmd
	Platform string /* platform */
	Minos    string /* X.Y.Z is encoded in nibbles xxxx.yy.zz */
	Sdk      string /* X.Y.Z is encoded in nibbles xxxx.yy.zz */
	Tools    []types.BuildToolVersion
}

func (b *BuildVersion) String() string {
	if len(b.Tools) == 0 {
		return fmt.Sprintf("Platform: %s, MinOS: %s, SDK: %s", b.Platform, b.Minos, b.Sdk)
	}
	var tools []string
	for _, t := range b.Tools {
		tools = append(tools, fmt.Sprintf("%s (%s)", t.Tool, t.Version))
	}
	return fmt.Sprintf("Platform: %s, MinOS: %s, SDK: %s, Tools: %s", b.Platform, b.Minos, b.Sdk, strings.Join(tools, ", "))
}
