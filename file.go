package macho

// High level access to low level data structures.

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/appsworld/thinmacho/types"
)

// A File represents a parsed Mach-O file. It holds copies of everything it
// decoded and never references the buffer it was parsed from.
type File struct {
	FileTOC

	Symtab   *Symtab
	Dysymtab *Dysymtab
}

type FileTOC struct {
	types.FileHeader
	ByteOrder binary.ByteOrder
	Loads     []Load
	Sections  []*Section
}

func (t *FileTOC) String() string {
	return t.FileHeader.String() + t.LoadsString()
}

func pad(length int) string {
	if length > 0 {
		return strings.Repeat(" ", length)
	}
	return " "
}

// LoadsString returns a string representation of all the MachO's load commands
func (t *FileTOC) LoadsString() string {
	var loadsStr string
	for i, l := range t.Loads {
		if s, ok := l.(*Segment); ok {
			loadsStr += fmt.Sprintf("%03d: %s%s%s\n", i, s.Command(), pad(16-len(s.Command().String())), s)
			for j := uint32(0); j < s.Nsect; j++ {
				c := t.Sections[j+s.Firstsect]
				secFlags := ""
				if c.Flags.Type() != types.S_REGULAR {
					secFlags = fmt.Sprintf("(%s)", c.Flags)
				}
				loadsStr += fmt.Sprintf("\tsz=0x%08x off=0x%08x-0x%08x addr=0x%09x-0x%09x\t\t%s.%s%s%s %s\n",
					c.Size, c.Offset, uint64(c.Offset)+c.Size, c.Addr, c.Addr+c.Size, c.Seg, c.Name,
					pad(32-(len(c.Seg)+len(c.Name)+1)), c.Flags.AttributesString(), secFlags)
			}
			continue
		}
		loadsStr += fmt.Sprintf("%03d: %s%s%v\n", i, l.Command(), pad(28-len(l.Command().String())), l)
	}
	return loadsStr
}

// Open reads the named file into memory and parses it with Parse.
func Open(name string) (*File, error) {
	dat, err := os.ReadFile(name)
	if err != nil {
		return nil, &FormatError{off: noOffset, msg: "failed to read file", val: name, err: err}
	}
	return Parse(dat)
}

// NewFile is an alias for Parse.
func NewFile(buf []byte) (*File, error) {
	return Parse(buf)
}

// Parse decodes the thin Mach-O image held in buf. On failure it returns a
// *FormatError and no File. The returned File does not alias buf.
func Parse(buf []byte) (*File, error) {
	bo, magic, err := detectMagic(buf)
	if err != nil {
		return nil, err
	}
	c := cursor{buf: buf, bo: bo}

	hdr, err := readHeader(c, magic)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		c:    c,
		lay:  layoutFor(magic),
		file: &File{FileTOC: FileTOC{FileHeader: hdr, ByteOrder: bo}},
	}
	if err := d.loads(); err != nil {
		return nil, err
	}
	return d.file, nil
}

// detectMagic reads the magic number to determine byte order and width.
// Magic32 and Magic64 differ only in the bottom bit.
func detectMagic(buf []byte) (binary.ByteOrder, types.Magic, error) {
	if len(buf) < 4 {
		return nil, 0, formatErr(ErrOutOfBounds, 0, "file too small for magic number", len(buf))
	}
	be := binary.BigEndian.Uint32(buf[0:])
	le := binary.LittleEndian.Uint32(buf[0:])
	switch types.Magic32.Int() &^ 1 {
	case be &^ 1:
		return binary.BigEndian, types.Magic(be), nil
	case le &^ 1:
		return binary.LittleEndian, types.Magic(le), nil
	}
	switch types.MagicFat.Int() &^ 1 {
	case be &^ 1, le &^ 1:
		return nil, 0, formatErr(ErrUnsupportedFormat, 0, "universal (fat) files are not supported", fmt.Sprintf("%#x", be))
	}
	return nil, 0, formatErr(ErrInvalidMagic, 0, "invalid magic number", fmt.Sprintf("%#x", be))
}

// readHeader decodes the file header. Unknown cpu and file type codes are kept as is.
func readHeader(c cursor, magic types.Magic) (types.FileHeader, error) {
	r := c.reader(4)
	h := types.FileHeader{Magic: magic}
	h.CPU = types.CPU(r.u32())
	h.SubCPU = types.CPUSubtype(r.u32())
	h.Type = types.HeaderFileType(r.u32())
	h.NCommands = r.u32()
	h.SizeCommands = r.u32()
	h.Flags = types.HeaderFlag(r.u32())
	if magic.Is64() {
		h.Reserved = r.u32()
	}
	if r.err != nil {
		return types.FileHeader{}, r.err
	}
	return h, nil
}

// decoder carries the state of a single Parse call.
type decoder struct {
	c    cursor
	lay  layout
	file *File

	dysymOff uint64 // offset of the LC_DYSYMTAB command, if any
}

func (d *decoder) is64() bool { return d.lay == layout64 }

// loads walks the load command region [header end, header end+cmdsz).
func (d *decoder) loads() error {
	f := d.file
	start := d.lay.header
	end := start + uint64(f.SizeCommands)
	if end > uint64(len(d.c.buf)) {
		return formatErr(ErrOutOfBounds, int64(start), "load commands run past end of file", f.SizeCommands)
	}
	// every command needs at least its 8 byte prefix
	if uint64(f.NCommands)*types.LoadCmdPrefixSize > uint64(f.SizeCommands) {
		return formatErr(ErrInvalidCommandSize, int64(start), "too many load commands for command region", f.NCommands)
	}

	f.Loads = make([]Load, 0, f.NCommands)
	pos := start
	for i := uint32(0); i < f.NCommands; i++ {
		if end-pos < types.LoadCmdPrefixSize {
			return formatErr(ErrInvalidCommandSize, int64(pos), "load command prefix past end of command region", end-pos)
		}
		r := d.c.reader(pos)
		cmd, siz := r.u32(), r.u32()
		if r.err != nil {
			return r.err
		}
		if siz < types.LoadCmdPrefixSize || uint64(siz) > end-pos {
			return formatErr(ErrInvalidCommandSize, int64(pos), "invalid command block size", siz)
		}
		l, err := d.load(types.LoadCmd(cmd), pos, siz)
		if err != nil {
			return err
		}
		f.Loads = append(f.Loads, l)
		pos += uint64(siz)
	}
	if pos != end {
		return formatErr(ErrCommandSizeMismatch, int64(pos), "load command sizes do not add up to header size", end-pos)
	}

	if f.Dysymtab != nil && f.Symtab != nil {
		return d.checkDysymtab()
	}
	return nil
}

// minCmdSize is the fixed record size of each decoded command; anything
// variable length (names, sections, tools) follows it.
var minCmdSize = map[types.LoadCmd]uint32{
	types.LC_SEGMENT:              types.Segment32Size,
	types.LC_SEGMENT_64:           types.Segment64Size,
	types.LC_SYMTAB:               types.SymtabCmdSize,
	types.LC_DYSYMTAB:             types.DysymtabCmdSize,
	types.LC_LOAD_DYLIB:           types.DylibCmdSize,
	types.LC_ID_DYLIB:             types.DylibCmdSize,
	types.LC_LOAD_WEAK_DYLIB:      types.DylibCmdSize,
	types.LC_REEXPORT_DYLIB:       types.DylibCmdSize,
	types.LC_LAZY_LOAD_DYLIB:      types.DylibCmdSize,
	types.LC_LOAD_UPWARD_DYLIB:    types.DylibCmdSize,
	types.LC_RPATH:                types.RpathCmdSize,
	types.LC_UUID:                 types.UUIDCmdSize,
	types.LC_LOAD_DYLINKER:        types.DylinkerCmdSize,
	types.LC_ID_DYLINKER:          types.DylinkerCmdSize,
	types.LC_SOURCE_VERSION:       types.SourceVersionSize,
	types.LC_MAIN:                 types.EntryPointCmdSize,
	types.LC_BUILD_VERSION:        types.BuildVersionSize,
	types.LC_VERSION_MIN_MACOSX:   types.VersionMinCmdSize,
	types.LC_VERSION_MIN_IPHONEOS: types.VersionMinCmdSize,
	types.LC_VERSION_MIN_TVOS:     types.VersionMinCmdSize,
	types.LC_VERSION_MIN_WATCHOS:  types.VersionMinCmdSize,
}

// load decodes the command [pos, pos+siz).
func (d *decoder) load(cmd types.LoadCmd, pos uint64, siz uint32) (Load, error) {
	body, err := d.c.sub(pos, uint64(siz))
	if err != nil {
		return nil, err
	}
	if want, ok := minCmdSize[cmd]; ok && siz < want {
		return nil, formatErr(ErrInvalidCommandSize, int64(pos), cmd.String()+" command too small", siz)
	}
	raw := LoadBytes(append([]byte(nil), body.buf...))

	switch cmd {
	case types.LC_SEGMENT, types.LC_SEGMENT_64:
		return d.segment(cmd, body, raw)
	case types.LC_SYMTAB:
		st, err := d.symtab(body, raw)
		if err != nil {
			return nil, err
		}
		d.file.Symtab = st
		return st, nil
	case types.LC_DYSYMTAB:
		dt, err := d.dysymtab(body, raw)
		if err != nil {
			return nil, err
		}
		d.file.Dysymtab = dt
		d.dysymOff = pos
		return dt, nil
	case types.LC_LOAD_DYLIB, types.LC_ID_DYLIB, types.LC_LOAD_WEAK_DYLIB, types.LC_REEXPORT_DYLIB,
		types.LC_LAZY_LOAD_DYLIB, types.LC_LOAD_UPWARD_DYLIB:
		return d.dylib(cmd, body, raw)
	case types.LC_RPATH:
		r := body.reader(4)
		l := &Rpath{LoadBytes: raw}
		l.LoadCmd = cmd
		l.Len = r.u32()
		l.RpathCmd.Path = r.u32()
		if r.err != nil {
			return nil, r.err
		}
		if l.Path, err = body.CString(uint64(l.RpathCmd.Path), uint64(siz)); err != nil {
			return nil, err
		}
		return l, nil
	case types.LC_UUID:
		r := body.reader(4)
		l := &UUID{LoadBytes: raw}
		l.LoadCmd = cmd
		l.Len = r.u32()
		if r.err != nil {
			return nil, r.err
		}
		b, err := body.Bytes(types.LoadCmdPrefixSize, types.UUIDCmdSize-types.LoadCmdPrefixSize)
		if err != nil {
			return nil, err
		}
		copy(l.UUIDCmd.UUID[:], b)
		l.ID = l.UUIDCmd.UUID.String()
		return l, nil
	case types.LC_LOAD_DYLINKER, types.LC_ID_DYLINKER:
		r := body.reader(4)
		var hdr types.DylinkerCmd
		hdr.LoadCmd = cmd
		hdr.Len = r.u32()
		hdr.Name = r.u32()
		if r.err != nil {
			return nil, r.err
		}
		name, err := body.CString(uint64(hdr.Name), uint64(siz))
		if err != nil {
			return nil, err
		}
		if cmd == types.LC_ID_DYLINKER {
			return &DylinkerID{LoadBytes: raw, DylinkerCmd: hdr, Name: name}, nil
		}
		return &LoadDylinker{LoadBytes: raw, DylinkerCmd: hdr, Name: name}, nil
	case types.LC_SOURCE_VERSION:
		r := body.reader(4)
		l := &SourceVersion{LoadBytes: raw}
		l.LoadCmd = cmd
		l.Len = r.u32()
		l.SourceVersionCmd.Version = types.SrcVersion(r.u64())
		if r.err != nil {
			return nil, r.err
		}
		l.Version = l.SourceVersionCmd.Version.String()
		return l, nil
	case types.LC_MAIN:
		r := body.reader(4)
		l := &EntryPoint{LoadBytes: raw}
		l.LoadCmd = cmd
		l.Len = r.u32()
		l.Offset = r.u64()
		l.EntryPointCmd.StackSize = r.u64()
		if r.err != nil {
			return nil, r.err
		}
		l.EntryOffset = l.Offset
		l.StackSize = l.EntryPointCmd.StackSize
		return l, nil
	case types.LC_BUILD_VERSION:
		return d.buildVersion(cmd, body, raw)
	case types.LC_VERSION_MIN_MACOSX, types.LC_VERSION_MIN_IPHONEOS, types.LC_VERSION_MIN_TVOS,
		types.LC_VERSION_MIN_WATCHOS:
		r := body.reader(4)
		l := &VersionMin{LoadBytes: raw}
		l.LoadCmd = cmd
		l.Len = r.u32()
		l.VersionMinCmd.Version = types.Version(r.u32())
		l.VersionMinCmd.Sdk = types.Version(r.u32())
		if r.err != nil {
			return nil, r.err
		}
		l.Version = l.VersionMinCmd.Version.String()
		l.Sdk = l.VersionMinCmd.Sdk.String()
		return l, nil
	}

	log.WithFields(log.Fields{
		"cmd":    cmd.String(),
		"offset": fmt.Sprintf("%#x", pos),
		"size":   siz,
	}).Debug("keeping raw bytes of unhandled load command")
	return LoadCmdBytes{LoadCmd: cmd, LoadBytes: raw}, nil
}

// segment decodes LC_SEGMENT and LC_SEGMENT_64 along with their section headers.
func (d *decoder) segment(cmd types.LoadCmd, body cursor, raw LoadBytes) (*Segment, error) {
	lay := segmentLayout(cmd)
	is64 := lay == layout64
	pos := body.base

	r := body.reader(4)
	s := &Segment{LoadBytes: raw}
	s.LoadCmd = cmd
	s.Len = r.u32()
	s.Name = r.name(16)
	s.Addr = r.word(is64)
	s.Memsz = r.word(is64)
	s.Offset = r.word(is64)
	s.Filesz = r.word(is64)
	s.Maxprot = types.VmProtection(r.u32())
	s.Prot = types.VmProtection(r.u32())
	s.Nsect = r.u32()
	s.Flag = types.SegFlag(r.u32())
	if r.err != nil {
		return nil, r.err
	}

	if lay.segment+uint64(s.Nsect)*lay.section > uint64(len(body.buf)) {
		return nil, formatErr(ErrSectionOverrun, pos, "section headers overrun segment command", s.Nsect)
	}
	if s.Offset > uint64(len(d.c.buf)) || s.Filesz > uint64(len(d.c.buf))-s.Offset {
		return nil, formatErr(ErrOutOfBounds, pos, "segment file range past end of file",
			fmt.Sprintf("%#x-%#x", s.Offset, s.Offset+s.Filesz))
	}

	f := d.file
	s.Firstsect = uint32(len(f.Sections))
	for i := uint64(0); i < uint64(s.Nsect); i++ {
		off := lay.segment + i*lay.section
		r := body.reader(off)
		sh := new(Section)
		sh.Name = r.name(16)
		sh.Seg = r.name(16)
		sh.Addr = r.word(is64)
		sh.Size = r.word(is64)
		sh.Offset = r.u32()
		sh.Align = r.u32()
		sh.Reloff = r.u32()
		sh.Nreloc = r.u32()
		sh.Flags = types.SectionFlag(r.u32())
		sh.Reserved1 = r.u32()
		sh.Reserved2 = r.u32()
		if is64 {
			sh.Reserved3 = r.u32()
		}
		if r.err != nil {
			return nil, r.err
		}
		// MH_OBJECT files put every section in a single unnamed segment.
		if s.Name != "" && sh.Seg != s.Name {
			return nil, formatErr(ErrSegmentMismatch, pos+int64(off),
				fmt.Sprintf("section %s does not belong to segment %s", sh.Name, s.Name), sh.Seg)
		}
		f.Sections = append(f.Sections, sh)
	}
	return s, nil
}

// symtab decodes LC_SYMTAB and the nlist entries and names it points at.
func (d *decoder) symtab(body cursor, raw LoadBytes) (*Symtab, error) {
	pos := body.base
	r := body.reader(0)
	var hdr types.SymtabCmd
	hdr.LoadCmd = types.LoadCmd(r.u32())
	hdr.Len = r.u32()
	hdr.Symoff = r.u32()
	hdr.Nsyms = r.u32()
	hdr.Stroff = r.u32()
	hdr.Strsize = r.u32()
	if r.err != nil {
		return nil, r.err
	}

	size := uint64(len(d.c.buf))
	entsz := d.lay.nlist
	if uint64(hdr.Symoff)+uint64(hdr.Nsyms)*entsz > size {
		return nil, formatErr(ErrOutOfBounds, pos, "symbol table past end of file", hdr.Nsyms)
	}
	strStart := uint64(hdr.Stroff)
	strEnd := strStart + uint64(hdr.Strsize)
	if strEnd > size {
		return nil, formatErr(ErrOutOfBounds, pos, "string table past end of file", hdr.Strsize)
	}

	syms := make([]Symbol, hdr.Nsyms)
	for i := range syms {
		off := uint64(hdr.Symoff) + uint64(i)*entsz
		r := d.c.reader(off)
		strx := r.u32()
		sym := &syms[i]
		sym.Type = types.NLType(r.u8())
		sym.Sect = r.u8()
		sym.Desc = types.NDescType(r.u16())
		sym.Value = r.word(d.is64())
		if r.err != nil {
			return nil, r.err
		}
		// a zero string index is the empty name
		if strx == 0 {
			continue
		}
		if uint64(strx) >= uint64(hdr.Strsize) {
			return nil, formatErr(ErrOutOfBounds, int64(off), "invalid name in symbol table", strx)
		}
		name, err := d.c.CString(strStart+uint64(strx), strEnd)
		if err != nil {
			return nil, err
		}
		sym.Name = name
	}

	return &Symtab{LoadBytes: raw, SymtabCmd: hdr, Syms: syms}, nil
}

// dysymtab decodes the LC_DYSYMTAB index ranges. They are checked against
// the symbol table once every command has been read.
func (d *decoder) dysymtab(body cursor, raw LoadBytes) (*Dysymtab, error) {
	r := body.reader(0)
	var hdr types.DysymtabCmd
	hdr.LoadCmd = types.LoadCmd(r.u32())
	hdr.Len = r.u32()
	for _, p := range []*uint32{
		&hdr.Ilocalsym, &hdr.Nlocalsym,
		&hdr.Iextdefsym, &hdr.Nextdefsym,
		&hdr.Iundefsym, &hdr.Nundefsym,
		&hdr.Tocoffset, &hdr.Ntoc,
		&hdr.Modtaboff, &hdr.Nmodtab,
		&hdr.Extrefsymoff, &hdr.Nextrefsyms,
		&hdr.Indirectsymoff, &hdr.Nindirectsyms,
		&hdr.Extreloff, &hdr.Nextrel,
		&hdr.Locreloff, &hdr.Nlocrel,
	} {
		*p = r.u32()
	}
	if r.err != nil {
		return nil, r.err
	}
	return &Dysymtab{LoadBytes: raw, DysymtabCmd: hdr}, nil
}

func (d *decoder) checkDysymtab() error {
	nsyms := uint64(d.file.Symtab.Nsyms)
	dt := d.file.Dysymtab
	for _, rng := range []struct {
		name     string
		idx, num uint32
	}{
		{"local", dt.Ilocalsym, dt.Nlocalsym},
		{"external", dt.Iextdefsym, dt.Nextdefsym},
		{"undefined", dt.Iundefsym, dt.Nundefsym},
	} {
		if uint64(rng.idx)+uint64(rng.num) > nsyms {
			return formatErr(ErrOutOfBounds, int64(d.dysymOff), rng.name+" symbol range past end of symbol table",
				fmt.Sprintf("%d+%d", rng.idx, rng.num))
		}
	}
	return nil
}

func (d *decoder) dylib(cmd types.LoadCmd, body cursor, raw LoadBytes) (Load, error) {
	r := body.reader(4)
	var hdr types.DylibCmd
	hdr.LoadCmd = cmd
	hdr.Len = r.u32()
	hdr.Name = r.u32()
	hdr.Time = r.u32()
	hdr.CurrentVersion = types.Version(r.u32())
	hdr.CompatVersion = types.Version(r.u32())
	if r.err != nil {
		return nil, r.err
	}
	name, err := body.CString(uint64(hdr.Name), uint64(len(body.buf)))
	if err != nil {
		return nil, err
	}
	l := &Dylib{
		LoadBytes:      raw,
		DylibCmd:       hdr,
		Name:           name,
		Time:           hdr.Time,
		CurrentVersion: hdr.CurrentVersion.String(),
		CompatVersion:  hdr.CompatVersion.String(),
	}
	switch cmd {
	case types.LC_ID_DYLIB:
		return (*DylibID)(l), nil
	case types.LC_LOAD_WEAK_DYLIB:
		return (*WeakDylib)(l), nil
	case types.LC_REEXPORT_DYLIB:
		return (*ReExportDylib)(l), nil
	case types.LC_LAZY_LOAD_DYLIB:
		return (*LazyLoadDylib)(l), nil
	case types.LC_LOAD_UPWARD_DYLIB:
		return (*UpwardDylib)(l), nil
	}
	return l, nil
}

func (d *decoder) buildVersion(cmd types.LoadCmd, body cursor, raw LoadBytes) (*BuildVersion, error) {
	r := body.reader(4)
	l := &BuildVersion{LoadBytes: raw}
	l.LoadCmd = cmd
	l.Len = r.u32()
	l.BuildVersionCmd.Platform = types.Platform(r.u32())
	l.BuildVersionCmd.Minos = types.Version(r.u32())
	l.BuildVersionCmd.Sdk = types.Version(r.u32())
	l.NumTools = r.u32()
	if r.err != nil {
		return nil, r.err
	}
	if uint64(l.NumTools)*types.BuildToolEntrySize > uint64(len(body.buf))-types.BuildVersionSize {
		return nil, formatErr(ErrOutOfBounds, body.base, "build tool entries past end of command", l.NumTools)
	}
	for i := uint32(0); i < l.NumTools; i++ {
		var t types.BuildToolVersion
		t.Tool = types.Tool(r.u32())
		t.Version = types.Version(r.u32())
		l.Tools = append(l.Tools, t)
	}
	if r.err != nil {
		return nil, r.err
	}
	l.Platform = l.BuildVersionCmd.Platform.String()
	l.Minos = l.BuildVersionCmd.Minos.String()
	l.Sdk = l.BuildVersionCmd.Sdk.String()
	return l, nil
}

// Segment returns the first Segment with the given name, or nil if no such segment exists.
func (f *File) Segment(name string) *Segment {
	for _, l := range f.Loads {
		if s, ok := l.(*Segment); ok && s.Name == name {
			return s
		}
	}
	return nil
}

// Segments returns all Segments.
func (f *File) Segments() []*Segment {
	var segs []*Segment
	for _, l := range f.Loads {
		if s, ok := l.(*Segment); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// GetSectionsForSegment returns all the segment's sections or nil if it doesn't have any
func (f *File) GetSectionsForSegment(name string) []*Section {
	seg := f.Segment(name)
	if seg == nil || seg.Nsect == 0 {
		return nil
	}
	first, last := seg.Firstsect, seg.Firstsect+seg.Nsect
	return f.Sections[first:last:last]
}

// Section returns the section with the given name in the given segment,
// or nil if no such section exists.
func (f *File) Section(segment, section string) *Section {
	for _, sec := range f.Sections {
		if sec.Seg == segment && sec.Name == section {
			return sec
		}
	}
	return nil
}

// FindSegmentForVMAddr returns the segment containing a given virtual memory address.
func (f *File) FindSegmentForVMAddr(vmAddr uint64) *Segment {
	for _, seg := range f.Segments() {
		if seg.Addr <= vmAddr && vmAddr < seg.Addr+seg.Memsz {
			return seg
		}
	}
	return nil
}

// FindSectionForVMAddr returns the section containing a given virtual memory address.
func (f *File) FindSectionForVMAddr(vmAddr uint64) *Section {
	for _, sec := range f.Sections {
		if sec.Addr <= vmAddr && vmAddr < sec.Addr+sec.Size {
			return sec
		}
	}
	return nil
}

// UUID returns the UUID load command, or nil if no UUID exists.
func (f *File) UUID() *UUID {
	for _, l := range f.Loads {
		if u, ok := l.(*UUID); ok {
			return u
		}
	}
	return nil
}

// DylibID returns the dylib ID load command, or nil if no dylib ID exists.
func (f *File) DylibID() *DylibID {
	for _, l := range f.Loads {
		if s, ok := l.(*DylibID); ok {
			return s
		}
	}
	return nil
}

// Rpaths returns the run path search entries in load command order.
func (f *File) Rpaths() []string {
	var paths []string
	for _, l := range f.Loads {
		if r, ok := l.(*Rpath); ok {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// SourceVersion returns the source version load command, or nil if no source version exists.
func (f *File) SourceVersion() *SourceVersion {
	for _, l := range f.Loads {
		if s, ok := l.(*SourceVersion); ok {
			return s
		}
	}
	return nil
}

// BuildVersion returns the build version load command, or nil if no build version exists.
func (f *File) BuildVersion() *BuildVersion {
	for _, l := range f.Loads {
		if s, ok := l.(*BuildVersion); ok {
			return s
		}
	}
	return nil
}

// EntryPoint returns the LC_MAIN load command, or nil if there is none.
func (f *File) EntryPoint() *EntryPoint {
	for _, l := range f.Loads {
		if e, ok := l.(*EntryPoint); ok {
			return e
		}
	}
	return nil
}

// ImportedSymbols returns all symbols
// referred to by the binary f that are expected to be
// satisfied by other libraries at dynamic load time.
func (f *File) ImportedSymbols() ([]Symbol, error) {
	if f.Dysymtab == nil || f.Symtab == nil {
		return nil, &FormatError{off: noOffset, msg: "missing symbol table"}
	}
	dt := f.Dysymtab
	return append([]Symbol(nil), f.Symtab.Syms[dt.Iundefsym:dt.Iundefsym+dt.Nundefsym]...), nil
}

// ImportedSymbolNames returns the names of all symbols
// referred to by the binary f that are expected to be
// satisfied by other libraries at dynamic load time.
func (f *File) ImportedSymbolNames() ([]string, error) {
	syms, err := f.ImportedSymbols()
	if err != nil {
		return nil, fmt.Errorf("failed to get imported symbols: %w", err)
	}
	var all []string
	for _, s := range syms {
		all = append(all, s.Name)
	}
	return all, nil
}

// ImportedLibraries returns the paths of all libraries
// referred to by the binary f that are expected to be
// linked with the binary at dynamic link time.
func (f *File) ImportedLibraries() []string {
	var all []string
	for _, l := range f.Loads {
		switch lib := l.(type) {
		case *Dylib:
			all = append(all, lib.Name)
		case *WeakDylib:
			all = append(all, lib.Name)
		case *ReExportDylib:
			all = append(all, lib.Name)
		case *LazyLoadDylib:
			all = append(all, lib.Name)
		case *UpwardDylib:
			all = append(all, lib.Name)
		}
	}
	return all
}

// LibraryOrdinalName returns the name of the library a two-level namespace
// ordinal refers to.
func (f *File) LibraryOrdinalName(libraryOrdinal int) string {
	switch libraryOrdinal {
	case types.SELF_LIBRARY_ORDINAL:
		return "this-image"
	case types.DYNAMIC_LOOKUP_ORDINAL:
		return "flat-namespace"
	case types.EXECUTABLE_ORDINAL:
		return "main-executable"
	}
	if libraryOrdinal < 0 {
		return "unknown-ordinal"
	}
	dylibs := f.ImportedLibraries()
	if libraryOrdinal > len(dylibs) {
		return "ordinal-too-large"
	}
	parts := strings.Split(dylibs[libraryOrdinal-1], "/")
	return parts[len(parts)-1]
}

// FindSymbolAddress returns the value of the first symbol named symbol.
func (f *File) FindSymbolAddress(symbol string) (uint64, error) {
	if f.Symtab == nil {
		return 0, &FormatError{off: noOffset, msg: "missing symbol table"}
	}
	for _, sym := range f.Symtab.Syms {
		if sym.Name == symbol {
			return sym.Value, nil
		}
	}
	return 0, fmt.Errorf("symbol %s not found in macho symtab", symbol)
}

// FindAddressSymbols returns every symbol whose value is addr.
func (f *File) FindAddressSymbols(addr uint64) ([]Symbol, error) {
	if f.Symtab == nil {
		return nil, &FormatError{off: noOffset, msg: "missing symbol table"}
	}
	var syms []Symbol
	for _, sym := range f.Symtab.Syms {
		if sym.Value == addr {
			syms = append(syms, sym)
		}
	}
	if len(syms) > 0 {
		return syms, nil
	}
	return nil, fmt.Errorf("symbol(s) not found in macho symtab for addr 0x%016x", addr)
}
