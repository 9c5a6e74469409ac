package types

// A LoadCmd is a Mach-O load command.
type LoadCmd uint32

func (c LoadCmd) Command() LoadCmd { return c }

const (
	LC_REQ_DYLD       LoadCmd = 0x80000000
	LC_SEGMENT        LoadCmd = 0x1  // segment of this file to be mapped
	LC_SYMTAB         LoadCmd = 0x2  // link-edit stab symbol table info
	LC_SYMSEG         LoadCmd = 0x3  // link-edit gdb symbol table info (obsolete)
	LC_THREAD         LoadCmd = 0x4  // thread
	LC_UNIXTHREAD     LoadCmd = 0x5  // thread+stack
	LC_LOADFVMLIB     LoadCmd = 0x6  // load a specified fixed VM shared library
	LC_IDFVMLIB       LoadCmd = 0x7  // fixed VM shared library identification
	LC_IDENT          LoadCmd = 0x8  // object identification info (obsolete)
	LC_FVMFILE        LoadCmd = 0x9  // fixed VM file inclusion (internal use)
	LC_PREPAGE        LoadCmd = 0xa  // prepage command (internal use)
	LC_DYSYMTAB       LoadCmd = 0xb  // dynamic link-edit symbol table info
	LC_LOAD_DYLIB     LoadCmd = 0xc  // load dylib command
	LC_ID_DYLIB       LoadCmd = 0xd  // id dylib command
	LC_LOAD_DYLINKER  LoadCmd = 0xe  // load a dynamic linker
	LC_ID_DYLINKER    LoadCmd = 0xf  // id dylinker command (not load dylinker command)
	LC_PREBOUND_DYLIB LoadCmd = 0x10 // modules prebound for a dynamically linked shared library
	LC_ROUTINES       LoadCmd = 0x11 // image routines
	LC_SUB_FRAMEWORK  LoadCmd = 0x12 // sub framework
	LC_SUB_UMBRELLA   LoadCmd = 0x13 // sub umbrella
	LC_SUB_CLIENT     LoadCmd = 0x14 // sub client
	LC_SUB_LIBRARY    LoadCmd = 0x15 // sub library
	LC_TWOLEVEL_HINTS LoadCmd = 0x16 // two-level namespace lookup hints
	LC_PREBIND_CKSUM  LoadCmd = 0x17 // prebind checksum
	/*
	 * load a dynamically linked shared library that is allowed to be missing
	 * (all symbols are weak imported).
	 */
	LC_LOAD_WEAK_DYLIB          LoadCmd = (0x18 | LC_REQ_DYLD)
	LC_SEGMENT_64               LoadCmd = 0x19                 // 64-bit segment of this file to be mapped
	LC_ROUTINES_64              LoadCmd = 0x1a                 // 64-bit image routines
	LC_UUID                     LoadCmd = 0x1b                 // the uuid
	LC_RPATH                    LoadCmd = (0x1c | LC_REQ_DYLD) // runpath additions
	LC_CODE_SIGNATURE           LoadCmd = 0x1d                 // local of code signature
	LC_SEGMENT_SPLIT_INFO       LoadCmd = 0x1e                 // local of info to split segments
	LC_REEXPORT_DYLIB           LoadCmd = (0x1f | LC_REQ_DYLD) // load and re-export dylib
	LC_LAZY_LOAD_DYLIB          LoadCmd = 0x20                 // delay load of dylib until first use
	LC_ENCRYPTION_INFO          LoadCmd = 0x21                 // encrypted segment information
	LC_DYLD_INFO                LoadCmd = 0x22                 // compressed dyld information
	LC_DYLD_INFO_ONLY           LoadCmd = (0x22 | LC_REQ_DYLD) // compressed dyld information only
	LC_LOAD_UPWARD_DYLIB        LoadCmd = (0x23 | LC_REQ_DYLD) // load upward dylib
	LC_VERSION_MIN_MACOSX       LoadCmd = 0x24                 // build for MacOSX min OS version
	LC_VERSION_MIN_IPHONEOS     LoadCmd = 0x25                 // build for iPhoneOS min OS version
	LC_FUNCTION_STARTS          LoadCmd = 0x26                 // compressed table of function start addresses
	LC_DYLD_ENVIRONMENT         LoadCmd = 0x27                 // string for dyld to treat like environment variable
	LC_MAIN                     LoadCmd = (0x28 | LC_REQ_DYLD) // replacement for LC_UNIXTHREAD
	LC_DATA_IN_CODE             LoadCmd = 0x29                 // table of non-instructions in __text
	LC_SOURCE_VERSION           LoadCmd = 0x2A                 // source version used to build binary
	LC_DYLIB_CODE_SIGN_DRS      LoadCmd = 0x2B                 // Code signing DRs copied from linked dylibs
	LC_ENCRYPTION_INFO_64       LoadCmd = 0x2C                 // 64-bit encrypted segment information
	LC_LINKER_OPTION            LoadCmd = 0x2D                 // linker options in MH_OBJECT files
	LC_LINKER_OPTIMIZATION_HINT LoadCmd = 0x2E                 // optimization hints in MH_OBJECT files
	LC_VERSION_MIN_TVOS         LoadCmd = 0x2F                 // build for AppleTV min OS version
	LC_VERSION_MIN_WATCHOS      LoadCmd = 0x30                 // build for Watch min OS version
	LC_NOTE                     LoadCmd = 0x31                 // arbitrary data included within a Mach-O file
	LC_BUILD_VERSION            LoadCmd = 0x32                 // build for platform min OS version
	LC_DYLD_EXPORTS_TRIE        LoadCmd = (0x33 | LC_REQ_DYLD) // used with linkedit_data_command, payload is trie
	LC_DYLD_CHAINED_FIXUPS      LoadCmd = (0x34 | LC_REQ_DYLD) // used with linkedit_data_command
	LC_FILESET_ENTRY            LoadCmd = (0x35 | LC_REQ_DYLD) /* used with fileset_entry_command */
)

var loadCmdStrings = []intName{
	{uint32(LC_SEGMENT), "LC_SEGMENT"},
	{uint32(LC_SYMTAB), "LC_SYMTAB"},
	{uint32(LC_SYMSEG), "LC_SYMSEG"},
	{uint32(LC_THREAD), "LC_THREAD"},
	{uint32(LC_UNIXTHREAD), "LC_UNIXTHREAD"},
	{uint32(LC_LOADFVMLIB), "LC_LOADFVMLIB"},
	{uint32(LC_IDFVMLIB), "LC_IDFVMLIB"},
	{uint32(LC_IDENT), "LC_IDENT"},
	{uint32(LC_FVMFILE), "LC_FVMFILE"},
	{uint32(LC_PREPAGE), "LC_PREPAGE"},
	{uint32(LC_DYSYMTAB), "LC_DYSYMTAB"},
	{uint32(LC_LOAD_DYLIB), "LC_LOAD_DYLIB"},
	{uint32(LC_ID_DYLIB), "LC_ID_DYLIB"},
	{uint32(LC_LOAD_DYLINKER), "LC_LOAD_DYLINKER"},
	{uint32(LC_ID_DYLINKER), "LC_ID_DYLINKER"},
	{uint32(LC_PREBOUND_DYLIB), "LC_PREBOUND_DYLIB"},
	{uint32(LC_ROUTINES), "LC_ROUTINES"},
	{uint32(LC_SUB_FRAMEWORK), "LC_SUB_FRAMEWORK"},
	{uint32(LC_SUB_UMBRELLA), "LC_SUB_UMBRELLA"},
	{uint32(LC_SUB_CLIENT), "LC_SUB_CLIENT"},
	{uint32(LC_SUB_LIBRARY), "LC_SUB_LIBRARY"},
	{uint32(LC_TWOLEVEL_HINTS), "LC_TWOLEVEL_HINTS"},
	{uint32(LC_PREBIND_CKSUM), "LC_PREBIND_CKSUM"},
	{uint32(LC_LOAD_WEAK_DYLIB), "LC_LOAD_WEAK_DYLIB"},
	{uint32(LC_SEGMENT_64), "LC_SEGMENT_64"},
	{uint32(LC_ROUTINES_64), "LC_ROUTINES_64"},
	{uint32(LC_UUID), "LC_UUID"},
	{uint32(LC_RPATH), "LC_RPATH"},
	{uint32(LC_CODE_SIGNATURE), "LC_CODE_SIGNATURE"},
	{uint32(LC_SEGMENT_SPLIT_INFO), "LC_SEGMENT_SPLIT_INFO"},
	{uint32(LC_REEXPORT_DYLIB), "LC_REEXPORT_DYLIB"},
	{uint32(LC_LAZY_LOAD_DYLIB), "LC_LAZY_LOAD_DYLIB"},
	{uint32(LC_ENCRYPTION_INFO), "LC_ENCRYPTION_INFO"},
	{uint32(LC_DYLD_INFO), "LC_DYLD_INFO"},
	{uint32(LC_DYLD_INFO_ONLY), "LC_DYLD_INFO_ONLY"},
	{uint32(LC_LOAD_UPWARD_DYLIB), "LC_LOAD_UPWARD_DYLIB"},
	{uint32(LC_VERSION_MIN_MACOSX), "LC_VERSION_MIN_MACOSX"},
	{uint32(LC_VERSION_MIN_IPHONEOS), "LC_VERSION_MIN_IPHONEOS"},
	{uint32(LC_FUNCTION_STARTS), "LC_FUNCTION_STARTS"},
	{uint32(LC_DYLD_ENVIRONMENT), "LC_DYLD_ENVIRONMENT"},
	{uint32(LC_MAIN), "LC_MAIN"},
	{uint32(LC_DATA_IN_CODE), "LC_DATA_IN_CODE"},
	{uint32(LC_SOURCE_VERSION), "LC_SOURCE_VERSION"},
	{uint32(LC_DYLIB_CODE_SIGN_DRS), "LC_DYLIB_CODE_SIGN_DRS"},
	{uint32(LC_ENCRYPTION_INFO_64), "LC_ENCRYPTION_INFO_64"},
	{uint32(LC_LINKER_OPTION), "LC_LINKER_OPTION"},
	{uint32(LC_LINKER_OPTIMIZATION_HINT), "LC_LINKER_OPTIMIZATION_HINT"},
	{uint32(LC_VERSION_MIN_TVOS), "LC_VERSION_MIN_TVOS"},
	{uint32(LC_VERSION_MIN_WATCHOS), "LC_VERSION_MIN_WATCHOS"},
	{uint32(LC_NOTE), "LC_NOTE"},
	{uint32(LC_BUILD_VERSION), "LC_BUILD_VERSION"},
	{uint32(LC_DYLD_EXPORTS_TRIE), "LC_DYLD_EXPORTS_TRIE"},
	{uint32(LC_DYLD_CHAINED_FIXUPS), "LC_DYLD_CHAINED_FIXUPS"},
	{uint32(LC_FILESET_ENTRY), "LC_FILESET_ENTRY"},
}

func (c LoadCmd) String() string   { return stringName(uint32(c), loadCmdStrings, false) }
func (c LoadCmd) GoString() string { return stringName(uint32(c), loadCmdStrings, true) }

// Fixed on-disk sizes of the load command records decoded by this package.
const (
	LoadCmdPrefixSize  = 8
	Segment32Size      = 56
	Segment64Size      = 72
	Section32Size      = 68
	Section64Size      = 80
	SymtabCmdSize      = 24
	DysymtabCmdSize    = 80
	DylibCmdSize       = 24
	DylinkerCmdSize    = 12
	RpathCmdSize       = 12
	UUIDCmdSize        = 24
	VersionMinCmdSize  = 16
	SourceVersionSize  = 16
	EntryPointCmdSize  = 24
	BuildVersionSize   = 24
	BuildToolEntrySize = 8
)

type SegFlag uint32

/* Constants for the flags field of the segment_command */
const (
	HighVM SegFlag = 0x1 /* the file contents for this segment is for
	   the high part of the VM space, the low part
	   is zero filled (for stacks in core files) */
	FvmLib SegFlag = 0x2 /* this segment is the VM that is allocated by
	   a fixed VM library, for overlap checking in
	   the link editor */
	NoReLoc SegFlag = 0x4 /* this segment has nothing that was relocated
	   in it and nothing relocated to it, that is
	   it maybe safely replaced without relocation*/
	ProtectedVersion1 SegFlag = 0x8 /* This segment is protected.  If the
	   segment starts at file offset 0, the
	   first page of the segment is not
	   protected.  All other pages of the
	   segment are protected. */
	ReadOnly SegFlag = 0x10 /* This segment is made read-only after fixups */
)

var segFlagStrings = []intName{
	{uint32(HighVM), "HighVM"},
	{uint32(FvmLib), "FvmLib"},
	{uint32(NoReLoc), "NoReLoc"},
	{uint32(ProtectedVersion1), "ProtectedVersion1"},
	{uint32(ReadOnly), "ReadOnly"},
}

func (f SegFlag) String() string {
	if f == 0 {
		return ""
	}
	var s string
	for _, n := range segFlagStrings {
		if uint32(f)&n.i != 0 {
			s += n.s + "|"
		}
	}
	if s == "" {
		return unknownName(uint32(f))
	}
	return s[:len(s)-1]
}

// A SymtabCmd is a Mach-O symbol table command.
type SymtabCmd struct {
	LoadCmd // LC_SYMTAB
	Len     uint32
	Symoff  uint32
	Nsyms   uint32
	Stroff  uint32
	Strsize uint32
}

// A DysymtabCmd is a Mach-O dynamic symbol table command.
type DysymtabCmd struct {
	LoadCmd        // LC_DYSYMTAB
	Len            uint32
	Ilocalsym      uint32
	Nlocalsym      uint32
	Iextdefsym     uint32
	Nextdefsym     uint32
	Iundefsym      uint32
	Nundefsym      uint32
	Tocoffset      uint32
	Ntoc           uint32
	Modtaboff      uint32
	Nmodtab        uint32
	Extrefsymoff   uint32
	Nextrefsyms    uint32
	Indirectsymoff uint32
	Nindirectsyms  uint32
	Extreloff      uint32
	Nextrel        uint32
	Locreloff      uint32
	Nlocrel        uint32
}

// A DylibCmd is a Mach-O load dynamic library command.
// LC_ID_DYLIB, LC_LOAD_{,WEAK_,UPWARD_}DYLIB, LC_REEXPORT_DYLIB, LC_LAZY_LOAD_DYLIB
type DylibCmd struct {
	LoadCmd
	Len            uint32
	Name           uint32
	Time           uint32
	CurrentVersion Version
	CompatVersion  Version
}

// A DylinkerCmd is a Mach-O dynamic load a dynamic linker command.
// LC_LOAD_DYLINKER, LC_ID_DYLINKER
type DylinkerCmd struct {
	LoadCmd
	Len  uint32
	Name uint32 // dynamic linker's path name
}

// A UUIDCmd is a Mach-O uuid load command contains a single
// 128-bit unique random number that identifies an object produced
// by the static link editor.
type UUIDCmd struct {
	LoadCmd // LC_UUID
	Len     uint32
	UUID    UUID
}

// A RpathCmd is a Mach-O rpath command.
type RpathCmd struct {
	LoadCmd // LC_RPATH
	Len     uint32
	Path    uint32
}

// A VersionMinCmd is a Mach-O version min command.
type VersionMinCmd struct {
	LoadCmd
	Len     uint32
	Version Version
	Sdk     Version
}

// A SourceVersionCmd is a Mach-O source version command.
type SourceVersionCmd struct {
	LoadCmd // LC_SOURCE_VERSION
	Len     uint32
	Version SrcVersion // A.B.C.D.E packed as a24.b10.c10.d10.e10
}

// A EntryPointCmd is a Mach-O main command.
type EntryPointCmd struct {
	LoadCmd          // LC_MAIN only used in MH_EXECUTE filetypes
	Len       uint32 // 24
	Offset    uint64 // file (__TEXT) offset of main()
	StackSize uint64 // if not zero, initial stack size
}

// A BuildVersionCmd is a Mach-O build for platform min OS version command.
type BuildVersionCmd struct {
	LoadCmd  // LC_BUILD_VERSION
	Len      uint32
	Platform Platform // platform
	Minos    Version  // X.Y.Z is encoded in nibbles xxxx.yy.zz
	Sdk      Version  // X.Y.Z is encoded in nibbles xxxx.yy.zz
	NumTools uint32   // number of tool entries following this
}
