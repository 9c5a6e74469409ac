package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type VmProtection int32

func (v VmProtection) Read() bool {
	return (v & 0x01) != 0
}

func (v VmProtection) Write() bool {
	return (v & 0x02) != 0
}

func (v VmProtection) Execute() bool {
	return (v & 0x04) != 0
}

func (v VmProtection) String() string {
	var protStr string
	if v.Read() {
		protStr += "r"
	} else {
		protStr += "-"
	}
	if v.Write() {
		protStr += "w"
	} else {
		protStr += "-"
	}
	if v.Execute() {
		protStr += "x"
	} else {
		protStr += "-"
	}
	return protStr
}

// UUID is a macho uuid object
type UUID [16]byte

func (u UUID) String() string {
	return strings.ToUpper(uuid.UUID(u).String())
}

// Platform is a macho platform object
type Platform uint32

const (
	PlatformMacOS            Platform = 1  // PLATFORM_MACOS
	PlatformIOS              Platform = 2  // PLATFORM_IOS
	PlatformTvOS             Platform = 3  // PLATFORM_TVOS
	PlatformWatchOS          Platform = 4  // PLATFORM_WATCHOS
	PlatformBridgeOS         Platform = 5  // PLATFORM_BRIDGEOS
	PlatformMacCatalyst      Platform = 6  // PLATFORM_MACCATALYST
	PlatformIOSSimulator     Platform = 7  // PLATFORM_IOSSIMULATOR
	PlatformTvOSSimulator    Platform = 8  // PLATFORM_TVOSSIMULATOR
	PlatformWatchOSSimulator Platform = 9  // PLATFORM_WATCHOSSIMULATOR
	PlatformDriverKit        Platform = 10 // PLATFORM_DRIVERKIT
)

var platformStrings = []intName{
	{uint32(PlatformMacOS), "macOS"},
	{uint32(PlatformIOS), "iOS"},
	{uint32(PlatformTvOS), "tvOS"},
	{uint32(PlatformWatchOS), "watchOS"},
	{uint32(PlatformBridgeOS), "bridgeOS"},
	{uint32(PlatformMacCatalyst), "macCatalyst"},
	{uint32(PlatformIOSSimulator), "iOS Simulator"},
	{uint32(PlatformTvOSSimulator), "tvOS Simulator"},
	{uint32(PlatformWatchOSSimulator), "watchOS Simulator"},
	{uint32(PlatformDriverKit), "DriverKit"},
}

func (p Platform) String() string { return stringName(uint32(p), platformStrings, false) }

// Version is a packed xxxx.yy.zz version number.
type Version uint32

func (v Version) String() string {
	s := make([]byte, 4)
	binary.BigEndian.PutUint32(s, uint32(v))
	return fmt.Sprintf("%d.%d.%d", binary.BigEndian.Uint16(s[:2]), s[2], s[3])
}

// SrcVersion is a packed a.b.c.d.e source version (24.10.10.10.10 bits).
type SrcVersion uint64

func (sv SrcVersion) String() string {
	a := sv >> 40
	b := (sv >> 30) & 0x3ff
	c := (sv >> 20) & 0x3ff
	d := (sv >> 10) & 0x3ff
	e := sv & 0x3ff
	return fmt.Sprintf("%d.%d.%d.%d.%d", a, b, c, d, e)
}

type Tool uint32

const (
	ToolClang Tool = 1 // TOOL_CLANG
	ToolSwift Tool = 2 // TOOL_SWIFT
	ToolLd    Tool = 3 // TOOL_LD
	ToolLld   Tool = 4 // TOOL_LLD
)

var toolStrings = []intName{
	{uint32(ToolClang), "clang"},
	{uint32(ToolSwift), "swift"},
	{uint32(ToolLd), "ld"},
	{uint32(ToolLld), "lld"},
}

func (t Tool) String() string { return stringName(uint32(t), toolStrings, false) }

type BuildToolVersion struct {
	Tool    Tool    /* enum for the tool */
	Version Version /* version number of the tool */
}

type intName struct {
	i uint32
	s string
}

func stringName(i uint32, names []intName, goSyntax bool) string {
	for _, n := range names {
		if n.i == i {
			if goSyntax {
				return "macho." + n.s
			}
			return n.s
		}
	}
	return "0x" + strconv.FormatUint(uint64(i), 16)
}

func knownName(i uint32, names []intName) bool {
	for _, n := range names {
		if n.i == i {
			return true
		}
	}
	return false
}

func unknownName(i uint32) string {
	return fmt.Sprintf("Unknown(%#x)", i)
}
