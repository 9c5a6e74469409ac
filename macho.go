// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package macho decodes thin Mach-O object files held in memory.
//
// Mach-O header data structures
// Originally at:
// http://developer.apple.com/mac/library/documentation/DeveloperTools/Conceptual/MachORuntime/Reference/reference.html (since deleted by Apple)
// Archived copy at:
// https://web.archive.org/web/20090819232456/http://developer.apple.com/documentation/DeveloperTools/Conceptual/MachORuntime/index.html
// For cloned PDF see:
// https://github.com/aidansteele/osx-abi-macho-file-format-reference
package macho

import (
	"github.com/appsworld/thinmacho/types"
)

// layout holds the record widths that change between 32-bit and 64-bit files.
type layout struct {
	header  uint64
	segment uint64
	section uint64
	nlist   uint64
}

var (
	layout32 = layout{
		header:  types.FileHeaderSize32,
		segment: types.Segment32Size,
		section: types.Section32Size,
		nlist:   types.Nlist32Size,
	}
	layout64 = layout{
		header:  types.FileHeaderSize64,
		segment: types.Segment64Size,
		section: types.Section64Size,
		nlist:   types.Nlist64Size,
	}
)

func layoutFor(magic types.Magic) layout {
	if magic.Is64() {
		return layout64
	}
	return layout32
}

// segmentLayout returns the layout for a segment command; the command kind
// rather than the file width selects the 32 or 64-bit record shape.
func segmentLayout(cmd types.LoadCmd) layout {
	if cmd == types.LC_SEGMENT_64 {
		return layout64
	}
	return layout32
}
