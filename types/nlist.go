package types

import (
	"fmt"
	"strings"
)

const (
	Nlist32Size = 12
	Nlist64Size = 16
)

type NLType uint8

/*
 * The n_type field really contains four fields:
 *	unsigned char N_STAB:3,
 *		      N_PEXT:1,
 *		      N_TYPE:3,
 *		      N_EXT:1;
 * which are used via the following masks.
 */
const (
	N_STAB NLType = 0xe0 /* if any of these bits set, a symbolic debugging entry */
	N_PEXT NLType = 0x10 /* private external symbol bit */
	N_TYPE NLType = 0x0e /* mask for the type bits */
	N_EXT  NLType = 0x01 /* external symbol bit, set for external symbols */
)

/*
 * Values for N_TYPE bits of the n_type field.
 */
const (
	N_UNDF NLType = 0x0 /* undefined, n_sect == NO_SECT */
	N_ABS  NLType = 0x2 /* absolute, n_sect == NO_SECT */
	N_SECT NLType = 0xe /* defined in section number n_sect */
	N_PBUD NLType = 0xc /* prebound undefined (defined in a dylib) */
	N_INDR NLType = 0xa /* indirect */
)

// NO_SECT is the section number of a symbol not in any section.
const NO_SECT = 0

func (t NLType) IsDebugSym() bool             { return t&N_STAB != 0 }
func (t NLType) IsPrivateExternalSym() bool   { return t&N_PEXT != 0 }
func (t NLType) IsExternalSym() bool          { return t&N_EXT != 0 }
func (t NLType) IsUndefinedSym() bool         { return t&N_TYPE == N_UNDF }
func (t NLType) IsAbsoluteSym() bool          { return t&N_TYPE == N_ABS }
func (t NLType) IsDefinedInSection() bool     { return t&N_TYPE == N_SECT }
func (t NLType) IsPreboundUndefinedSym() bool { return t&N_TYPE == N_PBUD }
func (t NLType) IsIndirectSym() bool          { return t&N_TYPE == N_INDR }

// String describes the type bits; secName is used for symbols defined in a section.
func (t NLType) String(secName string) string {
	if t.IsDebugSym() {
		return fmt.Sprintf("debug(%#02x)", uint8(t))
	}
	var parts []string
	if t.IsPrivateExternalSym() {
		parts = append(parts, "private_external")
	}
	if t.IsExternalSym() {
		parts = append(parts, "external")
	}
	switch t & N_TYPE {
	case N_UNDF:
		parts = append(parts, "undefined")
	case N_ABS:
		parts = append(parts, "absolute")
	case N_SECT:
		parts = append(parts, secName)
	case N_PBUD:
		parts = append(parts, "prebound_undefined")
	case N_INDR:
		parts = append(parts, "indirect")
	}
	return strings.Join(parts, "|")
}

// NDescType is the n_desc field of a symbol table entry.
type NDescType uint16

const (
	REFERENCE_TYPE NDescType = 0x7

	WEAK_REF      NDescType = 0x0040 /* symbol is weak referenced */
	WEAK_DEF      NDescType = 0x0080 /* coalesed symbol is a weak definition */
	ARM_THUMB_DEF NDescType = 0x0008 /* symbol is a Thumb function (ARM) */
)

const (
	SELF_LIBRARY_ORDINAL   = 0x0
	MAX_LIBRARY_ORDINAL    = 0xfd
	DYNAMIC_LOOKUP_ORDINAL = 0xfe
	EXECUTABLE_ORDINAL     = 0xff
)

// GetLibraryOrdinal returns the two-level namespace library ordinal.
func (d NDescType) GetLibraryOrdinal() int { return int(d>>8) & 0xff }

func (d NDescType) IsWeakReferenced() bool { return d&WEAK_REF != 0 }
func (d NDescType) IsWeakDefinition() bool { return d&WEAK_DEF != 0 }
func (d NDescType) IsThumbDefinition() bool {
	return d&ARM_THUMB_DEF != 0
}
