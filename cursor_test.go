package macho

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCursorUint32ByteOrder(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	tests := []struct {
		bo   binary.ByteOrder
		want uint32
	}{
		{binary.LittleEndian, 67305985},
		{binary.BigEndian, 16909060},
	}
	for _, tt := range tests {
		got, err := cursor{buf: buf, bo: tt.bo}.Uint32(0)
		if err != nil {
			t.Fatalf("%v: Uint32(0) error = %v", tt.bo, err)
		}
		if got != tt.want {
			t.Errorf("%v: Uint32(0) = %d, want %d", tt.bo, got, tt.want)
		}
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	c := cursor{buf: make([]byte, 8), bo: binary.LittleEndian, base: 0x100}
	tests := []struct {
		name    string
		read    func() error
		wantOff int64
	}{
		{"uint32 at end", func() error { _, err := c.Uint32(6); return err }, 0x106},
		{"uint64 past end", func() error { _, err := c.Uint64(4); return err }, 0x104},
		{"uint16 at len", func() error { _, err := c.Uint16(8); return err }, 0x108},
		{"bytes overflow", func() error { _, err := c.Bytes(2, ^uint64(0)); return err }, 0x102},
		{"offset past end", func() error { _, err := c.Uint8(1 << 40); return err }, 0x100 + 1<<40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			if !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("error = %v, want ErrOutOfBounds", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a *FormatError", err)
			}
			if fe.Offset() != tt.wantOff {
				t.Errorf("Offset() = %#x, want %#x", fe.Offset(), tt.wantOff)
			}
		})
	}
}

func TestCursorBytesCopies(t *testing.T) {
	buf := []byte("abcdef")
	got, err := cursor{buf: buf}.Bytes(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	buf[1] = 'X'
	if diff := cmp.Diff([]byte("bcd"), got); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}
}

func TestCursorCString(t *testing.T) {
	c := cursor{buf: []byte("\x00_main\x00abc")}
	tests := []struct {
		name    string
		off     uint64
		end     uint64
		want    string
		wantErr bool
	}{
		{"empty", 0, 11, "", false},
		{"terminated", 1, 11, "_main", false},
		{"unterminated", 7, 10, "", true},
		{"terminator past end bound", 1, 5, "", true},
		{"end clamped to buffer", 1, 1 << 20, "_main", false},
		{"offset at end", 10, 10, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CString(tt.off, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Fatalf("CString() error = %v, want ErrOutOfBounds", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixedString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("__TEXT\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), "__TEXT"},
		{[]byte("__objc_classlist"), "__objc_classlist"},
		{make([]byte, 16), ""},
	}
	for _, tt := range tests {
		if got := fixedString(tt.in); got != tt.want {
			t.Errorf("fixedString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFieldReaderStickyError(t *testing.T) {
	c := cursor{buf: []byte{1, 0, 0, 0, 2, 0}, bo: binary.LittleEndian}
	r := c.reader(0)
	if got := r.u32(); got != 1 {
		t.Errorf("first u32 = %d, want 1", got)
	}
	if got := r.u32(); got != 0 {
		t.Errorf("short u32 = %d, want 0", got)
	}
	first := r.err
	if got := r.u8(); got != 0 || r.err != first {
		t.Errorf("read after error = %d, err %v; want 0 and the first error", got, r.err)
	}
	var fe *FormatError
	if !errors.As(first, &fe) || fe.Offset() != 4 {
		t.Errorf("first error = %v, want out of bounds at 4", first)
	}
}

func TestCursorSub(t *testing.T) {
	c := cursor{buf: []byte{0, 0, 0, 0, 0xaa, 0xbb}, bo: binary.BigEndian}
	sub, err := c.sub(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := sub.Uint16(0); err != nil || v != 0xaabb {
		t.Errorf("sub.Uint16(0) = %#x, %v; want 0xaabb", v, err)
	}
	_, err = sub.Uint8(2)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Offset() != 6 {
		t.Errorf("sub.Uint8(2) error = %v, want out of bounds at absolute offset 6", err)
	}
}
