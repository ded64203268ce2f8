package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()
	e.WriteByte(0x42)
	e.WriteUvarint(12345)
	e.WriteString("hello world")
	e.WriteString("")
	e.WriteBool(true)
	e.WriteBool(false)

	d := NewDecoder(e.Bytes())

	b, err := d.ReadByte()
	if err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v; want 0x42, nil", b, err)
	}
	uv, err := d.ReadUvarint()
	if err != nil || uv != 12345 {
		t.Errorf("ReadUvarint() = %d, %v; want 12345, nil", uv, err)
	}
	s, err := d.ReadString()
	if err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v; want \"hello world\", nil", s, err)
	}
	s, err = d.ReadString()
	if err != nil || s != "" {
		t.Errorf("ReadString() = %q, %v; want empty, nil", s, err)
	}
	bl, err := d.ReadBool()
	if err != nil || !bl {
		t.Errorf("ReadBool() = %v, %v; want true, nil", bl, err)
	}
	bl, err = d.ReadBool()
	if err != nil || bl {
		t.Errorf("ReadBool() = %v, %v; want false, nil", bl, err)
	}
	if !d.EOF() {
		t.Errorf("Remaining() = %d, want 0", d.Remaining())
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoderWithCap(4)
	e.WriteString("abc")
	if e.Len() != 4 {
		t.Errorf("Len() = %d, want 4", e.Len())
	}
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", e.Len())
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(d *Decoder) error
		want error
	}{
		{
			name: "byte from empty",
			buf:  nil,
			read: func(d *Decoder) error { _, err := d.ReadByte(); return err },
			want: ErrBufferTooShort,
		},
		{
			name: "truncated string",
			buf:  []byte{0x05, 'a', 'b'},
			read: func(d *Decoder) error { _, err := d.ReadString(); return err },
			want: ErrBufferTooShort,
		},
		{
			name: "huge string length",
			buf:  []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F},
			read: func(d *Decoder) error { _, err := d.ReadString(); return err },
			want: ErrAllocationTooLarge,
		},
		{
			name: "invalid bool",
			buf:  []byte{0x02},
			read: func(d *Decoder) error { _, err := d.ReadBool(); return err },
			want: ErrInvalidBool,
		},
		{
			name: "varint overflow",
			buf:  []byte(strings.Repeat("\x80", 11)),
			read: func(d *Decoder) error { _, err := d.ReadUvarint(); return err },
			want: ErrVarintOverflow,
		},
		{
			name: "count over limit",
			buf:  []byte{0x0B},
			read: func(d *Decoder) error { _, err := d.ReadCount(10, ErrTooManyPatches); return err },
			want: ErrTooManyPatches,
		},
		{
			name: "count over remaining",
			buf:  []byte{0x05, 0x00},
			read: func(d *Decoder) error { _, err := d.ReadCount(10, ErrTooManyPatches); return err },
			want: ErrBufferTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewDecoder(tt.buf))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
