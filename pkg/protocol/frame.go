package protocol

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vango-dev/head/pkg/vdom"
)

// Decoding limits.
const (
	// MaxPatches is the maximum number of patches in one frame.
	MaxPatches = 10_000

	// MaxAttrs is the maximum number of attributes on an inserted node.
	MaxAttrs = 256
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHead     FrameType = 0x10 // Incremental head mutations
	FrameSnapshot FrameType = 0x11 // Full managed head
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHead:
		return "Head"
	case FrameSnapshot:
		return "Snapshot"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
	ErrUnknownPatchOp   = errors.New("protocol: unknown patch op")
	ErrTooManyPatches   = errors.New("protocol: too many patches")
	ErrTooManyAttrs     = errors.New("protocol: too many attributes")
)

// Attr is a single attribute of an inserted node.
type Attr struct {
	Key   string
	Value string
}

// Patch is a head mutation as carried on the wire.
type Patch struct {
	Op      vdom.PatchOp
	ID      string
	Key     string // SetAttr, RemoveAttr
	Value   string // SetAttr, SetText, InsertNode text
	Tag     string // InsertNode
	Attrs   []Attr // InsertNode
	HasText bool   // InsertNode
}

// Frame is a decoded frame.
type Frame struct {
	Type    FrameType
	Patches []Patch
}

// FromVDOM converts a vdom patch into its wire form. Only the operations a
// head needs are supported.
func FromVDOM(p vdom.Patch) (Patch, error) {
	out := Patch{Op: p.Op, ID: p.HID}

	switch p.Op {
	case vdom.PatchSetText:
		out.Value = p.Value
	case vdom.PatchSetAttr:
		out.Key, out.Value = p.Key, p.Value
	case vdom.PatchRemoveAttr:
		out.Key = p.Key
	case vdom.PatchRemoveNode:
	case vdom.PatchInsertNode:
		if p.Node == nil {
			return Patch{}, fmt.Errorf("protocol: insert %q without node", p.HID)
		}
		out.Tag = p.Node.Tag
		out.Attrs = wireAttrs(p.Node.Props)
		for _, child := range p.Node.Children {
			if child.Kind == vdom.KindText || child.Kind == vdom.KindRaw {
				out.HasText = true
				out.Value = child.Text
				break
			}
		}
	default:
		return Patch{}, fmt.Errorf("%w: %s", ErrUnknownPatchOp, p.Op)
	}
	return out, nil
}

// wireAttrs keeps string and true boolean props in key order.
func wireAttrs(props vdom.Props) []Attr {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]Attr, 0, len(keys))
	for _, k := range keys {
		switch v := props[k].(type) {
		case string:
			attrs = append(attrs, Attr{Key: k, Value: v})
		case bool:
			if v {
				attrs = append(attrs, Attr{Key: k})
			}
		}
	}
	return attrs
}

// Validate checks f against the limits DecodeFrame enforces.
func (f *Frame) Validate() error {
	if len(f.Patches) > MaxPatches {
		return fmt.Errorf("%w: %d", ErrTooManyPatches, len(f.Patches))
	}
	for i := range f.Patches {
		if err := validatePatch(&f.Patches[i]); err != nil {
			return err
		}
	}
	return nil
}

func validatePatch(p *Patch) error {
	if len(p.Attrs) > MaxAttrs {
		return fmt.Errorf("%w: %d on %q", ErrTooManyAttrs, len(p.Attrs), p.ID)
	}
	return nil
}

// EncodeVDOM converts vdom patches and encodes them as one frame. It fails
// when the frame would exceed MaxPatches or MaxAttrs.
func EncodeVDOM(ft FrameType, patches []vdom.Patch) ([]byte, error) {
	f, err := fromVDOMFrame(ft, patches)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return EncodeFrame(f), nil
}

// EncodeVDOMFrames converts vdom patches and encodes them as one or more
// frames that each decode within the limits. See EncodeFrames.
func EncodeVDOMFrames(ft FrameType, patches []vdom.Patch) ([][]byte, error) {
	f, err := fromVDOMFrame(ft, patches)
	if err != nil {
		return nil, err
	}
	return EncodeFrames(f)
}

func fromVDOMFrame(ft FrameType, patches []vdom.Patch) (*Frame, error) {
	wire := make([]Patch, 0, len(patches))
	for _, p := range patches {
		w, err := FromVDOM(p)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return &Frame{Type: ft, Patches: wire}, nil
}

// EncodeFrames splits f into frames of at most MaxPatches patches. The
// first frame keeps f.Type and the rest are FrameHead, so a split snapshot
// replaces the head once and then inserts the remainder. A patch with more
// than MaxAttrs attributes cannot be split and is an error.
func EncodeFrames(f *Frame) ([][]byte, error) {
	for i := range f.Patches {
		if err := validatePatch(&f.Patches[i]); err != nil {
			return nil, err
		}
	}
	if len(f.Patches) <= MaxPatches {
		return [][]byte{EncodeFrame(f)}, nil
	}

	frames := make([][]byte, 0, (len(f.Patches)+MaxPatches-1)/MaxPatches)
	ft := f.Type
	for start := 0; start < len(f.Patches); start += MaxPatches {
		end := min(start+MaxPatches, len(f.Patches))
		frames = append(frames, EncodeFrame(&Frame{Type: ft, Patches: f.Patches[start:end]}))
		ft = FrameHead
	}
	return frames, nil
}

// EncodeFrame encodes a frame to bytes.
func EncodeFrame(f *Frame) []byte {
	e := NewEncoder()
	EncodeFrameTo(e, f)
	return e.Bytes()
}

// EncodeFrameTo encodes a frame using the provided encoder.
func EncodeFrameTo(e *Encoder, f *Frame) {
	e.WriteByte(byte(f.Type))
	e.WriteUvarint(uint64(len(f.Patches)))
	for i := range f.Patches {
		encodePatch(e, &f.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.ID)

	switch p.Op {
	case vdom.PatchSetText:
		e.WriteString(p.Value)
	case vdom.PatchSetAttr:
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	case vdom.PatchRemoveAttr:
		e.WriteString(p.Key)
	case vdom.PatchInsertNode:
		e.WriteString(p.Tag)
		e.WriteUvarint(uint64(len(p.Attrs)))
		for _, a := range p.Attrs {
			e.WriteString(a.Key)
			e.WriteString(a.Value)
		}
		e.WriteBool(p.HasText)
		if p.HasText {
			e.WriteString(p.Value)
		}
	}
}

// DecodeFrame decodes a frame from bytes.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)

	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ft := FrameType(t)
	if ft != FrameHead && ft != FrameSnapshot {
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidFrameType, t)
	}

	count, err := d.ReadCount(MaxPatches, ErrTooManyPatches)
	if err != nil {
		return nil, err
	}

	f := &Frame{Type: ft, Patches: make([]Patch, 0, count)}
	for i := 0; i < count; i++ {
		p, err := decodePatch(d)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		f.Patches = append(f.Patches, p)
	}
	return f, nil
}

func decodePatch(d *Decoder) (Patch, error) {
	var p Patch

	op, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = vdom.PatchOp(op)
	if p.ID, err = d.ReadString(); err != nil {
		return p, err
	}

	switch p.Op {
	case vdom.PatchSetText:
		p.Value, err = d.ReadString()
	case vdom.PatchSetAttr:
		if p.Key, err = d.ReadString(); err != nil {
			return p, err
		}
		p.Value, err = d.ReadString()
	case vdom.PatchRemoveAttr:
		p.Key, err = d.ReadString()
	case vdom.PatchRemoveNode:
	case vdom.PatchInsertNode:
		err = decodeInsert(d, &p)
	default:
		err = fmt.Errorf("%w: 0x%02x", ErrUnknownPatchOp, op)
	}
	return p, err
}

func decodeInsert(d *Decoder, p *Patch) error {
	var err error
	if p.Tag, err = d.ReadString(); err != nil {
		return err
	}

	n, err := d.ReadCount(MaxAttrs, ErrTooManyAttrs)
	if err != nil {
		return err
	}
	if n > 0 {
		p.Attrs = make([]Attr, n)
	}
	for i := range p.Attrs {
		if p.Attrs[i].Key, err = d.ReadString(); err != nil {
			return err
		}
		if p.Attrs[i].Value, err = d.ReadString(); err != nil {
			return err
		}
	}

	if p.HasText, err = d.ReadBool(); err != nil {
		return err
	}
	if p.HasText {
		p.Value, err = d.ReadString()
	}
	return err
}
