package mft

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// AttributeWalker iterates the attribute headers of one record buffer.
//
// The walk is lazy and one-shot: create a new walker to start over. It ends at an
// end marker or zero type code (types.WalkNormal), or at the first header whose length
// is zero, overruns the buffer, or is too short for its form (types.WalkTruncated).
// Deleted records are often partly overwritten, so truncation is an expected outcome
// and not an error.
type AttributeWalker struct {
	buf    []byte
	offset int
	end    types.WalkEnd
}

// NewAttributeWalker starts a walk at header.FirstAttributeOffset.
func NewAttributeWalker(buf []byte, header types.FileRecordHeader) *AttributeWalker {
	return &AttributeWalker{buf: buf, offset: int(header.FirstAttributeOffset)}
}

// Next returns the next attribute header. ok is false once the walk has ended.
func (w *AttributeWalker) Next() (types.AttributeHeader, bool) {
	if w.end != types.WalkInProgress {
		return types.AttributeHeader{}, false
	}

	le := binary.LittleEndian
	if w.offset < 0 || w.offset+4 > len(w.buf) {
		return w.stop(types.WalkTruncated)
	}

	attrType := types.AttributeType(le.Uint32(w.buf[w.offset+types.AttrTypeOffset:]))
	if attrType == types.AttributeEnd || attrType == 0 {
		return w.stop(types.WalkNormal)
	}

	if w.offset+types.AttributeCommonHeaderSize > len(w.buf) {
		return w.stop(types.WalkTruncated)
	}

	length := le.Uint32(w.buf[w.offset+types.AttrLengthOffset:])
	if length == 0 || uint64(w.offset)+uint64(length) > uint64(len(w.buf)) {
		return w.stop(types.WalkTruncated)
	}

	raw := w.buf[w.offset : w.offset+int(length)]
	attr := types.AttributeHeader{
		Offset:      w.offset,
		Type:        attrType,
		Length:      length,
		NonResident: raw[types.AttrNonResidentOffset] != 0,
		NameLength:  raw[types.AttrNameLengthOffset],
		NameOffset:  le.Uint16(raw[types.AttrNameOffsetOffset:]),
		Flags:       types.AttributeFlags(le.Uint16(raw[types.AttrFlagsOffset:])),
		ID:          le.Uint16(raw[types.AttrIDOffset:]),
	}

	if attr.NonResident {
		if len(raw) < types.NonResidentHeaderSize {
			return w.stop(types.WalkTruncated)
		}
		attr.StartVCN = le.Uint64(raw[types.AttrStartVCNOffset:])
		attr.EndVCN = le.Uint64(raw[types.AttrEndVCNOffset:])
		attr.RunListOffset = le.Uint16(raw[types.AttrRunListOffsetOffset:])
		attr.CompressionUnit = le.Uint16(raw[types.AttrCompressionUnitOffset:])
		attr.AllocatedSize = le.Uint64(raw[types.AttrAllocatedSizeOffset:])
		attr.RealSize = le.Uint64(raw[types.AttrRealSizeOffset:])
		attr.InitializedSize = le.Uint64(raw[types.AttrInitializedSizeOffset:])
	} else {
		if len(raw) < types.ResidentHeaderSize {
			return w.stop(types.WalkTruncated)
		}
		attr.ValueLength = le.Uint32(raw[types.AttrValueLengthOffset:])
		attr.ValueOffset = le.Uint16(raw[types.AttrValueOffsetOffset:])
	}

	w.offset += int(length)
	return attr, true
}

// End reports how the walk finished, or types.WalkInProgress if it has not.
func (w *AttributeWalker) End() types.WalkEnd {
	return w.end
}

func (w *AttributeWalker) stop(end types.WalkEnd) (types.AttributeHeader, bool) {
	w.end = end
	return types.AttributeHeader{}, false
}

// Attributes walks the whole record and returns every header plus how the walk ended.
func Attributes(buf []byte, header types.FileRecordHeader) ([]types.AttributeHeader, types.WalkEnd) {
	walker := NewAttributeWalker(buf, header)
	var attrs []types.AttributeHeader
	for {
		attr, ok := walker.Next()
		if !ok {
			return attrs, walker.End()
		}
		attrs = append(attrs, attr)
	}
}

// FindAttribute returns the first attribute of the given type.
func FindAttribute(buf []byte, header types.FileRecordHeader, attrType types.AttributeType) (types.AttributeHeader, error) {
	walker := NewAttributeWalker(buf, header)
	for {
		attr, ok := walker.Next()
		if !ok {
			return types.AttributeHeader{}, types.ErrNotFound
		}
		if attr.Type == attrType {
			return attr, nil
		}
	}
}

// residentValue returns the bytes of a resident attribute's value, bounded by both the
// attribute and the buffer. ok is false when the declared value does not fit.
func residentValue(buf []byte, attr types.AttributeHeader) ([]byte, bool) {
	if attr.NonResident {
		return nil, false
	}
	start := uint64(attr.Offset) + uint64(attr.ValueOffset)
	end := start + uint64(attr.ValueLength)
	if end > uint64(attr.End()) || end > uint64(len(buf)) {
		return nil, false
	}
	return buf[start:end], true
}
