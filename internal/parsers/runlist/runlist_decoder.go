// Package runlist decodes the mapping-pairs array of non-resident NTFS attributes.
package runlist

import (
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// DecodeRuns decodes the runlist of a non-resident attribute found in buf.
// Resident attributes have no runlist and yield an empty list. Decoding never reads past
// the attribute's declared end.
func DecodeRuns(buf []byte, attr types.AttributeHeader) types.RunList {
	if !attr.NonResident {
		return nil
	}
	start := attr.Offset + int(attr.RunListOffset)
	end := attr.End()
	if end > len(buf) {
		end = len(buf)
	}
	if start < 0 || start >= end {
		return nil
	}
	runs, _ := Decode(buf[start:end])
	return runs
}

// Decode parses a raw runlist. It returns the runs decoded so far and types.WalkNormal on
// a 0x00 terminator, or types.WalkTruncated when a field overruns data, a run has a zero
// length field, or data ends without a terminator.
func Decode(data []byte) (types.RunList, types.WalkEnd) {
	var (
		runs types.RunList
		lcn  int64
		pos  int
	)

	for pos < len(data) {
		control := data[pos]
		if control == 0 {
			return runs, types.WalkNormal
		}
		pos++

		countLen := int(control & 0x0F)
		offsetLen := int(control >> 4)
		if countLen == 0 || countLen > 8 || offsetLen > 8 || pos+countLen+offsetLen > len(data) {
			return runs, types.WalkTruncated
		}

		clusters := readUnsigned(data[pos : pos+countLen])
		pos += countLen

		if offsetLen == 0 {
			runs = append(runs, types.DataRun{LCN: uint64(lcn), Clusters: clusters, Sparse: true})
			continue
		}

		lcn += readSigned(data[pos : pos+offsetLen])
		pos += offsetLen
		runs = append(runs, types.DataRun{LCN: uint64(lcn), Clusters: clusters})
	}

	return runs, types.WalkTruncated
}

func readUnsigned(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// readSigned sign-extends from the top bit of the last byte.
func readSigned(b []byte) int64 {
	v := readUnsigned(b)
	bits := uint(len(b) * 8)
	if bits < 64 && v&(1<<(bits-1)) != 0 {
		v |= ^uint64(0) << bits
	}
	return int64(v)
}
