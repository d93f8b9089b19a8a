package testutil

import "encoding/binary"

// RunSpec is one run to encode: a signed LCN delta from the previous run and a length.
type RunSpec struct {
	Delta    int64
	Clusters uint64
	Sparse   bool
}

// EncodeRuns produces the on-disk runlist encoding of runs, including the 0x00 terminator.
// Fields use the fewest bytes that hold their value, as NTFS writes them.
func EncodeRuns(runs []RunSpec) []byte {
	var out []byte
	for _, run := range runs {
		count := unsignedBytes(run.Clusters)
		var offset []byte
		if !run.Sparse {
			offset = signedBytes(run.Delta)
		}
		out = append(out, byte(len(offset)<<4|len(count)))
		out = append(out, count...)
		out = append(out, offset...)
	}
	return append(out, 0x00)
}

func unsignedBytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	n := 8
	for n > 1 && buf[n-1] == 0 {
		n--
	}
	return buf[:n]
}

func signedBytes(v int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	n := 8
	for n > 1 {
		top, next := buf[n-1], buf[n-2]
		if v >= 0 && top == 0x00 && next&0x80 == 0 {
			n--
			continue
		}
		if v < 0 && top == 0xFF && next&0x80 != 0 {
			n--
			continue
		}
		break
	}
	return buf[:n]
}
