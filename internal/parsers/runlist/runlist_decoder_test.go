package runlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/parsers/mft"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want types.RunList
		end  types.WalkEnd
	}{
		{
			name: "single run",
			data: []byte{0x21, 0x18, 0x34, 0x56, 0x00},
			want: types.RunList{{LCN: 0x5634, Clusters: 0x18}},
			end:  types.WalkNormal,
		},
		{
			name: "backward delta sign extension",
			data: []byte{0x11, 0x30, 0x60, 0x21, 0x10, 0x00, 0x01, 0x11, 0x08, 0xF0, 0x00},
			want: types.RunList{
				{LCN: 0x60, Clusters: 0x30},
				{LCN: 0x160, Clusters: 0x10},
				{LCN: 0x150, Clusters: 0x08},
			},
			end: types.WalkNormal,
		},
		{
			name: "sparse run keeps lcn",
			data: []byte{0x11, 0x04, 0x10, 0x01, 0x08, 0x11, 0x04, 0x10, 0x00},
			want: types.RunList{
				{LCN: 0x10, Clusters: 4},
				{LCN: 0x10, Clusters: 8, Sparse: true},
				{LCN: 0x20, Clusters: 4},
			},
			end: types.WalkNormal,
		},
		{
			name: "empty",
			data: []byte{0x00},
			want: nil,
			end:  types.WalkNormal,
		},
		{
			name: "offset overruns data",
			data: []byte{0x11, 0x04, 0x10, 0x32, 0x01, 0x00},
			want: types.RunList{{LCN: 0x10, Clusters: 4}},
			end:  types.WalkTruncated,
		},
		{
			name: "zero count length",
			data: []byte{0x11, 0x04, 0x10, 0x10, 0x05, 0x00},
			want: types.RunList{{LCN: 0x10, Clusters: 4}},
			end:  types.WalkTruncated,
		},
		{
			name: "missing terminator",
			data: []byte{0x11, 0x04, 0x10},
			want: types.RunList{{LCN: 0x10, Clusters: 4}},
			end:  types.WalkTruncated,
		},
		{
			name: "nine-byte field",
			data: []byte{0x19, 0x01, 0x00},
			want: nil,
			end:  types.WalkTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, end := Decode(tt.data)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestDecode_Idempotent(t *testing.T) {
	data := testutil.EncodeRuns([]testutil.RunSpec{
		{Delta: 1000, Clusters: 2},
		{Delta: -300, Clusters: 70000},
		{Clusters: 16, Sparse: true},
		{Delta: 1 << 33, Clusters: 1},
	})

	first, end := Decode(data)
	require.Equal(t, types.WalkNormal, end)
	second, _ := Decode(data)
	assert.Equal(t, first, second)

	require.Len(t, first, 4)
	assert.Equal(t, uint64(1000), first[0].LCN)
	assert.Equal(t, uint64(700), first[1].LCN)
	assert.Equal(t, uint64(70000), first[1].Clusters)
	assert.True(t, first[2].Sparse)
	assert.Equal(t, uint64(700+1<<33), first[3].LCN)
	assert.Equal(t, uint64(70019), first.TotalClusters())
}

func TestReadSigned(t *testing.T) {
	tests := []struct {
		in   []byte
		want int64
	}{
		{[]byte{0x7F}, 127},
		{[]byte{0x80}, -128},
		{[]byte{0xFF, 0xFF}, -1},
		{[]byte{0x00, 0x80}, -32768},
		{[]byte{0x00, 0x00, 0x01}, 65536},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, readSigned(tt.in), "% x", tt.in)
	}
}

func TestDecodeRuns(t *testing.T) {
	t.Run("non-resident data", func(t *testing.T) {
		buf := testutil.NewRecord(1024, 0).
			AddNonResidentData(5000, testutil.EncodeRuns([]testutil.RunSpec{{Delta: 1000, Clusters: 2}}), 0).
			Bytes()
		header, err := mft.DecodeFileRecordHeader(buf)
		require.NoError(t, err)
		attr, err := mft.FindDataAttribute(buf, header)
		require.NoError(t, err)

		assert.Equal(t, types.RunList{{LCN: 1000, Clusters: 2}}, DecodeRuns(buf, attr))
	})

	t.Run("resident data has no runs", func(t *testing.T) {
		buf := testutil.NewRecord(1024, 0).AddResidentData([]byte{0x21, 0x01, 0x10, 0x00}).Bytes()
		header, err := mft.DecodeFileRecordHeader(buf)
		require.NoError(t, err)
		attr, err := mft.FindDataAttribute(buf, header)
		require.NoError(t, err)

		assert.Empty(t, DecodeRuns(buf, attr))
	})

	t.Run("bounded by attribute end", func(t *testing.T) {
		// The runlist lacks its terminator and is followed by bytes that would decode
		// as another run if the attribute boundary were ignored.
		attr := types.AttributeHeader{Offset: 0, Length: 0x43, NonResident: true, RunListOffset: 0x40}
		buf := make([]byte, 0x48)
		copy(buf[0x40:], []byte{0x11, 0x02, 0x05, 0x11, 0x03, 0x07, 0x00})

		assert.Equal(t, types.RunList{{LCN: 5, Clusters: 2}}, DecodeRuns(buf, attr))
	})

	t.Run("runlist offset outside attribute", func(t *testing.T) {
		attr := types.AttributeHeader{Offset: 0, Length: 0x40, NonResident: true, RunListOffset: 0x80}
		assert.Empty(t, DecodeRuns(make([]byte, 0x100), attr))
	})
}
