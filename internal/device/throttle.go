package device

import (
	"github.com/juju/ratelimit"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"
)

// ThrottledVolume delays sector reads so the average rate stays under a byte budget.
type ThrottledVolume struct {
	interfaces.Volume
	bucket *ratelimit.Bucket
}

// Throttle wraps vol with a token bucket of bytesPerSecond. A non-positive rate returns
// vol unchanged.
func Throttle(vol interfaces.Volume, bytesPerSecond int64) interfaces.Volume {
	if bytesPerSecond <= 0 {
		return vol
	}
	// One second of burst, but never less than a single default chunk.
	capacity := bytesPerSecond
	if floor := int64(DefaultChunkSectors) * int64(vol.BytesPerSector()); capacity < floor {
		capacity = floor
	}
	return &ThrottledVolume{
		Volume: vol,
		bucket: ratelimit.NewBucketWithRate(float64(bytesPerSecond), capacity),
	}
}

// ReadSectors waits for enough tokens and then reads from the wrapped volume.
func (t *ThrottledVolume) ReadSectors(start uint64, count uint32) ([]byte, error) {
	t.bucket.Wait(int64(count) * int64(t.BytesPerSector()))
	return t.Volume.ReadSectors(start, count)
}
