package testutil

import "github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"

// Opener hands out the same volume for every designator.
type Opener struct {
	Volume interfaces.Volume
	Err    error

	// Opened lists every designator passed to Open.
	Opened []string
}

// Open implements interfaces.VolumeOpener.
func (o *Opener) Open(designator string) (interfaces.Volume, error) {
	o.Opened = append(o.Opened, designator)
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Volume, nil
}
