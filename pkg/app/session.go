package app

import (
	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/services"
)

// OpenSession opens target, applies the read throttle, and decodes the boot sector.
// The caller closes the returned volume.
func OpenSession(ctx *Context, target DeviceTarget, cfg device.Config) (interfaces.Volume, *services.Session, error) {
	cfg.Partition = target.Partition

	opener := ctx.Opener
	if opener == nil {
		opener = &device.Opener{Config: &cfg, Logger: ctx.Logger}
	}

	vol, err := opener.Open(target.Path)
	if err != nil {
		return nil, nil, NewError(ErrCodeDeviceAccess, "failed to open "+target.String(), err)
	}

	session, err := services.NewSession(device.Throttle(vol, cfg.MaxReadRate), ctx.Logger)
	if err != nil {
		vol.Close()
		return nil, nil, SessionError(err)
	}
	return vol, session, nil
}
