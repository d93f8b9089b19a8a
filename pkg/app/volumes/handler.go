package volumes

import (
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

// Enumeration hooks, replaceable in tests.
var (
	listVolumes    = device.ListVolumes
	listPartitions = device.ListPartitions
)

// Handle lists mounted volumes, or the partitions of req.Image
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if req.Image != "" {
		return handleImage(ctx, req)
	}

	volumes, err := listVolumes(req.All)
	if err != nil {
		return nil, app.NewError(app.ErrCodeDeviceAccess, "failed to enumerate volumes", err)
	}

	response := &Response{}
	for _, v := range volumes {
		if req.NTFSOnly && !v.NTFS {
			continue
		}
		response.Volumes = append(response.Volumes, v)
	}
	ctx.Debug(fmt.Sprintf("Enumerated %d volumes, %d listed", len(volumes), len(response.Volumes)))
	return response, nil
}

func handleImage(ctx *app.Context, req *Request) (*Response, error) {
	parts, err := listPartitions(req.Image)
	if err != nil {
		return nil, app.NewError(app.ErrCodeDeviceAccess, "failed to read partition table", err)
	}

	response := &Response{Image: req.Image}
	for _, p := range parts {
		if req.NTFSOnly && !p.NTFS {
			continue
		}
		response.Partitions = append(response.Partitions, p)
	}
	ctx.Debug(fmt.Sprintf("Read %d partitions from %s", len(parts), req.Image))
	return response, nil
}
