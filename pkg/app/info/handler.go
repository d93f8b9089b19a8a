package info

import (
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

// Handle reads the boot sector of the requested device
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vol, session, err := app.OpenSession(ctx, req.Target, req.Config)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	return &Response{
		Device:   vol.Path(),
		Geometry: NewGeometryInfo(session.Geometry()),
	}, nil
}
