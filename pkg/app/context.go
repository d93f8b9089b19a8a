package app

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Stdout receives formatted command output.
	Stdout io.Writer
	// Logger receives diagnostics. Handlers pass it down to the services.
	Logger logrus.FieldLogger

	// Opener overrides how devices are opened. Nil uses device.Opener.
	Opener interfaces.VolumeOpener

	// Progress reporting
	ProgressCallback func(update ProgressUpdate)
}

// NewContext creates a new application context
func NewContext() *Context {
	return &Context{
		Context:      context.Background(),
		OutputFormat: "table",
		Stdout:       os.Stdout,
		Logger:       logrus.StandardLogger(),
	}
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(ProgressUpdate)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(update ProgressUpdate) {
	if c.ProgressCallback != nil && !c.Quiet {
		c.ProgressCallback(update)
	}
}

// Log writes an informational message
func (c *Context) Log(message string) {
	if c.Logger != nil {
		c.Logger.Info(message)
	}
}

// Debug writes a message shown only in verbose mode
func (c *Context) Debug(message string) {
	if c.Logger != nil {
		c.Logger.Debug(message)
	}
}
