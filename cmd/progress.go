package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

// scan range flags, shared by scan and recover
var (
	rangeStart      uint64
	rangeMaxEntries uint64
	rangeFixups     bool
)

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&rangeStart, "start", 0, "first MFT entry to examine")
	cmd.Flags().Uint64Var(&rangeMaxEntries, "max-entries", 0, "number of MFT entries to examine (0 = whole MFT; default from config)")
	cmd.Flags().BoolVar(&rangeFixups, "fixups", false, "apply update sequence fix-ups before decoding records")
}

// applyRangeFlags copies explicitly set range flags over the loaded configuration.
func applyRangeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("start") {
		config.StartEntry = rangeStart
	}
	if flags.Changed("max-entries") {
		config.MaxEntries = rangeMaxEntries
	}
	if flags.Changed("fixups") {
		config.ApplyFixups = rangeFixups
	}
}

// attachProgress shows a single updating progress line on stderr when it is a terminal.
func attachProgress(ctx *app.Context) {
	if ctx.Quiet || !isatty.IsTerminal(os.Stderr.Fd()) {
		return
	}
	ctx.SetProgress(progressPrinter(os.Stderr))
}

func progressPrinter(w io.Writer) func(app.ProgressUpdate) {
	return func(u app.ProgressUpdate) {
		fmt.Fprintf(w, "\r%s: %3d%% (%s of %s entries, %d found)",
			u.Message, u.Percent(), humanize.Comma(u.Completed), humanize.Comma(u.Total), u.Found)
		if eta := u.ETA(); eta > 0 {
			fmt.Fprintf(w, " ETA %s   ", eta.Round(time.Second))
		}
		if u.Completed >= u.Total {
			fmt.Fprintln(w)
		}
	}
}
