package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/info"
)

var infoCmd = &cobra.Command{
	Use:   "info <device>",
	Short: "Show the boot sector geometry of an NTFS volume",
	Long: `Decode the NTFS boot sector and print the volume geometry.

Examples:
  ntfs-recover info C:
  ntfs-recover info disk.img --partition 0`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, devicePath string) error {
	ctx, stop := newContext(cmd)
	defer stop()

	request := &info.Request{
		Target: target(devicePath),
		Config: *config,
	}

	response, err := info.Handle(ctx, request)
	if err != nil {
		return err
	}
	return info.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
}
