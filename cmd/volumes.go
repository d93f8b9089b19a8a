package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/volumes"
)

var (
	volumesImage    string
	volumesAll      bool
	volumesNTFSOnly bool
)

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List candidate volumes or the partitions of a disk image",
	Long: `List mounted volumes reported by the operating system, or the partition table
of a whole-disk device or image.

Examples:
  # List NTFS volumes
  ntfs-recover volumes --ntfs

  # Show the partitions of a disk image
  ntfs-recover volumes --image disk.img`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVolumes(cmd)
	},
}

func init() {
	rootCmd.AddCommand(volumesCmd)

	volumesCmd.Flags().StringVar(&volumesImage, "image", "", "list the partitions of this disk or image")
	volumesCmd.Flags().BoolVarP(&volumesAll, "all", "a", false, "include pseudo filesystems")
	volumesCmd.Flags().BoolVar(&volumesNTFSOnly, "ntfs", false, "only show NTFS volumes or partitions")
}

func runVolumes(cmd *cobra.Command) error {
	ctx, stop := newContext(cmd)
	defer stop()

	request := &volumes.Request{
		Image:    volumesImage,
		All:      volumesAll,
		NTFSOnly: volumesNTFSOnly,
	}

	response, err := volumes.Handle(ctx, request)
	if err != nil {
		return err
	}
	return volumes.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
}
