package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/recovery"
)

var (
	recoverIndex     int
	recoverEntry     int64
	recoverOut       string
	recoverOverwrite bool
	recoverHash      string
)

var recoverCmd = &cobra.Command{
	Use:   "recover <device>",
	Short: "Recover one deleted file",
	Long: `Copy the clusters of a deleted file to an output file, stopping at the size
recorded in the MFT. Select the file by its position in the scan list (--index, using
the same range flags as the scan) or by its MFT entry number (--entry). With --db,
--index refers to the latest scan of the device saved in that catalog.

Examples:
  # Recover the third file listed by 'scan C:' into ./recovered/
  ntfs-recover recover C: --index 2 --out ./recovered/

  # Recover MFT entry 1234 to a chosen path and print its SHA-256
  ntfs-recover recover /dev/sdb1 --entry 1234 --out photo.jpg --hash sha256

  # Recover from a scan saved earlier with 'scan /dev/sdb1 --db scans.db'
  ntfs-recover recover /dev/sdb1 --db scans.db --index 7 --out ./recovered/`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecover(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	addRangeFlags(recoverCmd)

	recoverCmd.Flags().IntVar(&recoverIndex, "index", recovery.NoSelection, "position in the scan list")
	recoverCmd.Flags().Int64Var(&recoverEntry, "entry", recovery.NoSelection, "MFT entry number")
	recoverCmd.Flags().StringVar(&recoverOut, "out", ".", "output file, or directory to receive the original file name")
	recoverCmd.Flags().BoolVar(&recoverOverwrite, "overwrite", false, "overwrite an existing output file")
	recoverCmd.Flags().StringVar(&recoverHash, "hash", "", "digest of the recovered bytes (md5, sha1, sha256)")

	recoverCmd.MarkFlagsMutuallyExclusive("index", "entry")
	recoverCmd.MarkFlagsOneRequired("index", "entry")
}

func runRecover(cmd *cobra.Command, devicePath string) error {
	ctx, stop := newContext(cmd)
	defer stop()
	attachProgress(ctx)
	applyRangeFlags(cmd)

	if cmd.Flags().Changed("overwrite") {
		config.Overwrite = recoverOverwrite
	}
	if cmd.Flags().Changed("hash") {
		config.Hash = recoverHash
	}

	request := recovery.NewRequest()
	request.Target = target(devicePath)
	request.Config = *config
	request.OutputPath = recoverOut
	if cmd.Flags().Changed("index") {
		request.Index = recoverIndex
	}
	if cmd.Flags().Changed("entry") {
		request.Entry = recoverEntry
	}

	response, err := recovery.Handle(ctx, request)
	if err != nil {
		return err
	}
	if err := recovery.FormatOutput(ctx.Stdout, response, ctx.OutputFormat); err != nil {
		return err
	}
	return response.Err()
}
