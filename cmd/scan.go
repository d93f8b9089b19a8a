package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/scan"
)

var (
	// File matching criteria
	namePattern     string
	extensions      []string
	minSize         string
	maxSize         string
	recoverableOnly bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <device>",
	Short: "List deleted files found in the MFT",
	Long: `Walk the Master File Table and list records of deleted files. The '#' column
is the position used by 'recover --index'; filters do not change it.

Examples:
  # Scan the first 10000 MFT entries of drive C
  ntfs-recover scan C:

  # Scan the whole MFT for JPEGs larger than 100KB
  ntfs-recover scan /dev/sdb1 --max-entries 0 --ext jpg,jpeg --min-size 100KB

  # Scan the first NTFS partition of a disk image, as JSON
  ntfs-recover scan disk.img --partition 0 -o json

  # Keep the result so a later recover --index does not rescan
  ntfs-recover scan /dev/sdb1 --db scans.db`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addRangeFlags(scanCmd)

	scanCmd.Flags().StringVarP(&namePattern, "name", "n", "", "filename pattern (wildcards: *, ?)")
	scanCmd.Flags().StringSliceVar(&extensions, "ext", nil, "file extensions (pdf,jpg,txt)")
	scanCmd.Flags().StringVar(&minSize, "min-size", "", "minimum file size (10MB, 1GB)")
	scanCmd.Flags().StringVar(&maxSize, "max-size", "", "maximum file size (100MB, 2GB)")
	scanCmd.Flags().BoolVar(&recoverableOnly, "recoverable", false, "only list files with cluster runs")
}

func runScan(cmd *cobra.Command, devicePath string) error {
	ctx, stop := newContext(cmd)
	defer stop()
	attachProgress(ctx)
	applyRangeFlags(cmd)

	request := &scan.Request{
		Target:          target(devicePath),
		Config:          *config,
		NamePattern:     namePattern,
		Extensions:      extensions,
		MinSize:         minSize,
		MaxSize:         maxSize,
		RecoverableOnly: recoverableOnly,
	}

	response, err := scan.Handle(ctx, request)
	if err != nil {
		return err
	}
	return scan.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
}
