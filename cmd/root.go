package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/logging"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	outputFormat string

	// Configuration sources
	configFile  string
	logFile     string
	catalogFile string

	// Device selection shared by every command that opens a volume
	partition   int
	sectorSize  uint32
	maxReadRate int64

	// config is loaded before any subcommand runs
	config *device.Config
)

var rootCmd = &cobra.Command{
	Use:   "ntfs-recover",
	Short: "Find and recover deleted files on NTFS volumes",
	Long: `ntfs-recover is a read-only command-line tool that scans the Master File Table
of an NTFS volume for deleted file records and copies their clusters back out.

Works directly with raw volumes (\\.\C: on Windows, /dev/sdb1 on Linux), whole-disk
images with an MBR or GPT partition table, and plain volume images.

Commands:
  volumes     List candidate volumes or the partitions of a disk image
  info        Show the boot sector geometry of a volume
  scan        List deleted files found in the MFT
  recover     Recover one deleted file`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ntfs-recover.yaml in ., ./config, $HOME/.ntfs-recover, /etc/ntfs-recover)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write a JSON debug log to this file")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "db", "", "SQLite catalog that scan saves to and recover --index reads from")

	rootCmd.PersistentFlags().IntVarP(&partition, "partition", "p", device.NoPartition, "partition slot in a whole-disk image (0 = first NTFS partition)")
	rootCmd.PersistentFlags().Uint32Var(&sectorSize, "sector-size", 0, "override the device sector size")
	rootCmd.PersistentFlags().Int64Var(&maxReadRate, "max-read-rate", 0, "limit device reads to this many bytes per second")
}

// initRuntime loads the configuration, lets explicit flags override it, and sets up logging.
func initRuntime(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	loaded, err := device.LoadConfig(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("partition") {
		loaded.Partition = partition
	}
	if flags.Changed("sector-size") {
		loaded.SectorSize = sectorSize
	}
	if flags.Changed("max-read-rate") {
		loaded.MaxReadRate = maxReadRate
	}
	if logFile != "" {
		loaded.LogFile = logFile
	}
	if flags.Changed("db") {
		loaded.Catalog = catalogFile
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	if _, err := logging.Setup(logging.Options{
		Level:   loaded.LogLevel,
		File:    loaded.LogFile,
		Verbose: verbose,
		Quiet:   quiet,
		Output:  cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}

	config = loaded
	return nil
}

// newContext builds the application context for one command run. The returned context
// is cancelled on interrupt.
func newContext(cmd *cobra.Command) (*app.Context, context.CancelFunc) {
	ctx := app.NewContext()
	ctx.OutputFormat = outputFormat
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.Stdout = cmd.OutOrStdout()
	ctx.Logger = logging.Logger()

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx.Context = signalCtx
	return ctx, stop
}

// target builds the device selection for a command argument.
func target(path string) app.DeviceTarget {
	return app.DeviceTarget{Path: path, Partition: config.Partition}
}
