package device

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tunables shared by the scan and recover commands.
type Config struct {
	// SectorSize overrides the detected sector size when non-zero.
	SectorSize uint32 `mapstructure:"sector_size"`
	// Partition selects a partition of a whole-disk image: -1 uses the device as is,
	// 0 picks the first NTFS partition, N picks table slot N.
	Partition int `mapstructure:"partition"`

	MaxEntries   uint64 `mapstructure:"max_entries"`
	StartEntry   uint64 `mapstructure:"start_entry"`
	ChunkSectors uint32 `mapstructure:"chunk_sectors"`
	ApplyFixups  bool   `mapstructure:"apply_fixups"`

	Overwrite bool `mapstructure:"overwrite"`
	// MaxReadRate caps device reads in bytes per second. Zero is unlimited.
	MaxReadRate int64  `mapstructure:"max_read_rate"`
	Hash        string `mapstructure:"hash"`

	// Catalog is a SQLite file that scans are saved to and recover --index reads from.
	Catalog string `mapstructure:"catalog"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// Defaults used when neither a config file nor the environment sets a value.
const (
	DefaultMaxEntries   = 10000
	DefaultChunkSectors = 256
	NoPartition         = -1
)

// LoadConfig reads ntfs-recover.yaml from the usual locations, or configFile when given,
// then applies NTFSREC_* environment overrides. A missing config file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("ntfs-recover")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.ntfs-recover")
		v.AddConfigPath("/etc/ntfs-recover")
	}

	v.SetDefault("sector_size", 0)
	v.SetDefault("partition", NoPartition)
	v.SetDefault("max_entries", DefaultMaxEntries)
	v.SetDefault("start_entry", 0)
	v.SetDefault("chunk_sectors", DefaultChunkSectors)
	v.SetDefault("apply_fixups", false)
	v.SetDefault("overwrite", false)
	v.SetDefault("max_read_rate", 0)
	v.SetDefault("hash", "")
	v.SetDefault("catalog", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("NTFSREC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that would make a scan or recovery meaningless.
func (c *Config) Validate() error {
	if c.ChunkSectors == 0 {
		return fmt.Errorf("chunk_sectors must be positive")
	}
	if c.SectorSize != 0 && (c.SectorSize < 512 || c.SectorSize&(c.SectorSize-1) != 0) {
		return fmt.Errorf("sector_size %d is not a power of two of at least 512", c.SectorSize)
	}
	if c.Partition < NoPartition {
		return fmt.Errorf("partition %d is invalid", c.Partition)
	}
	if c.MaxReadRate < 0 {
		return fmt.Errorf("max_read_rate must not be negative")
	}
	switch c.Hash {
	case "", "md5", "sha1", "sha256":
	default:
		return fmt.Errorf("unsupported hash %q", c.Hash)
	}
	return nil
}
