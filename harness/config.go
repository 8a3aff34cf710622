package harness

import (
	"os"
	"time"

	"github.com/weiihann/hwscore/timing"
)

// Defaults applied by Normalize to unset or invalid fields.
const (
	DefaultWorkers          = 4
	DefaultMemoryBlockBytes = 100 * timing.MiB
	DefaultFileBytes        = 10 * timing.MiB
	DefaultDuration         = 20 * time.Second
)

// Config holds the parameters of one benchmark run. It is built once at
// startup and not modified afterwards.
type Config struct {
	WorkersPerFamily int
	MemoryBlockBytes int
	FileBytes        int
	Duration         time.Duration
	Verbose          bool

	// TempDir holds the per-worker disk files. Empty means os.TempDir().
	TempDir string

	// PinWorkers pins each worker's OS thread to a CPU core where supported.
	PinWorkers bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		WorkersPerFamily: DefaultWorkers,
		MemoryBlockBytes: DefaultMemoryBlockBytes,
		FileBytes:        DefaultFileBytes,
		Duration:         DefaultDuration,
		TempDir:          os.TempDir(),
	}
}

// Normalize returns a copy of c with every non-positive field replaced by
// its default.
func (c Config) Normalize() Config {
	if c.WorkersPerFamily <= 0 {
		c.WorkersPerFamily = DefaultWorkers
	}
	if c.MemoryBlockBytes <= 0 {
		c.MemoryBlockBytes = DefaultMemoryBlockBytes
	}
	if c.FileBytes <= 0 {
		c.FileBytes = DefaultFileBytes
	}
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}

	return c
}

// TotalWorkers is the number of workers spawned across all families.
func (c Config) TotalWorkers() int {
	return c.WorkersPerFamily * len(Families())
}
