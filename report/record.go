// Package report renders benchmark results: a coloured summary table for
// the terminal, a plain text file, a single-row CSV file and JSON.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/weiihann/hwscore/harness"
	"github.com/weiihann/hwscore/score"
)

// DateLayout is the timestamp format used in every rendering.
const DateLayout = "2006-01-02 15:04:05"

// Record is everything a rendering needs about one run.
type Record struct {
	System string         `json:"system"`
	CPU    string         `json:"cpu"`
	Date   time.Time      `json:"date"`
	Config harness.Config `json:"config"`
	Result harness.Result `json:"result"`
	Scores score.Scores   `json:"scores"`
}

// NewRecord scores res and attaches host information.
func NewRecord(cfg harness.Config, res *harness.Result, now time.Time) Record {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}

	return Record{
		System: host,
		CPU:    cpuDescription(),
		Date:   now,
		Config: cfg,
		Result: *res,
		Scores: score.Compute(res.Metrics),
	}
}

// MFLOPS returns the selected CPU rate in millions of operations per second.
func (r Record) MFLOPS() float64 {
	return r.Result.Metrics.CPUFlops / 1e6
}

func (r Record) date() string {
	return r.Date.Format(DateLayout)
}

func cpuDescription() string {
	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = "unknown CPU"
	}

	return fmt.Sprintf("%s (%d physical / %d logical cores)",
		brand, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
}
