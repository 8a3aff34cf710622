package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/weiihann/hwscore/harness"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
)

// Generate writes the human-readable report to w. With perWorker set, a
// second table lists every worker's own measurements.
func Generate(w io.Writer, rec Record, perWorker bool) error {
	m := rec.Result.Metrics
	s := rec.Scores

	bold.Fprintln(w, "HARDWARE PERFORMANCE BENCHMARK")
	fmt.Fprintf(w, "System: %s\n", rec.System)
	fmt.Fprintf(w, "CPU:    %s\n", rec.CPU)
	fmt.Fprintf(w, "Date:   %s\n", rec.date())
	fmt.Fprintf(w, "Run:    %d workers per family, %s memory block, %s file, %s\n",
		rec.Config.WorkersPerFamily,
		humanize.IBytes(uint64(rec.Config.MemoryBlockBytes)),
		humanize.IBytes(uint64(rec.Config.FileBytes)),
		rec.Config.Duration,
	)
	fmt.Fprintln(w)

	fmt.Fprint(w, "BENCHMARK SCORE: ")
	scoreColor(s.Overall).Fprintf(w, "%d\n", s.Overall)

	if rec.Result.Interrupted {
		yellow.Fprintln(w, "Run was interrupted; results are partial.")
	}

	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Component", "Metric", "Raw Value", "Score")

	rows := [][]string{
		{"CPU", "Floating Point", decimal(m.CPUFlops/1e6) + " MFLOPS", strconv.Itoa(s.CPU)},
		{"Memory", "Read Bandwidth", decimal(m.MemoryReadMBps) + " MiB/s", ""},
		{"Memory", "Write Bandwidth", decimal(m.MemoryWriteMBps) + " MiB/s", strconv.Itoa(s.Memory)},
		{"Disk", "Sequential Read", decimal(m.DiskReadMBps) + " MiB/s", ""},
		{"Disk", "Sequential Write", decimal(m.DiskWriteMBps) + " MiB/s", ""},
		{"Disk", "Random Access", decimal(m.DiskIOPS) + " IOPS", strconv.Itoa(s.Disk)},
	}

	for _, row := range rows {
		if err := table.Append(row[0], row[1], row[2], row[3]); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	if !perWorker {
		return nil
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Per-worker results")

	return generateWorkers(w, rec.Result)
}

func generateWorkers(w io.Writer, res harness.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Worker", "Family", "Values", "Elapsed")

	for _, fam := range harness.Families() {
		for _, wr := range res.Family(fam) {
			if err := table.Append(
				strconv.Itoa(wr.ID),
				fam.String(),
				workerValues(wr),
				wr.Elapsed.Round(time.Millisecond).String(),
			); err != nil {
				return fmt.Errorf("append worker %d: %w", wr.ID, err)
			}
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render workers: %w", err)
	}

	return nil
}

func workerValues(wr harness.WorkerResult) string {
	m := wr.Metrics

	switch wr.Family {
	case harness.FamilyCPU:
		return decimal(m.CPUFlops/1e6) + " MFLOPS"
	case harness.FamilyMemory:
		return fmt.Sprintf("read %s / write %s MiB/s",
			decimal(m.MemoryReadMBps), decimal(m.MemoryWriteMBps))
	case harness.FamilyDisk:
		return fmt.Sprintf("read %s / write %s MiB/s, %s IOPS",
			decimal(m.DiskReadMBps), decimal(m.DiskWriteMBps), decimal(m.DiskIOPS))
	default:
		return "-"
	}
}

// GenerateJSON writes the record as indented JSON to w.
func GenerateJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rec)
}

func scoreColor(v int) *color.Color {
	switch {
	case v >= 1000:
		return green
	case v >= 500:
		return yellow
	default:
		return red
	}
}

func decimal(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}
