package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Names of the files written by Save.
const (
	TextFileName = "benchmark_results.txt"
	CSVFileName  = "benchmark_results.csv"
)

// CSVHeader lists the CSV columns in order. Bandwidth and throughput
// columns are MiB/s; MFLOPS is cpu_flops / 1e6.
var CSVHeader = []string{
	"System", "Date", "OverallScore", "CPUScore", "MFLOPS",
	"MemoryScore", "ReadBandwidth", "WriteBandwidth",
	"DiskScore", "ReadThroughput", "WriteThroughput", "IOPS",
}

// GenerateText writes the plain text summary to w.
func GenerateText(w io.Writer, rec Record) error {
	m := rec.Result.Metrics
	s := rec.Scores

	_, err := fmt.Fprintf(w, `Benchmark Results
=================
System: %s
CPU: %s
Date: %s

Overall Score: %d

CPU Benchmark:
  FLOPS: %.2f MFLOPS
  Score: %d

Memory Benchmark:
  Read Bandwidth: %.2f MiB/s
  Write Bandwidth: %.2f MiB/s
  Score: %d

Disk Benchmark:
  Read Throughput: %.2f MiB/s
  Write Throughput: %.2f MiB/s
  Random Access: %.2f IOPS
  Score: %d
`,
		rec.System, rec.CPU, rec.date(),
		s.Overall,
		rec.MFLOPS(), s.CPU,
		m.MemoryReadMBps, m.MemoryWriteMBps, s.Memory,
		m.DiskReadMBps, m.DiskWriteMBps, m.DiskIOPS, s.Disk,
	)

	return err
}

// GenerateCSV writes the header and exactly one data row to w.
func GenerateCSV(w io.Writer, rec Record) error {
	m := rec.Result.Metrics
	s := rec.Scores

	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	row := []string{
		rec.System,
		rec.date(),
		strconv.Itoa(s.Overall),
		strconv.Itoa(s.CPU),
		fixed(rec.MFLOPS()),
		strconv.Itoa(s.Memory),
		fixed(m.MemoryReadMBps),
		fixed(m.MemoryWriteMBps),
		strconv.Itoa(s.Disk),
		fixed(m.DiskReadMBps),
		fixed(m.DiskWriteMBps),
		fixed(m.DiskIOPS),
	}

	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write CSV row: %w", err)
	}

	cw.Flush()

	return cw.Error()
}

// Save writes the text and CSV files into dir and returns their paths.
func Save(dir string, rec Record) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	outputs := []struct {
		name string
		gen  func(io.Writer, Record) error
	}{
		{TextFileName, GenerateText},
		{CSVFileName, GenerateCSV},
	}

	paths := make([]string, 0, len(outputs))

	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := writeFile(path, rec, out.gen); err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(path string, rec Record, gen func(io.Writer, Record) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := gen(f, rec); err != nil {
		f.Close()

		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
