// Package workload reads, writes and generates process lists.
package workload

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/sim"
)

// DefaultMaxProcesses is the largest workload accepted by default.
const DefaultMaxProcesses = 50

var (
	// ErrTooManyProcesses is returned when a workload exceeds the limit.
	ErrTooManyProcesses = errors.New("too many processes")

	// ErrMalformedLine is returned when a line does not hold three integers.
	ErrMalformedLine = errors.New("malformed line")
)

// A Reader reads process lists.
type Reader struct {
	MaxProcesses int
}

// NewReader creates a Reader with the default limit.
func NewReader() Reader {
	return Reader{MaxProcesses: DefaultMaxProcesses}
}

// Parse reads one process per line in the form "id arrival burst". Blank
// lines and lines starting with # are skipped.
func (r Reader) Parse(in io.Reader) ([]cpu.Process, error) {
	var processes []cpu.Process

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := parseFields(strings.Fields(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		processes = append(processes, p)
		if err := r.checkLimit(len(processes)); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return processes, nil
}

// ParseString parses a text workload held in a string.
func (r Reader) ParseString(s string) ([]cpu.Process, error) {
	return r.Parse(strings.NewReader(s))
}

// ParseCSV reads a CSV workload with the columns id, arrival and burst. A
// first row that is not numeric is taken as the header.
func (r Reader) ParseCSV(in io.Reader) ([]cpu.Process, error) {
	cr := csv.NewReader(in)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	var processes []cpu.Process
	for i, record := range records {
		if i == 0 && isHeader(record) {
			continue
		}

		p, err := parseFields(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		processes = append(processes, p)
		if err := r.checkLimit(len(processes)); err != nil {
			return nil, err
		}
	}

	return processes, nil
}

// Load reads a workload file. Files ending in .csv are read as CSV and the
// others as text.
func (r Reader) Load(path string) ([]cpu.Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return r.ParseCSV(f)
	}

	return r.Parse(f)
}

func (r Reader) checkLimit(n int) error {
	if r.MaxProcesses > 0 && n > r.MaxProcesses {
		return fmt.Errorf("%w: the limit is %d",
			ErrTooManyProcesses, r.MaxProcesses)
	}

	return nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}

	_, err := strconv.Atoi(strings.TrimSpace(record[0]))

	return err != nil
}

func parseFields(fields []string) (cpu.Process, error) {
	if len(fields) != 3 {
		return cpu.Process{}, fmt.Errorf("%w: want 3 fields, got %d",
			ErrMalformedLine, len(fields))
	}

	values := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return cpu.Process{}, fmt.Errorf("%w: %q is not an integer",
				ErrMalformedLine, f)
		}

		values[i] = v
	}

	return cpu.NewProcess(
		values[0],
		sim.VTime(values[1]),
		sim.VTime(values[2]),
	), nil
}

// Format writes the processes in the text form accepted by Parse.
func Format(processes []cpu.Process) string {
	var b strings.Builder

	for _, p := range processes {
		fmt.Fprintf(&b, "%d %d %d\n", p.ID, p.ArrivalTime, p.BurstTime)
	}

	return b.String()
}
