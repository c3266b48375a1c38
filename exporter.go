package goesc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exporter defines an export interface.
type Exporter interface {
	Write(Record) error
	Close() error
}

// CSVExporter exports session records to a CSV file.
type CSVExporter struct {
	delimiter string
	estimates int
	hdlr      *os.File
}

// Close writes the closing date and closes the file. The file is closed even
// when the closing line cannot be written.
func (e CSVExporter) Close() error {
	werr := e.WriteRawLn(fmt.Sprintf("# Closing date (UTC): %s", time.Now().UTC()))
	if err := e.hdlr.Close(); err != nil {
		return err
	}
	return werr
}

// Write writes the record to the CSV file.
func (e CSVExporter) Write(r Record) error {
	if len(r.Estimates) != e.estimates {
		return fmt.Errorf("%w: record has %d estimates, the file expects %d", ErrInvalidParameter, len(r.Estimates), e.estimates)
	}
	vals := make([]string, 5, 5+len(r.Estimates))
	vals[0] = fmt.Sprintf("%d", r.Iteration)
	vals[1] = fmt.Sprintf("%g", r.Applied)
	vals[2] = fmt.Sprintf("%g", r.Performance)
	vals[3] = fmt.Sprintf("%g", r.Parameter)
	vals[4] = r.Step.String()
	for _, est := range r.Estimates {
		vals = append(vals, fmt.Sprintf("%g", est))
	}
	_, err := e.hdlr.WriteString(strings.Join(vals, e.delimiter) + "\n")
	return err
}

// WriteAll writes all the records in order.
func (e CSVExporter) WriteAll(records []Record) error {
	for _, r := range records {
		if err := e.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRawLn writes a raw line to the CSV file.
func (e CSVExporter) WriteRawLn(s string) error {
	_, err := e.hdlr.WriteString(s + "\n")
	return err
}

// Name returns the path of the exported file.
func (e CSVExporter) Name() string {
	return e.hdlr.Name()
}

// NewCSVExporter initializes a new CSV export. The headers name the estimates, in the
// order of GetAllEstimates.
func NewCSVExporter(headers []string, dir, filename string) (e *CSVExporter, err error) {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return
	}
	delimiter := ","
	hdr := append([]string{"iteration", "applied", "performance", "parameter", "step"}, headers...)
	if _, err = f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n%s\n", time.Now().UTC(), strings.Join(hdr, delimiter))); err != nil {
		f.Close()
		return nil, err
	}
	e = &CSVExporter{delimiter, len(headers), f}
	return
}
