package ripio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/respkit/respkit/logging"
)

// ReadTable reads respiratory data from a delimited table. A one-column
// table needs an explicit sampling frequency (sampFreq > 0). A two-column
// table carries timestamps in the first column and values in the second; the
// sampling frequency is then inferred from the mean timestamp delta, unless
// an explicit one is also given, in which case the explicit value wins and
// the timestamp column is discarded with a warning.
func ReadTable(r io.Reader, delimiter rune, sampFreq float64) ([]float64, float64, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading table: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("empty table")
	}

	cols := len(rows[0])
	switch cols {
	case 1:
		if sampFreq <= 0 {
			return nil, 0, fmt.Errorf("unable to infer sampling frequency: single-column table and no explicit rate")
		}
		values, err := parseColumn(rows, 0)
		if err != nil {
			return nil, 0, err
		}
		return values, sampFreq, nil

	case 2:
		values, err := parseColumn(rows, 1)
		if err != nil {
			return nil, 0, err
		}
		if sampFreq > 0 {
			logging.Warn("ignoring the timestamp column, assuming the explicit sampling frequency", logging.Fields{
				"samp_freq": sampFreq,
			})
			return values, sampFreq, nil
		}

		ts, err := parseColumn(rows, 0)
		if err != nil {
			return nil, 0, err
		}
		if len(ts) < 2 {
			return nil, 0, fmt.Errorf("unable to infer sampling frequency from %d timestamps", len(ts))
		}
		meanDelta := (ts[len(ts)-1] - ts[0]) / float64(len(ts)-1)
		if meanDelta <= 0 {
			return nil, 0, fmt.Errorf("timestamps are not increasing")
		}
		return values, 1 / meanDelta, nil

	default:
		return nil, 0, fmt.Errorf("input data has %d columns, expected 2", cols)
	}
}

// WriteTable saves time stamps and respiratory values as CSV rows. The
// format is lossy compared to WAV: only the implied time axis and the sample
// values survive.
func WriteTable(w io.Writer, samples []float64, sampFreq float64) error {
	if sampFreq <= 0 {
		return fmt.Errorf("sampling frequency must be positive, got %g", sampFreq)
	}

	logging.Warn("saving to a plain-text table; only time stamps and respiratory values will be saved")

	cw := csv.NewWriter(w)
	for i, s := range samples {
		t := float64(i) / sampFreq
		row := []string{
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(s, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTableFile reads respiratory data from the named file.
func ReadTableFile(path string, delimiter rune, sampFreq float64) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadTable(f, delimiter, sampFreq)
}

// WriteTableFile writes respiratory data to the named file.
func WriteTableFile(path string, samples []float64, sampFreq float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTable(f, samples, sampFreq)
}

func parseColumn(rows [][]string, col int) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			return nil, fmt.Errorf("row %d has %d columns, expected at least %d", i+1, len(row), col+1)
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %d: %w", i+1, col+1, err)
		}
		out[i] = v
	}
	return out, nil
}
