package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FromCSV loads a dataset from a comma-separated file. With hasHeader the
// first record supplies the column names; otherwise default names X1..Xn
// are assigned.
func FromCSV(path string, hasHeader bool) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, hasHeader)
}

// ReadCSV parses CSV data from a reader; see FromCSV.
func ReadCSV(r io.Reader, hasHeader bool) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	var names []string
	var columns [][]float64
	line := 0

	if hasHeader {
		record, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("dataset: read header: %w", err)
		}
		names = make([]string, len(record))
		copy(names, record)
		columns = make([][]float64, len(record))
		line++
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read line %d: %w", line+1, err)
		}
		if columns == nil {
			columns = make([][]float64, len(record))
		}
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: parse field %d at line %d: %w", i, line+1, err)
			}
			columns[i] = append(columns[i], v)
		}
		line++
	}

	return FromColumns(names, columns)
}
