package statenv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// CSV is the interchange format between this process and Rscript: R's
// write.csv/read.csv layout with row names in the first, unnamed column.

func writeMatrixCSV(path string, m *dataframe.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := m.ColLabels()
	header := append([]string{""}, cols...)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(cols)+1)
	for i, row := range m.RowLabels() {
		record[0] = row
		for j := range cols {
			record[j+1] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readMatrixCSV(path string) (*dataframe.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	cols := header[1:]
	var rows []string
	var values []float64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(record) != len(cols)+1 {
			return nil, fmt.Errorf("read %s: row %q has %d fields, want %d", path, record[0], len(record), len(cols)+1)
		}
		rows = append(rows, record[0])
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("read %s: non-numeric value %q in row %q", path, field, record[0])
			}
			values = append(values, v)
		}
	}
	return dataframe.NewMatrix(rows, cols, values)
}

func writeFrameCSV(path string, f *dataframe.Frame, fallbackIndex []string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	index := fallbackIndex
	var cols []string
	if !f.Empty() {
		index = f.Index()
		cols = f.Columns()
	}
	if len(cols) == 0 {
		// A lone empty field would render as a blank line, which csv
		// readers skip. Quote it the way R's write.csv does.
		if _, err := io.WriteString(out, "\"\"\n"); err != nil {
			return err
		}
	} else if err := w.Write(append([]string{""}, cols...)); err != nil {
		return err
	}
	record := make([]string, len(cols)+1)
	for i, label := range index {
		record[0] = label
		for j := range cols {
			record[j+1] = f.ColAt(j).StringAt(i)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readFrameCSV parses a frame with per-column type sniffing: all-integer
// columns become Int, otherwise all-numeric become Float, otherwise String.
func readFrameCSV(path string) (*dataframe.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return dataframe.EmptyFrame(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	names := header[1:]
	var index []string
	cells := make([][]string, len(names))
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(record) != len(names)+1 {
			return nil, fmt.Errorf("read %s: row %q has %d fields, want %d", path, record[0], len(record), len(names)+1)
		}
		index = append(index, record[0])
		for j, field := range record[1:] {
			cells[j] = append(cells[j], field)
		}
	}
	if len(names) == 0 && len(index) == 0 {
		return dataframe.EmptyFrame(), nil
	}
	cols := make([]*dataframe.Series, len(names))
	for j, name := range names {
		cols[j] = sniffSeries(name, cells[j])
	}
	return dataframe.NewFrame(index, cols...)
}

func sniffSeries(name string, values []string) *dataframe.Series {
	ints := make([]int64, len(values))
	isInt := true
	for i, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			isInt = false
			break
		}
		ints[i] = n
	}
	if isInt && len(values) > 0 {
		return dataframe.NewIntSeries(name, ints)
	}
	floats := make([]float64, len(values))
	isFloat := true
	for i, v := range values {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			isFloat = false
			break
		}
		floats[i] = x
	}
	if isFloat && len(values) > 0 {
		return dataframe.NewFloatSeries(name, floats)
	}
	return dataframe.NewStringSeries(name, values)
}
