package storage

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

func writeCSV(path string, header []string, rows [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := encodeCSV(file, header, rows); err != nil {
		return err
	}
	return file.Close()
}

// encodeCSV writes an optional header then one record per row. Values use
// the shortest representation that parses back exactly.
func encodeCSV(out io.Writer, header []string, rows [][]float64) error {
	w := csv.NewWriter(out)
	if header != nil {
		if err := w.Write(header); err != nil {
			return err
		}
	}

	record := make([]string, 0)
	for _, row := range rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readCSV(path string, skipHeader bool) ([][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if skipHeader && len(records) > 0 {
		records = records[1:]
	}

	rows := make([][]float64, 0, len(records))
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		row := make([]float64, 0, len(record))
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
