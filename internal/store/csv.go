package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scoutkit/analysis/internal/models"
)

// LoadPrescout reads the flat pre-event research table. The first column is
// the team number, the remaining header columns name the categories. A
// missing file means no prescouting was done; that is not an error.
func (s *Store) LoadPrescout() (map[string]models.PrescoutRecord, error) {
	f, err := os.Open(s.resourcePath("prescout.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening prescout table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing prescout table: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	header := rows[0]
	out := make(map[string]models.PrescoutRecord, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		record := make(models.PrescoutRecord, len(row)-1)
		for i := 1; i < len(row) && i < len(header); i++ {
			record[header[i]] = row[i]
		}
		out[row[0]] = record
	}
	return out, nil
}

// WriteExportCSV writes the full stand-data export: the adapter's column
// headers, then one row per team.
func (s *Store) WriteExportCSV(header []string, rows [][]string) (string, error) {
	path := filepath.Join(s.root, "export", "export.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing export header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export: %w", err)
	}
	return path, nil
}
