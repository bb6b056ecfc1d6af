package utils

import (
	"encoding/csv"
	"os"
	"strings"
)

// ReadCountriesFromCSV reads country names from the first column of a CSV
// file, skipping the header row and blank cells.
func ReadCountriesFromCSV(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var countries []string
	for _, record := range records[1:] { // Skip header
		if len(record) == 0 {
			continue
		}
		if name := strings.TrimSpace(record[0]); name != "" {
			countries = append(countries, name)
		}
	}

	return countries, nil
}
