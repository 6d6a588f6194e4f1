package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/gridpricer/src/models"
)

// ExportToCsv writes the priced records to <outDir>/<prefix>_<timestamp>.csv and returns the path.
func ExportToCsv(outDir string, result *models.BatchResult, outFilePrefix string) (string, error) {
	now := time.Now()
	outFilePath := path.Join(outDir, fmt.Sprintf("%s_%s.csv", outFilePrefix, now.Format("2006-01-02_15-04-05")))

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("ExportToCsv: failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteCsv(file, result); err != nil {
		return "", fmt.Errorf("ExportToCsv: %w", err)
	}

	return outFilePath, nil
}

func WriteCsv(w io.Writer, result *models.BatchResult) error {
	rows := make([]*models.PricedRecordCsvDTO, 0, len(result.Priced))
	for _, p := range result.Priced {
		rows = append(rows, p.ToCsvDTO())
	}

	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := gocsv.MarshalCSV(&rows, writer); err != nil {
		return fmt.Errorf("WriteCsv: failed to write rows: %w", err)
	}

	return nil
}
