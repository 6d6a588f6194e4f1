// Package recordloader reads option chain quotes exported by the preprocessing step.
package recordloader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/gridpricer/src/models"
)

// LoadFile reads every record of the csv file at path, in file order.
func LoadFile(path string) ([]*models.OptionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: failed to open %s: %w", path, err)
	}

	defer f.Close()

	records, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: %s: %w", path, err)
	}

	log.Infof("loaded %d option records from %s", len(records), path)

	return records, nil
}

// Load skips the header row and maps the remaining rows onto the record fields by column
// position. Empty cells and missing trailing columns are zero; extra columns are ignored.
func Load(r io.Reader) ([]*models.OptionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []*models.OptionRecord{}, nil
		}

		return nil, fmt.Errorf("Load: failed to read header: %w", err)
	}

	var dtos []*models.OptionRecordCsvDTO
	in := &fixedWidthReader{reader: reader, width: models.OptionRecordCsvColumns}
	if err := gocsv.UnmarshalCSVWithoutHeaders(in, &dtos); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []*models.OptionRecord{}, nil
		}

		return nil, fmt.Errorf("Load: failed to unmarshal rows: %w", err)
	}

	records := make([]*models.OptionRecord, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, dto.ToModel())
	}

	return records, nil
}

// fixedWidthReader trims rows to the number of columns the record has.
type fixedWidthReader struct {
	reader *csv.Reader
	width  int
}

func (f *fixedWidthReader) Read() ([]string, error) {
	row, err := f.reader.Read()
	if err != nil {
		return nil, err
	}

	if len(row) > f.width {
		row = row[:f.width]
	}

	return row, nil
}

func (f *fixedWidthReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := f.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}
}
