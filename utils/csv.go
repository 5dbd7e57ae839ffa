package utils

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"id", "title", "subtitle", "url", "image",
	"price_sale", "price_original", "gender", "age_group", "brand", "extra",
}

// WriteCSV writes records to a local CSV file, creating parent directories
// as needed.
func WriteCSV(shoes []types.Shoe, filename string) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	data, err := EncodeCSV(shoes, false)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}

// EncodeCSV serializes records to CSV in memory. When sanitize is set,
// empty cells are replaced with the literal "empty"; the data-lake loader
// downstream treats fully blank cells as load errors.
func EncodeCSV(shoes []types.Shoe, sanitize bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range shoes {
		row, err := csvRow(s)
		if err != nil {
			return nil, err
		}
		if sanitize {
			for i, cell := range row {
				if cell == "" {
					row[i] = "empty"
				}
			}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv record %s: %w", s.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvRow(s types.Shoe) ([]string, error) {
	gender := s.Gender
	if gender == nil {
		gender = []string{}
	}
	genderJSON, err := json.Marshal(gender)
	if err != nil {
		return nil, fmt.Errorf("encode gender for %s: %w", s.ID, err)
	}

	extra := ""
	if len(s.Extra) > 0 {
		extraJSON, err := json.Marshal(s.Extra)
		if err != nil {
			return nil, fmt.Errorf("encode extra for %s: %w", s.ID, err)
		}
		extra = string(extraJSON)
	}

	return []string{
		s.ID,
		s.Title,
		s.SubTitle,
		s.URL,
		s.Image,
		strconv.FormatFloat(s.PriceSale, 'f', -1, 64),
		strconv.FormatFloat(s.PriceOriginal, 'f', -1, 64),
		string(genderJSON),
		s.AgeGroup,
		s.Brand,
		extra,
	}, nil
}
