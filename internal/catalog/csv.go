package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/modybick/pos/internal/domain"
)

// ImportResult reports what happened to a product CSV batch. Skipped counts
// rows that failed to parse; they never abort the batch.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ParseProductsCSV reads records of the form
//
//	"barcode","name","price","category"
//
// with standard quote escaping. The first row is a header and is always
// skipped. Rows with fewer than three fields or a non-integer price are
// skipped and counted; category is optional.
func ParseProductsCSV(r io.Reader) ([]domain.Product, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var products []domain.Product
	skipped := 0
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("failed to read csv: %w", err)
		}

		if first {
			first = false
			continue
		}

		p, ok := parseProductRecord(record)
		if !ok {
			skipped++
			continue
		}
		products = append(products, p)
	}

	return products, skipped, nil
}

func parseProductRecord(record []string) (domain.Product, bool) {
	if len(record) < 3 {
		return domain.Product{}, false
	}

	price, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil || price < 0 {
		return domain.Product{}, false
	}

	barcode := record[0]
	name := record[1]
	if barcode == "" || name == "" {
		return domain.Product{}, false
	}

	category := ""
	if len(record) > 3 {
		category = record[3]
	}

	return domain.Product{
		Barcode:  barcode,
		Name:     name,
		Price:    price,
		Category: category,
	}, true
}
