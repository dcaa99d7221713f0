package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/haggleworks/cartwheel/internal/canonical"
	"github.com/haggleworks/cartwheel/internal/model"
)

// Importer reads a delimited catalog file into flat products. Row-level
// problems are collected, never fatal: a bad row must not abort the batch.
type Importer struct {
	logger    *slog.Logger
	threshold float64
}

// NewImporter creates an importer with the default header-mapping threshold.
func NewImporter(logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{logger: logger, threshold: DefaultThreshold}
}

// Import parses the reader as a header-rowed CSV and converts each row into
// a product owned by sellerID. Columns that map to no canonical field are
// preserved verbatim as product attributes.
func (im *Importer) Import(r io.Reader, sellerID string) (model.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to read header row: %w", err)
	}

	mapping := AutoMapHeadersWithThreshold(headers, im.threshold)
	if mapping[FieldTitle] == "" {
		return model.ImportResult{}, fmt.Errorf("no title column detected among headers %v", headers)
	}

	im.logger.Debug("mapped csv headers",
		"title", mapping[FieldTitle],
		"sku", mapping[FieldSKU],
		"price", mapping[FieldPrice],
		"link", mapping[FieldLink])

	canonicalIndex := make(map[string]struct{})
	for _, header := range mapping {
		if header != "" {
			canonicalIndex[header] = struct{}{}
		}
	}

	result := model.ImportResult{ProcessedAt: time.Now()}

	for rowNum := 1; ; rowNum++ {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		result.TotalRows++
		if readErr != nil {
			result.Errors = append(result.Errors, model.ImportError{
				Row:     rowNum,
				Message: fmt.Sprintf("malformed row: %v", readErr),
			})
			continue
		}

		row := rowMap(headers, record)

		product, rowErr := im.importRow(row, mapping, canonicalIndex, sellerID)
		if rowErr != nil {
			result.Errors = append(result.Errors, model.ImportError{Row: rowNum, Message: rowErr.Error()})
			continue
		}

		result.Products = append(result.Products, product)
		result.ImportedRows++
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// importRow validates and converts a single row.
func (im *Importer) importRow(row map[string]string, mapping map[string]string, canonicalHeaders map[string]struct{}, sellerID string) (model.Product, error) {
	title := strings.TrimSpace(row[mapping[FieldTitle]])
	if title == "" {
		return model.Product{}, fmt.Errorf("missing title")
	}

	sku := strings.TrimSpace(row[mapping[FieldSKU]])
	if sku == "" {
		return model.Product{}, fmt.Errorf("missing sku")
	}

	c, err := canonical.MapCSVRow(map[string]string{
		"title": title,
		"sku":   sku,
		"price": row[mapping[FieldPrice]],
	})
	if err != nil {
		return model.Product{}, err
	}

	product := canonical.ToProduct(c, sellerID)

	if link := strings.TrimSpace(row[mapping[FieldLink]]); link != "" {
		product.Attributes = map[string]string{"link": link}
	}

	// Unmapped columns survive as opaque attributes.
	for header, value := range row {
		if _, claimed := canonicalHeaders[header]; claimed {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		if product.Attributes == nil {
			product.Attributes = make(map[string]string)
		}
		product.Attributes[header] = value
	}

	return product, nil
}

func rowMap(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(record) {
			row[header] = record[i]
		}
	}
	return row
}
