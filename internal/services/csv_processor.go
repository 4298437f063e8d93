package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"bistro/internal/models"
	"bistro/internal/validation"
)

// Row error tags.
const (
	TagValidationError = "Validation Error"
	TagDBError         = "DB Error"
)

// ProductColumns is the number of product fields a data row must carry.
const ProductColumns = 5

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	templateHeader = []string{"name", "price", "description", "stock", "category"}
	exportHeader   = []string{"id", "name", "price", "description", "stock", "category"}
)

// RawRow is one data row of an uploaded file, keyed by lower-cased header name.
type RawRow struct {
	// Line numbers data rows from 2, the header being row 1. Blank lines are not counted.
	Line   int
	Values map[string]string
	// Columns counts the fields of the row, excluding an id column.
	Columns int
}

// ValidRow is a row that passed coercion and schema validation.
type ValidRow struct {
	Line  int
	Input validation.ProductInput
	Data  map[string]string
}

// RowError describes why one row was not imported.
type RowError struct {
	Row   int               `json:"row"`
	Tag   string            `json:"tag"`
	Error string            `json:"error"`
	Data  map[string]string `json:"data"`
}

// CSVProcessor converts between CSV buffers and product rows. It has no side effects.
type CSVProcessor struct{}

func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// Parse splits buffer into header-keyed rows. The whole buffer is rejected with a *ParseError
// when it is empty, not UTF-8, malformed, or has no data rows.
func (p *CSVProcessor) Parse(buffer []byte) ([]RawRow, error) {
	buffer = bytes.TrimPrefix(buffer, utf8BOM)
	if len(bytes.TrimSpace(buffer)) == 0 {
		return nil, &ParseError{Reason: "file is empty"}
	}
	if !utf8.Valid(buffer) {
		return nil, &ParseError{Reason: "file is not valid UTF-8"}
	}

	r := csv.NewReader(bytes.NewReader(buffer))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, &ParseError{Reason: "malformed header", Err: err}
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	idCol := -1
	for i, h := range header {
		if h == "id" {
			idCol = i
			break
		}
	}

	var rows []RawRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "malformed CSV", Err: err}
		}

		row := RawRow{
			Line:    len(rows) + 2,
			Values:  make(map[string]string, len(record)),
			Columns: len(record),
		}
		for j, v := range record {
			switch {
			case j == idCol:
				row.Columns--
			case j < len(header):
				row.Values[header[j]] = v
			default:
				row.Values[fmt.Sprintf("_%d", j)] = v
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "file has a header but no data rows"}
	}
	return rows, nil
}

// ValidateRows partitions rows into those ready to persist and those rejected. Every row ends up
// in exactly one of the two results, in input order.
func (p *CSVProcessor) ValidateRows(rows []RawRow) ([]ValidRow, []RowError) {
	valid := make([]ValidRow, 0, len(rows))
	var rejected []RowError

	for _, row := range rows {
		if row.Columns != ProductColumns {
			rejected = append(rejected, RowError{
				Row:   row.Line,
				Tag:   TagValidationError,
				Error: fmt.Sprintf("column count mismatch: expected %d, got %d", ProductColumns, row.Columns),
				Data:  row.Values,
			})
			continue
		}

		input, violations := coerceRow(row.Values)
		if len(violations) > 0 {
			rejected = append(rejected, RowError{
				Row:   row.Line,
				Tag:   TagValidationError,
				Error: "validation failed: " + violations.Error(),
				Data:  row.Values,
			})
			continue
		}
		valid = append(valid, ValidRow{Line: row.Line, Input: input, Data: row.Values})
	}
	return valid, rejected
}

func coerceRow(values map[string]string) (validation.ProductInput, validation.Violations) {
	input := validation.ProductInput{
		Name:        strings.TrimSpace(values["name"]),
		Description: strings.TrimSpace(values["description"]),
		Category:    strings.TrimSpace(values["category"]),
	}

	var coercion validation.Violations
	switch raw := strings.TrimSpace(values["price"]); {
	case raw == "":
		coercion = append(coercion, validation.Violation{Field: "price", Message: "is required"})
	default:
		price, err := decimal.NewFromString(raw)
		if err != nil {
			coercion = append(coercion, validation.Violation{Field: "price", Message: "must be a number"})
		}
		input.Price = price
	}
	switch raw := strings.TrimSpace(values["stock"]); {
	case raw == "":
		coercion = append(coercion, validation.Violation{Field: "stock", Message: "is required"})
	default:
		stock, err := strconv.Atoi(raw)
		if err != nil {
			coercion = append(coercion, validation.Violation{Field: "stock", Message: "must be an integer"})
		}
		input.Stock = stock
	}

	violations := validation.ValidateProduct(input)
	for _, v := range coercion {
		violations = violations.With(v)
	}
	return input, violations
}

// GenerateCSV renders products as CSV with an id column, in the given order.
func (p *CSVProcessor) GenerateCSV(products []models.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, prod := range products {
		record := []string{
			strconv.FormatUint(uint64(prod.ID), 10),
			prod.Name,
			prod.Price.StringFixed(2),
			prod.Description,
			strconv.Itoa(prod.Stock),
			prod.Category,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write product %d: %w", prod.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateCSV returns the header-only file offered to admins as an import starting point.
func (p *CSVProcessor) TemplateCSV() []byte {
	return []byte(strings.Join(templateHeader, ",") + "\n")
}
