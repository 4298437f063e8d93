package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"bistro/internal/models"
	"bistro/internal/repositories"
)

// ImportSummary is the response to a completed import. SuccessfullyImported + Failed == TotalRows.
type ImportSummary struct {
	TotalRows            int              `json:"totalRows"`
	SuccessfullyImported int              `json:"successfullyImported"`
	Failed               int              `json:"failed"`
	ImportedProducts     []models.Product `json:"importedProducts"`
	Errors               []RowError       `json:"errors"`
}

// ExportResult is a rendered CSV export.
type ExportResult struct {
	Filename string
	Content  []byte
	Count    int
}

// ImportExportService coordinates bulk CSV import and export against the product store and
// records one audit entry per call.
type ImportExportService struct {
	products repositories.ProductStore
	logs     repositories.ImportExportLogRepository
	csv      *CSVProcessor
	events   EventPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewImportExportService creates a new ImportExportService. events may be nil.
func NewImportExportService(
	products repositories.ProductStore,
	logs repositories.ImportExportLogRepository,
	events EventPublisher,
	logger zerolog.Logger,
) *ImportExportService {
	return &ImportExportService{
		products: products,
		logs:     logs,
		csv:      NewCSVProcessor(),
		events:   events,
		logger:   logger.With().Str("component", "import_export").Logger(),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for export filenames.
func (s *ImportExportService) SetClock(now func() time.Time) {
	s.now = now
}

// Template returns the header-only import template.
func (s *ImportExportService) Template() []byte {
	return s.csv.TemplateCSV()
}

// Import parses, validates and persists the rows of a CSV buffer. A *ParseError aborts before
// anything is written. Row failures are reported in the summary and never stop the batch.
func (s *ImportExportService) Import(ctx context.Context, filename string, buffer []byte) (*ImportSummary, error) {
	rows, err := s.csv.Parse(buffer)
	if err != nil {
		return nil, err
	}

	valid, rejected := s.csv.ValidateRows(rows)

	imported := make([]models.Product, 0, len(valid))
	var dbErrors []RowError
	for _, row := range valid {
		product := row.Input.ToModel()
		if err := s.products.Create(ctx, product); err != nil {
			dbErrors = append(dbErrors, RowError{
				Row:   row.Line,
				Tag:   TagDBError,
				Error: err.Error(),
				Data:  row.Data,
			})
			continue
		}
		imported = append(imported, *product)
	}

	errs := make([]RowError, 0, len(rejected)+len(dbErrors))
	errs = append(errs, sortedByRow(rejected)...)
	errs = append(errs, sortedByRow(dbErrors)...)

	summary := &ImportSummary{
		TotalRows:            len(rows),
		SuccessfullyImported: len(imported),
		Failed:               len(errs),
		ImportedProducts:     imported,
		Errors:               errs,
	}

	details, err := json.Marshal(errs)
	if err != nil {
		details = []byte("[]")
	}
	entry := &models.ImportExportLog{
		Type:              models.LogTypeImport,
		Filename:          filename,
		RecordsProcessed:  summary.TotalRows,
		RecordsSuccessful: summary.SuccessfullyImported,
		RecordsFailed:     summary.Failed,
		Details:           string(details),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("failed to record import audit entry")
	}

	importRowsTotal.WithLabelValues("imported").Add(float64(len(imported)))
	importRowsTotal.WithLabelValues("rejected").Add(float64(len(rejected)))
	importRowsTotal.WithLabelValues("failed").Add(float64(len(dbErrors)))
	transfersTotal.WithLabelValues(models.LogTypeImport).Inc()

	s.logger.Info().
		Str("filename", filename).
		Int("total", summary.TotalRows).
		Int("imported", summary.SuccessfullyImported).
		Int("failed", summary.Failed).
		Msg("import completed")

	publishEvent(ctx, s.events, s.logger, EventImportCompleted, map[string]interface{}{
		"filename":             filename,
		"totalRows":            summary.TotalRows,
		"successfullyImported": summary.SuccessfullyImported,
		"failed":               summary.Failed,
	})

	return summary, nil
}

// Export renders every product matching filter as CSV, ordered by id.
func (s *ImportExportService) Export(ctx context.Context, filter repositories.ProductFilter) (*ExportResult, error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load products for export: %w", err)
	}

	content, err := s.csv.GenerateCSV(products)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Filename: fmt.Sprintf("products-export-%s.csv", s.now().Format("20060102-150405")),
		Content:  content,
		Count:    len(products),
	}

	filters, err := json.Marshal(filter)
	if err != nil {
		filters = []byte("{}")
	}
	entry := &models.ImportExportLog{
		Type:              models.LogTypeExport,
		Filename:          result.Filename,
		RecordsProcessed:  result.Count,
		RecordsSuccessful: result.Count,
		Filters:           filters,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("filename", result.Filename).Msg("failed to record export audit entry")
	}

	exportedProductsTotal.Add(float64(result.Count))
	transfersTotal.WithLabelValues(models.LogTypeExport).Inc()

	s.logger.Info().Str("filename", result.Filename).Int("count", result.Count).Msg("export completed")

	publishEvent(ctx, s.events, s.logger, EventExportCompleted, map[string]interface{}{
		"filename": result.Filename,
		"count":    result.Count,
		"filters":  filter,
	})

	return result, nil
}

// Logs returns the latest audit entries, newest first.
func (s *ImportExportService) Logs(ctx context.Context, limit int) ([]models.ImportExportLog, error) {
	entries, err := s.logs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import/export logs: %w", err)
	}
	return entries, nil
}

func sortedByRow(errs []RowError) []RowError {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })
	return errs
}
