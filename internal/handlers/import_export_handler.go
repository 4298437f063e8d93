package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"bistro/internal/services"
)

const templateFilename = "products-import-template.csv"

// ImportExportHandler serves the admin CSV import, export and audit trail.
type ImportExportHandler struct {
	service  *services.ImportExportService
	maxBytes int64
	logger   zerolog.Logger
}

// NewImportExportHandler creates a new ImportExportHandler. maxBytes bounds uploaded files.
func NewImportExportHandler(service *services.ImportExportService, maxBytes int64, logger zerolog.Logger) *ImportExportHandler {
	if maxBytes <= 0 {
		maxBytes = services.DefaultMaxUploadBytes
	}
	return &ImportExportHandler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// RegisterRoutes registers the admin import/export routes behind gate.
func (h *ImportExportHandler) RegisterRoutes(router fiber.Router, gate ...fiber.Handler) {
	router.Post("/admin/products/import", guarded(gate, h.HandleImport)...)
	router.Get("/admin/products/export", guarded(gate, h.HandleExport)...)
	router.Get("/admin/products/import/template", guarded(gate, h.HandleTemplate)...)
	router.Get("/admin/report/import-export", guarded(gate, h.HandleLogs)...)
}

// HandleImport imports the CSV file uploaded in the "file" form field.
func (h *ImportExportHandler) HandleImport(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded", errors.New("multipart field \"file\" is required"))
	}
	if err := services.CheckUpload(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, h.maxBytes); err != nil {
		return respondError(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return respondError(c, fmt.Errorf("failed to read upload: %w", err))
	}
	if int64(len(buf)) > h.maxBytes {
		return respondError(c, &services.FileError{Reason: fmt.Sprintf("file exceeds the %d byte limit", h.maxBytes)})
	}

	summary, err := h.service.Import(c.UserContext(), fh.Filename, buf)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("import rejected")
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// HandleExport streams the products matching the query filters as a CSV attachment.
func (h *ImportExportHandler) HandleExport(c *fiber.Ctx) error {
	filter, err := services.TranslateFilters(c.Queries())
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.Export(c.UserContext(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("export failed")
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+result.Filename)
	return c.Send(result.Content)
}

// HandleTemplate downloads the header-only import template.
func (h *ImportExportHandler) HandleTemplate(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+templateFilename)
	return c.Send(h.service.Template())
}

// HandleLogs lists the latest import and export audit entries.
func (h *ImportExportHandler) HandleLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	entries, err := h.service.Logs(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
