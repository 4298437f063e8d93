package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"bistro/internal/services"
)

// ReportHandler serves the admin catalog reports.
type ReportHandler struct {
	service *services.ReportService
	logger  zerolog.Logger
}

func NewReportHandler(service *services.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

func (h *ReportHandler) RegisterRoutes(router fiber.Router, gate ...fiber.Handler) {
	router.Get("/admin/report/products", guarded(gate, h.HandleProducts)...)
	router.Get("/admin/report/products/pdf", guarded(gate, h.HandleProductsPDF)...)
}

// HandleProducts returns the catalog totals and product list as JSON.
func (h *ReportHandler) HandleProducts(c *fiber.Ctx) error {
	report, err := h.service.Products(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// HandleProductsPDF returns the same report as a PDF download.
func (h *ReportHandler) HandleProductsPDF(c *fiber.Ctx) error {
	pdf, err := h.service.ProductsPDF(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render product report")
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=products-report.pdf")
	return c.Send(pdf)
}
