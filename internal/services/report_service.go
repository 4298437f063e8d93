package services

import (
	"context"
	"fmt"
	"time"

	"bistro/internal/reports"
	"bistro/internal/repositories"
)

// ReportService builds the admin catalog reports.
type ReportService struct {
	products repositories.ProductStore
	now      func() time.Time
}

func NewReportService(products repositories.ProductStore) *ReportService {
	return &ReportService{products: products, now: time.Now}
}

// Products aggregates the whole catalog.
func (s *ReportService) Products(ctx context.Context) (reports.ProductReport, error) {
	products, err := s.products.FindAll(ctx, repositories.ProductFilter{})
	if err != nil {
		return reports.ProductReport{}, fmt.Errorf("failed to load products for report: %w", err)
	}
	return reports.BuildProductReport(products, s.now()), nil
}

// ProductsPDF renders the product report as a PDF document.
func (s *ReportService) ProductsPDF(ctx context.Context) ([]byte, error) {
	r, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return reports.RenderProductPDF(r)
}
