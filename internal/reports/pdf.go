package reports

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"bistro/internal/models"
)

var (
	colorPrimary = &props.Color{Red: 150, Green: 40, Blue: 27}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// RenderProductPDF lays the report out on A4 pages: title, totals, then one line per product.
func RenderProductPDF(r ProductReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Product report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalsRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	for _, p := range r.Products {
		m.AddRows(productRow(p))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product report: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(r ProductReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New("Product report", props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
		})),
		col.New(4).Add(text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 4, Color: colorGray,
		})),
	)
}

func totalsRow(r ProductReport) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return row.New(14).Add(
		cell("Products", strconv.Itoa(r.TotalProducts)),
		cell("Units in stock", strconv.Itoa(r.TotalStock)),
		cell("Stock value", r.StockValue.StringFixed(2)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Left),
		h("Name", 5, align.Left),
		h("Category", 2, align.Left),
		h("Price", 2, align.Right),
		h("Stock", 2, align.Right),
	)
}

func productRow(p models.Product) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(strconv.FormatUint(uint64(p.ID), 10), props.Text{Size: 8, Top: 1})),
		col.New(5).Add(text.New(p.Name, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(p.Category, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(p.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New(strconv.Itoa(p.Stock), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}
