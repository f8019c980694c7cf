// Package export renders the shopping list as downloadable documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/chucky-1/grocery/internal/model"
)

// PDF page geometry in points, origin at the top-left corner of a Letter page.
const (
	pageHeight   = 792.0
	marginLeft   = 100.0
	titleY       = 42.0
	firstLineY   = 62.0
	lineStep     = 20.0
	bottomMargin = 40.0

	title = "Shopping List (Out-of-Stock Items)"
)

var csvHeader = []string{"Item", "Category", "Price", "Unit"}

// WriteCSV writes one row per item under the Item, Category, Price, Unit header.
func WriteCSV(w io.Writer, items []*model.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export.WriteCSV, header: %w", err)
	}
	for _, item := range items {
		row := []string{
			item.Name(),
			item.Category(),
			strconv.FormatFloat(item.Price(), 'f', -1, 64),
			item.Unit(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export.WriteCSV, item %s: %w", item.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV, flush: %w", err)
	}
	return nil
}

// Line is how an item appears in the PDF shopping list.
func Line(item *model.Item) string {
	return fmt.Sprintf("%s (%s) - $%.2f/%s", item.Name(), item.Category(), item.Price(), item.Unit())
}

// Pages splits the item lines into pages. The first page also carries the title, so it
// always exists even for an empty list.
func Pages(items []*model.Item) [][]string {
	pages := [][]string{nil}
	y := firstLineY
	for _, item := range items {
		if y > pageHeight-bottomMargin {
			pages = append(pages, nil)
			y = titleY
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], Line(item))
		y += lineStep
	}
	return pages
}

// WritePDF writes the items as a Helvetica 12 text listing on Letter pages.
func WritePDF(w io.Writer, items []*model.Item) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, lines := range Pages(items) {
		pdf.AddPage()
		y := titleY
		if i == 0 {
			pdf.Text(marginLeft, y, tr(title))
			y = firstLineY
		}
		for _, line := range lines {
			pdf.Text(marginLeft, y, tr(line))
			y += lineStep
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export.WritePDF: %w", err)
	}
	return nil
}
