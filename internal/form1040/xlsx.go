package form1040

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tax-engine/internal/domain"
)

const (
	formSheet    = "Form 1040"
	bracketSheet = "Brackets"
	sourceSheet  = "Sources"
)

// moneyFormat is the built-in "#,##0.00" number format.
const moneyFormat = 4

// XLSX renders r as a workbook with the form lines, the bracket breakdown and
// the source documents on separate sheets.
func XLSX(r Return) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", formSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, sheet := range []string{bracketSheet, sourceSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	writeFormSheet(f, r, moneyStyle, bold)
	writeBracketSheet(f, r.Brackets, moneyStyle, bold)
	writeSourceSheet(f, r.SourceDocuments, moneyStyle, bold)

	idx, _ := f.GetSheetIndex(formSheet)
	f.SetActiveSheet(idx)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (w *sheetWriter) write(col int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, w.row)
	_ = w.f.SetCellValue(w.sheet, cell, v)
}

// money writes a decimal as a number so spreadsheet formulas work on it.
func (w *sheetWriter) money(col int, v decimal.Decimal, style int) {
	f, _ := v.Float64()
	cell, _ := excelize.CoordinatesToCellName(col, w.row)
	_ = w.f.SetCellValue(w.sheet, cell, f)
	_ = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func (w *sheetWriter) header(style int, titles ...string) {
	for i, h := range titles {
		w.write(i+1, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	last, _ := excelize.CoordinatesToCellName(len(titles), w.row)
	_ = w.f.SetCellStyle(w.sheet, first, last, style)
	w.row++
}

func writeFormSheet(f *excelize.File, r Return, moneyStyle, bold int) {
	w := &sheetWriter{f: f, sheet: formSheet, row: 1}

	w.write(1, "Tax year")
	w.write(2, r.TaxYear)
	w.row++
	w.write(1, "Name")
	w.write(2, r.Taxpayer.FirstName+" "+r.Taxpayer.LastName)
	w.row++
	w.write(1, "SSN")
	w.write(2, r.Taxpayer.SSN)
	w.row++
	w.write(1, "Filing status")
	w.write(2, string(r.Taxpayer.FilingStatus))
	w.row += 2

	w.header(bold, "Line", "Description", "Amount")
	for _, l := range r.Lines {
		w.write(1, l.Number)
		w.write(2, l.Description)
		w.money(3, l.Amount, moneyStyle)
		w.row++
	}

	_ = f.SetColWidth(formSheet, "A", "A", 14)
	_ = f.SetColWidth(formSheet, "B", "B", 52)
	_ = f.SetColWidth(formSheet, "C", "C", 16)
}

func writeBracketSheet(f *excelize.File, brackets []domain.BracketBreakdownEntry, moneyStyle, bold int) {
	w := &sheetWriter{f: f, sheet: bracketSheet, row: 1}
	w.header(bold, "Bracket", "Rate", "Taxable in bracket", "Tax from bracket", "Cumulative tax")
	for _, b := range brackets {
		w.write(1, b.BracketRange)
		w.write(2, b.Rate.String())
		w.money(3, b.TaxableInThisBracket, moneyStyle)
		w.money(4, b.TaxFromThisBracket, moneyStyle)
		w.money(5, b.CumulativeTax, moneyStyle)
		w.row++
	}
	_ = f.SetColWidth(bracketSheet, "A", "A", 24)
	_ = f.SetColWidth(bracketSheet, "B", "E", 18)
}

func writeSourceSheet(f *excelize.File, docs []SourceDocument, moneyStyle, bold int) {
	w := &sheetWriter{f: f, sheet: sourceSheet, row: 1}
	w.header(bold, "Document", "Type", "Field", "Box", "Line", "Amount", "Confidence", "Included")
	for _, d := range docs {
		for _, field := range d.Fields {
			w.write(1, d.FileName)
			w.write(2, string(d.DocumentType))
			w.write(3, field.FieldName)
			w.write(4, field.BoxReference)
			w.write(5, field.MappedToLine)
			w.money(6, field.Amount, moneyStyle)
			w.write(7, field.Confidence)
			w.write(8, field.Included)
			w.row++
		}
	}
	_ = f.SetColWidth(sourceSheet, "A", "A", 28)
	_ = f.SetColWidth(sourceSheet, "B", "E", 20)
	_ = f.SetColWidth(sourceSheet, "F", "H", 14)
}
