// Package csvexport writes the goods list of a customs record as CSV, for
// brokers who paste items into their declaration software.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"declarant/internal/domain"
	"declarant/internal/xlsxexport"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (14 columns).
var columns = []string{
	"Item No",
	"HS Code",
	"Name (CN)",
	"Name (EN)",
	"Declaration Elements",
	"Quantity",
	"Unit",
	"Unit Price",
	"Total Price",
	"Currency",
	"Net Weight (KG)",
	"Gross Weight (KG)",
	"Origin Country",
	"Invoice Number",
}

// Writer wraps csv.Writer for exporting goods items as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one row per goods item of record.
func (w *Writer) WriteRecord(record *domain.CustomsRecord) error {
	if record == nil {
		return nil
	}
	for i := range record.GoodsList {
		if err := w.csv.Write(itemToRow(i+1, &record.GoodsList[i], &record.InvoiceInfo)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Write emits BOM, header and items of record to out in one go.
func Write(out io.Writer, record *domain.CustomsRecord) error {
	if _, err := out.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteRecord(record); err != nil {
		return fmt.Errorf("writing goods: %w", err)
	}
	w.Flush()
	return w.Error()
}

func itemToRow(n int, item *domain.GoodsItem, inv *domain.InvoiceInfo) []string {
	row := make([]string, len(columns))
	row[0] = strconv.Itoa(n)
	row[1] = item.HSCode
	row[2] = item.NameChinese
	row[3] = item.NameEnglish
	row[4] = item.ElementString
	row[5] = formatNumber(item.Quantity)
	row[6] = item.Unit
	row[7] = formatNumber(item.UnitPrice)
	row[8] = formatNumber(item.TotalPrice)
	row[9] = inv.Currency
	row[10] = formatNumber(item.NetWeight)
	row[11] = formatNumber(item.GrossWeight)
	row[12] = item.OriginCountry
	row[13] = inv.InvoiceNumber
	return row
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: Goods_List_{invoice number or Draft}.csv
func BuildFilename(invoiceNumber string) string {
	name := xlsxexport.SanitizeFilename(invoiceNumber)
	if name == "" {
		name = "Draft"
	}
	return fmt.Sprintf("Goods_List_%s.csv", name)
}
