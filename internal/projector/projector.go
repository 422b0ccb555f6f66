// Package projector lays a CustomsRecord out as the four sheets of the
// declaration workbook. Projection is pure: the only input besides the record
// is the declaration date, passed explicitly.
package projector

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"declarant/internal/domain"
)

// Sheet names, in workbook order.
const (
	SheetDeclaration = "报关单草单 (Declaration)"
	SheetPacking     = "装箱单 (Packing List)"
	SheetInvoice     = "发票 (Invoice)"
	SheetContract    = "合同要素 (Contract)"
)

const (
	transportModePlaceholder   = "水路/航空"
	supervisionModePlaceholder = "一般贸易"
	paymentTermsPlaceholder    = "T/T or L/C"
	noMarks                    = "N/M"
	dateLayout                 = "2006-01-02"
)

// Project builds all four sheets. The layouts share no state and are built
// concurrently.
func Project(record *domain.CustomsRecord, today time.Time) domain.SheetSet {
	if record == nil {
		record = &domain.CustomsRecord{}
	}
	var set domain.SheetSet
	var g errgroup.Group
	g.Go(func() error {
		set.Declaration = Declaration(record, today)
		return nil
	})
	g.Go(func() error {
		set.Packing = Packing(record)
		return nil
	})
	g.Go(func() error {
		set.Invoice = Invoice(record)
		return nil
	})
	g.Go(func() error {
		set.Contract = Contract(record)
		return nil
	})
	_ = g.Wait()
	return set
}

// Declaration builds the customs declaration draft. The buyer is the
// domestic consignee and the seller the foreign shipper.
func Declaration(r *domain.CustomsRecord, today time.Time) domain.Sheet {
	net, gross := packingTotals(r)
	origin := ""
	if len(r.GoodsList) > 0 {
		origin = r.GoodsList[0].OriginCountry
	}

	rows := [][]any{
		{"进口货物报关单草单 (Import Declaration Draft)"},
		{},
		{"预录入编号", "", "海关编号", ""},
		{"境内收货人", r.ContractInfo.Buyer, "境外发货人", r.ContractInfo.Seller},
		{"进口口岸", "", "进口日期", ""},
		{"申报日期", today.Format(dateLayout), "运输方式", transportModePlaceholder},
		{"提运单号", "", "监管方式", supervisionModePlaceholder},
		{"合同协议号", r.ContractInfo.ContractNumber, "贸易国(地区)", origin},
		{"包装种类", r.PackingInfo.PackageType, "件数", r.PackingInfo.TotalPackages},
		{"毛重(KG)", gross, "净重(KG)", net},
		{"成交方式", r.InvoiceInfo.Incoterms, "运费", "", "保费", ""},
		{},
		{"项号", "商品编号", "商品名称及规格型号", "数量及单位", "单价/总价/币制", "原产国"},
	}
	for i, item := range r.GoodsList {
		rows = append(rows, []any{
			i + 1,
			item.HSCode,
			nameWithElements(item),
			formatNumber(item.Quantity) + " " + item.Unit,
			formatNumber(item.UnitPrice) + " / " + formatNumber(item.TotalPrice) + " / " + r.InvoiceInfo.Currency,
			item.OriginCountry,
		})
	}

	return domain.Sheet{
		Name:         SheetDeclaration,
		Rows:         rows,
		ColumnWidths: []float64{10, 15, 50, 20, 25, 15},
	}
}

// Packing builds the packing list. The TOTAL row trusts the record's
// aggregate weights and only sums the items when an aggregate is absent.
func Packing(r *domain.CustomsRecord) domain.Sheet {
	rows := [][]any{
		{"装箱单 (PACKING LIST)"},
		{"Invoice No:", r.InvoiceInfo.InvoiceNumber, "Date:", r.InvoiceInfo.Date},
		{},
		{"No.", "Description", "Quantity", "Unit", "N.W.(KG)", "G.W.(KG)"},
	}
	for i, item := range r.GoodsList {
		rows = append(rows, []any{
			i + 1,
			item.NameChinese,
			item.Quantity,
			item.Unit,
			item.NetWeight,
			item.GrossWeight,
		})
	}
	net, gross := packingTotals(r)
	rows = append(rows, []any{"TOTAL", "", "", "", net, gross})

	return domain.Sheet{
		Name:         SheetPacking,
		Rows:         rows,
		ColumnWidths: []float64{5, 30, 10, 10, 15, 15},
	}
}

// Invoice builds the commercial invoice.
func Invoice(r *domain.CustomsRecord) domain.Sheet {
	cur := r.InvoiceInfo.Currency
	rows := [][]any{
		{"商业发票 (COMMERCIAL INVOICE)"},
		{"Seller:", r.ContractInfo.Seller},
		{"Buyer:", r.ContractInfo.Buyer},
		{"Invoice No:", r.InvoiceInfo.InvoiceNumber},
		{"Date:", r.InvoiceInfo.Date},
		{},
		{"Marks & Nos", "Description of Goods", "Quantity", "Unit Price", "Amount"},
	}
	for _, item := range r.GoodsList {
		desc := item.NameEnglish
		if strings.TrimSpace(desc) == "" {
			desc = item.NameChinese
		}
		rows = append(rows, []any{
			noMarks,
			desc,
			item.Quantity,
			money(cur, item.UnitPrice),
			money(cur, item.TotalPrice),
		})
	}
	rows = append(rows, []any{"", "TOTAL", "", "", money(cur, r.InvoiceInfo.TotalAmount)})

	return domain.Sheet{
		Name:         SheetInvoice,
		Rows:         rows,
		ColumnWidths: []float64{15, 40, 10, 15, 15},
	}
}

// Contract builds the contract summary.
func Contract(r *domain.CustomsRecord) domain.Sheet {
	return domain.Sheet{
		Name: SheetContract,
		Rows: [][]any{
			{"售货合同 (SALES CONTRACT)"},
			{"合同号 (Contract No):", r.ContractInfo.ContractNumber},
			{"签约日期 (Date):", r.ContractInfo.Date},
			{"签约地点 (Place):", r.ContractInfo.SigningPlace},
			{"买方 (Buyer):", r.ContractInfo.Buyer},
			{"卖方 (Seller):", r.ContractInfo.Seller},
			{"付款方式:", paymentTermsPlaceholder},
		},
		ColumnWidths: []float64{20, 50},
	}
}

func nameWithElements(item domain.GoodsItem) string {
	if item.ElementString == "" {
		return item.NameChinese
	}
	return item.NameChinese + "\n" + item.ElementString
}

// packingTotals returns the record's aggregate weights, summing the items
// for whichever aggregate is absent.
func packingTotals(r *domain.CustomsRecord) (net, gross float64) {
	if r.PackingInfo.TotalNetWeight != nil {
		net = *r.PackingInfo.TotalNetWeight
	} else {
		net = sumItems(r.GoodsList, func(it domain.GoodsItem) float64 { return it.NetWeight })
	}
	if r.PackingInfo.TotalGrossWeight != nil {
		gross = *r.PackingInfo.TotalGrossWeight
	} else {
		gross = sumItems(r.GoodsList, func(it domain.GoodsItem) float64 { return it.GrossWeight })
	}
	return net, gross
}

func sumItems(items []domain.GoodsItem, weight func(domain.GoodsItem) float64) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(weight(it)))
	}
	f, _ := total.Float64()
	return f
}

func money(currency string, amount float64) string {
	if currency == "" {
		return formatNumber(amount)
	}
	return currency + " " + formatNumber(amount)
}

// formatNumber renders the shortest exact decimal form: 1250, 2.5, 0.125.
func formatNumber(f float64) string {
	return decimal.NewFromFloat(f).String()
}
