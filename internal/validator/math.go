package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"declarant/internal/domain"
)

// mathTolerance absorbs rounding on printed documents.
var mathTolerance = decimal.NewFromFloat(0.01)

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(mathTolerance)
}

func mathResult(passed bool, fieldPath string, expected, actual decimal.Decimal, ruleName string) Result {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)",
			ruleName, fieldPath, expected.StringFixed(2), actual.StringFixed(2))
	}
	return Result{
		Passed:        passed,
		FieldPath:     fieldPath,
		ExpectedValue: expected.StringFixed(2),
		ActualValue:   actual.StringFixed(2),
		Message:       msg,
	}
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func mathRules() []*rule {
	return []*rule{
		{
			key: "math.goods.total_price", name: "Math: Line Total Price",
			ruleType: RuleSumCheck, sev: SeverityError,
			fn: func(r *domain.CustomsRecord) []Result {
				results := make([]Result, 0, len(r.GoodsList))
				for i := range r.GoodsList {
					item := &r.GoodsList[i]
					fp := fmt.Sprintf("goodsList[%d].totalPrice", i)
					expected := dec(item.Quantity).Mul(dec(item.UnitPrice))
					actual := dec(item.TotalPrice)
					results = append(results, mathResult(approxEqual(expected, actual), fp, expected, actual, "Math: Line Total Price"))
				}
				return results
			},
		},
		{
			key: "math.invoice.total_amount", name: "Math: Invoice Total",
			ruleType: RuleSumCheck, sev: SeverityError,
			fn: func(r *domain.CustomsRecord) []Result {
				if len(r.GoodsList) == 0 {
					return nil
				}
				sum := decimal.Zero
				for i := range r.GoodsList {
					sum = sum.Add(dec(r.GoodsList[i].TotalPrice))
				}
				actual := dec(r.InvoiceInfo.TotalAmount)
				return []Result{mathResult(approxEqual(sum, actual), "invoiceInfo.totalAmount", sum, actual, "Math: Invoice Total")}
			},
		},
		{
			key: "math.packing.total_net_weight", name: "Math: Total Net Weight",
			ruleType: RuleSumCheck, sev: SeverityWarning,
			fn: func(r *domain.CustomsRecord) []Result {
				return weightTotal(r, r.PackingInfo.TotalNetWeight, "packingInfo.totalNetWeight", "Math: Total Net Weight",
					func(g *domain.GoodsItem) float64 { return g.NetWeight })
			},
		},
		{
			key: "math.packing.total_gross_weight", name: "Math: Total Gross Weight",
			ruleType: RuleSumCheck, sev: SeverityWarning,
			fn: func(r *domain.CustomsRecord) []Result {
				return weightTotal(r, r.PackingInfo.TotalGrossWeight, "packingInfo.totalGrossWeight", "Math: Total Gross Weight",
					func(g *domain.GoodsItem) float64 { return g.GrossWeight })
			},
		},
	}
}

// weightTotal compares a stated aggregate with the item sum. An absent
// aggregate is not checked; projection falls back to the sum anyway.
func weightTotal(r *domain.CustomsRecord, stated *float64, fieldPath, ruleName string, weight func(*domain.GoodsItem) float64) []Result {
	if stated == nil || len(r.GoodsList) == 0 {
		return nil
	}
	sum := decimal.Zero
	for i := range r.GoodsList {
		sum = sum.Add(dec(weight(&r.GoodsList[i])))
	}
	actual := dec(*stated)
	return []Result{mathResult(approxEqual(sum, actual), fieldPath, sum, actual, ruleName)}
}
