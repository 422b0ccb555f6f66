package validator

import (
	"fmt"

	"declarant/internal/domain"
)

func logicalRules() []*rule {
	return []*rule{
		{
			key: "logical.goods.net_le_gross", name: "Logical: Net Weight Within Gross",
			ruleType: RuleLogical, sev: SeverityWarning,
			fn: func(r *domain.CustomsRecord) []Result {
				var results []Result
				for i := range r.GoodsList {
					item := &r.GoodsList[i]
					if item.GrossWeight == 0 {
						continue
					}
					fp := fmt.Sprintf("goodsList[%d].netWeight", i)
					passed := item.NetWeight <= item.GrossWeight
					msg := fmt.Sprintf("Logical: Net Weight Within Gross: %s is consistent", fp)
					if !passed {
						msg = fmt.Sprintf("Logical: Net Weight Within Gross: %s exceeds gross weight", fp)
					}
					results = append(results, Result{
						Passed: passed, FieldPath: fp,
						ExpectedValue: fmt.Sprintf("<= %g", item.GrossWeight),
						ActualValue:   fmt.Sprintf("%g", item.NetWeight),
						Message:       msg,
					})
				}
				return results
			},
		},
		{
			key: "logical.goods.not_empty", name: "Logical: Goods Present",
			ruleType: RuleLogical, sev: SeverityError,
			fn: func(r *domain.CustomsRecord) []Result {
				passed := len(r.GoodsList) > 0
				msg := "Logical: Goods Present: goodsList has items"
				if !passed {
					msg = "Logical: Goods Present: no goods were extracted"
				}
				return []Result{{Passed: passed, FieldPath: "goodsList", Message: msg}}
			},
		},
	}
}
