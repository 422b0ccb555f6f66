package validator

import (
	"fmt"
	"regexp"

	"declarant/internal/domain"
)

var (
	hsCodeFull    = regexp.MustCompile(`^\d{10}$`)
	currencyCode  = regexp.MustCompile(`^[A-Z]{3}$`)
	hsCodeMessage = "HS code should have 10 digits for a Chinese import declaration"
)

func formatRules() []*rule {
	return []*rule{
		{
			key: "format.goods.hs_code", name: "Format: HS Code",
			ruleType: RuleFormat, sev: SeverityWarning,
			fn: func(r *domain.CustomsRecord) []Result {
				results := make([]Result, 0, len(r.GoodsList))
				for i := range r.GoodsList {
					code := r.GoodsList[i].HSCode
					fp := fmt.Sprintf("goodsList[%d].hsCode", i)
					passed := hsCodeFull.MatchString(code)
					msg := fmt.Sprintf("Format: HS Code: %s is valid", fp)
					if !passed {
						msg = fmt.Sprintf("Format: HS Code: %s: %s", fp, hsCodeMessage)
					}
					results = append(results, Result{
						Passed: passed, FieldPath: fp,
						ExpectedValue: "10 digits", ActualValue: code, Message: msg,
					})
				}
				return results
			},
		},
		{
			key: "format.invoice.currency", name: "Format: Currency",
			ruleType: RuleFormat, sev: SeverityWarning,
			fn: func(r *domain.CustomsRecord) []Result {
				cur := r.InvoiceInfo.Currency
				if cur == "" {
					return nil
				}
				passed := currencyCode.MatchString(cur)
				msg := "Format: Currency: invoiceInfo.currency is an ISO 4217 code"
				if !passed {
					msg = "Format: Currency: invoiceInfo.currency should be a three-letter ISO 4217 code"
				}
				return []Result{{
					Passed: passed, FieldPath: "invoiceInfo.currency",
					ExpectedValue: "ISO 4217 code", ActualValue: cur, Message: msg,
				}}
			},
		},
	}
}
