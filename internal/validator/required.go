package validator

import (
	"fmt"
	"strings"

	"declarant/internal/domain"
)

func fieldMessage(passed bool, ruleName, fieldPath string) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", ruleName, fieldPath)
	}
	return fmt.Sprintf("%s: %s is missing or empty", ruleName, fieldPath)
}

func requiredField(key, name, fieldPath string, sev Severity, extract func(*domain.CustomsRecord) string) *rule {
	return &rule{
		key: key, name: name, ruleType: RuleRequired, sev: sev,
		fn: func(r *domain.CustomsRecord) []Result {
			val := strings.TrimSpace(extract(r))
			return []Result{{
				Passed:        val != "",
				FieldPath:     fieldPath,
				ExpectedValue: "non-empty value",
				ActualValue:   val,
				Message:       fieldMessage(val != "", name, fieldPath),
			}}
		},
	}
}

func requiredItemField(key, name, field string, sev Severity, extract func(*domain.GoodsItem) string) *rule {
	return &rule{
		key: key, name: name, ruleType: RuleRequired, sev: sev,
		fn: func(r *domain.CustomsRecord) []Result {
			results := make([]Result, 0, len(r.GoodsList))
			for i := range r.GoodsList {
				val := strings.TrimSpace(extract(&r.GoodsList[i]))
				fp := fmt.Sprintf("goodsList[%d].%s", i, field)
				results = append(results, Result{
					Passed:        val != "",
					FieldPath:     fp,
					ExpectedValue: "non-empty value",
					ActualValue:   val,
					Message:       fieldMessage(val != "", name, fp),
				})
			}
			return results
		},
	}
}

func requiredRules() []*rule {
	return []*rule{
		requiredField("required.contract.number", "Required: Contract Number", "contractInfo.contractNumber", SeverityWarning,
			func(r *domain.CustomsRecord) string { return r.ContractInfo.ContractNumber }),
		requiredField("required.contract.buyer", "Required: Buyer", "contractInfo.buyer", SeverityError,
			func(r *domain.CustomsRecord) string { return r.ContractInfo.Buyer }),
		requiredField("required.contract.seller", "Required: Seller", "contractInfo.seller", SeverityError,
			func(r *domain.CustomsRecord) string { return r.ContractInfo.Seller }),
		requiredField("required.invoice.number", "Required: Invoice Number", "invoiceInfo.invoiceNumber", SeverityWarning,
			func(r *domain.CustomsRecord) string { return r.InvoiceInfo.InvoiceNumber }),
		requiredField("required.invoice.currency", "Required: Currency", "invoiceInfo.currency", SeverityError,
			func(r *domain.CustomsRecord) string { return r.InvoiceInfo.Currency }),
		requiredItemField("required.goods.hs_code", "Required: HS Code", "hsCode", SeverityError,
			func(g *domain.GoodsItem) string { return g.HSCode }),
		requiredItemField("required.goods.name_chinese", "Required: Chinese Name", "nameChinese", SeverityError,
			func(g *domain.GoodsItem) string { return g.NameChinese }),
		requiredItemField("required.goods.unit", "Required: Unit", "unit", SeverityWarning,
			func(g *domain.GoodsItem) string { return g.Unit }),
		requiredItemField("required.goods.origin", "Required: Origin Country", "originCountry", SeverityWarning,
			func(g *domain.GoodsItem) string { return g.OriginCountry }),
	}
}
