package services

import (
	"strings"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when no rule matches a description.
const DefaultCategory = "Other"

// Categorizer suggests a category for a transaction description.
type Categorizer interface {
	Suggest(description string, amount decimal.Decimal) domain.CategorySuggestion
}

type categoryRule struct {
	category string
	keywords []string
}

// KeywordCategorizer matches lower-cased descriptions against keyword lists. The first
// rule with the most hits wins.
type KeywordCategorizer struct {
	rules []categoryRule
}

// NewKeywordCategorizer returns a categorizer with rules for a freight and transit business.
func NewKeywordCategorizer() *KeywordCategorizer {
	return &KeywordCategorizer{rules: []categoryRule{
		{category: "Fuel", keywords: []string{"fuel", "diesel", "gasoil", "petrol", "essence", "carburant", "afriquia", "shell", "total"}},
		{category: "Transport", keywords: []string{"freight", "shipping", "transport", "truck", "camion", "trip", "toll", "peage", "autoroute"}},
		{category: "Customs", keywords: []string{"customs", "douane", "duty", "dedouanement", "clearance", "transit fee"}},
		{category: "Maintenance", keywords: []string{"repair", "maintenance", "tyre", "tire", "pneu", "garage", "spare", "vidange", "oil change"}},
		{category: "Salaries", keywords: []string{"salary", "salaire", "payroll", "wage", "bonus", "cnss"}},
		{category: "Rent", keywords: []string{"rent", "loyer", "lease", "warehouse"}},
		{category: "Utilities", keywords: []string{"electricity", "water", "internet", "phone", "telecom", "lydec", "onee", "maroc telecom", "inwi", "orange"}},
		{category: "Office", keywords: []string{"office", "paper", "printer", "stationery", "fournitures", "software", "subscription"}},
		{category: "Insurance", keywords: []string{"insurance", "assurance", "policy"}},
		{category: "Taxes", keywords: []string{"tax", "tva", "vat", "impot", "dgi"}},
		{category: "Sales", keywords: []string{"invoice", "facture", "payment received", "client", "customer", "sale", "revenue"}},
	}}
}

// Suggest returns the best matching category, or DefaultCategory with zero confidence.
func (c *KeywordCategorizer) Suggest(description string, _ decimal.Decimal) domain.CategorySuggestion {
	text := strings.ToLower(description)
	best, bestHits := "", 0
	for _, rule := range c.rules {
		hits := 0
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = rule.category, hits
		}
	}
	if bestHits == 0 {
		return domain.CategorySuggestion{Category: DefaultCategory, Confidence: 0}
	}
	confidence := 0.6 + 0.15*float64(bestHits-1)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return domain.CategorySuggestion{Category: best, Confidence: confidence}
}
