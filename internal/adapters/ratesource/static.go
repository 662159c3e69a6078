package ratesource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// StaticSourceName labels rows produced by the static source.
const StaticSourceName = "static"

// defaultReferenceTable is the value of one unit of each currency in MAD.
var defaultReferenceTable = map[string]string{
	"USD": "10.12",
	"EUR": "11.05",
	"GBP": "12.78",
	"MAD": "1",
}

// StaticSource serves a fixed reference table: units of the reference currency per unit
// of each listed currency.
type StaticSource struct {
	reference string
	table     map[string]decimal.Decimal
}

var _ gateways.RateSource = (*StaticSource)(nil)

// NewStaticSource creates a static source over table, denominated in reference.
func NewStaticSource(reference string, table map[string]decimal.Decimal) *StaticSource {
	reference = strings.ToUpper(reference)
	t := make(map[string]decimal.Decimal, len(table)+1)
	for code, v := range table {
		t[strings.ToUpper(code)] = v
	}
	t[reference] = decimal.NewFromInt(1)
	return &StaticSource{reference: reference, table: t}
}

// DefaultStaticSource returns the built-in MAD table.
func DefaultStaticSource() *StaticSource {
	table := make(map[string]decimal.Decimal, len(defaultReferenceTable))
	for code, v := range defaultReferenceTable {
		table[code] = decimal.RequireFromString(v)
	}
	return NewStaticSource(domain.ReferenceCurrency, table)
}

// tableFile is the YAML layout of RATES_TABLE_FILE.
type tableFile struct {
	Reference string            `yaml:"reference"`
	Rates     map[string]string `yaml:"rates"`
}

// LoadStaticSource reads a reference table from a YAML file:
//
//	reference: MAD
//	rates:
//	  USD: 10.12
//	  EUR: 11.05
func LoadStaticSource(path string) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate table %s: %w", path, err)
	}

	var file tableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rate table %s: %w", path, err)
	}
	if file.Reference == "" {
		file.Reference = domain.ReferenceCurrency
	}
	if len(file.Rates) == 0 {
		return nil, fmt.Errorf("rate table %s has no rates", path)
	}

	table := make(map[string]decimal.Decimal, len(file.Rates))
	for code, v := range file.Rates {
		rate, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("rate table %s: invalid rate for %s: %w", path, code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate table %s: rate for %s must be positive", path, code)
		}
		table[code] = rate
	}
	return NewStaticSource(file.Reference, table), nil
}

// Name implements gateways.RateSource.
func (s *StaticSource) Name() string {
	return StaticSourceName
}

// FetchRates returns, for the reference currency, the inverse of each table entry
// (units of target per unit of reference). For any other base the raw table is returned.
func (s *StaticSource) FetchRates(_ context.Context, base string) (map[string]decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	out := make(map[string]decimal.Decimal, len(s.table))

	if !strings.EqualFold(base, s.reference) {
		for code, v := range s.table {
			out[code] = v
		}
		return out, nil
	}

	for code, v := range s.table {
		if code == s.reference {
			out[code] = one
			continue
		}
		out[code] = one.Div(v)
	}
	return out, nil
}
