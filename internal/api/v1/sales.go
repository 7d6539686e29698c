package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fonte values reported in VendasReport, telling callers whether the result
// came back from the cache or from a fresh database aggregation.
const (
	FonteCache    = "cache"
	FonteDatabase = "database"
)

var oneHundred = decimal.NewFromInt(100)

// VendaItem is one aggregated sales row, grouped by store (and optionally
// package). Numeric fields are never null: missing source values are coerced
// to zero before any arithmetic.
type VendaItem struct {
	Codigo              string          `json:"codigo"`
	Loja                string          `json:"loja"`
	Regiao              string          `json:"regiao,omitempty"`
	Pacote              string          `json:"pacote,omitempty"`
	TotalVendas         int64           `json:"total_vendas"`
	TotalQuantidade     decimal.Decimal `json:"total_quantidade"`
	VendaTotal          decimal.Decimal `json:"venda_total"`
	CustoTotal          decimal.Decimal `json:"custo_total"`
	CMV                 decimal.Decimal `json:"cmv"`
	UltimaSincronizacao string          `json:"ultima_sincronizacao,omitempty"`
}

// VendasReport is the cached-and-served response shape for a window query.
type VendasReport struct {
	DataConsulta   time.Time   `json:"data_consulta"`
	PeriodoInicio  string      `json:"periodo_inicio"`
	PeriodoFim     string      `json:"periodo_fim"`
	TotalRegistros int         `json:"total_registros"`
	Fonte          string      `json:"fonte"`
	Vendas         []VendaItem `json:"vendas"`
}

// ComputeCMV derives the cost-to-revenue percentage, rounded to two places.
// Zero revenue yields zero, never a division fault.
func ComputeCMV(custo, venda decimal.Decimal) decimal.Decimal {
	if !venda.IsPositive() {
		return decimal.Zero
	}
	return custo.Div(venda).Mul(oneHundred).Round(2)
}
