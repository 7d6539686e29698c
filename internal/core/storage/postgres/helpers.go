package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/marcelobragadossantos/api-realtime/internal/api/v1"
	"github.com/shopspring/decimal"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanVendaRow scans one aggregated sales row. Every nullable column is
// coerced: strings to "", numerics to zero. CMV is not selected by the query;
// the report layer derives it.
func scanVendaRow(row scanner) (v1.VendaItem, error) {
	var (
		codigo, loja, regiao, pacote, ultimaSinc sql.NullString
		totalVendas                              sql.NullInt64
		totalQuantidade, vendaTotal, custoTotal  sql.NullFloat64
	)

	err := row.Scan(
		&codigo,
		&loja,
		&regiao,
		&pacote,
		&totalVendas,
		&totalQuantidade,
		&vendaTotal,
		&custoTotal,
		&ultimaSinc,
	)
	if err != nil {
		return v1.VendaItem{}, fmt.Errorf("failed to scan sales row: %w", err)
	}

	return v1.VendaItem{
		Codigo:              codigo.String,
		Loja:                loja.String,
		Regiao:              regiao.String,
		Pacote:              pacote.String,
		TotalVendas:         totalVendas.Int64,
		TotalQuantidade:     decimal.NewFromFloat(totalQuantidade.Float64),
		VendaTotal:          decimal.NewFromFloat(vendaTotal.Float64),
		CustoTotal:          decimal.NewFromFloat(custoTotal.Float64),
		UltimaSincronizacao: ultimaSinc.String,
	}, nil
}
