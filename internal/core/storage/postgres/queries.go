package postgres

// Aggregation queries against the ERP sales schema. The schema is owned by the
// upstream system; this service only reads it.

const (
	// querySalesByWindow aggregates finalized sales (status = 'F') inside a
	// timestamp window, grouped by store, region and package. Revenue and cost
	// come back NULL-free via COALESCE; last-sync comes from the monitoring
	// join. Ordered by descending revenue as the endpoint contract requires.
	querySalesByWindow = `
		SELECT
			u.codigo,
			u.nome AS loja,
			u.regiao,
			iv.pacoteid,
			COUNT(DISTINCT iv.vendaid) AS total_vendas,
			COALESCE(SUM(iv.quantidade), 0) AS total_quantidade,
			COALESCE(SUM(iv.valortotal::double precision), 0) AS venda_total,
			COALESCE(SUM(iv.valorcusto::double precision), 0) AS custo_total,
			TO_CHAR(MAX(m.ultima_sincronizacao), 'YYYY-MM-DD HH24:MI:SS') AS ultima_sincronizacao
		FROM itemvenda iv
		LEFT JOIN unidadenegocio u ON u.id = iv.unidadenegocioid
		LEFT JOIN monitoramento_sincronizacao m ON m.unidadenegocioid = u.id
		WHERE iv.datahora >= $1
		  AND iv.datahora <= $2
		  AND iv.status = 'F'
		GROUP BY u.codigo, u.nome, u.regiao, iv.pacoteid
		ORDER BY venda_total DESC
	`

	// queryCheckSchema verifies the ERP sales table is reachable on startup.
	queryCheckSchema = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'itemvenda'
		)
	`
)
