package rounds

// Pagination segue o contrato da API: nextPage é inferido da lotação do lote
// devolvido, sem consultar o total (aproximação assumida do contrato).
type Pagination struct {
	Page     int  `json:"page"`
	Limit    int  `json:"limit"`
	NextPage *int `json:"nextPage"`
	PrevPage *int `json:"prevPage"`
}

func buildPagination(page, limit, batchLen int) Pagination {
	p := Pagination{Page: page, Limit: limit}

	if batchLen == limit {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

func normalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
