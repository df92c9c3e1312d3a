package rounds

import (
	"time"

	"github.com/marcelojr/rondas-api/internal/domain"
)

// createdRange expande os filtros de calendário para o intervalo de created_at:
// dia único vira [dia 00:00Z, dia+1 00:00Z) e intervalo explícito vira
// [início 00:00Z, fim 23:59:59.999Z).
func createdRange(date, startDate, endDate string) domain.CreatedRange {
	switch {
	case date != "":
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return domain.CreatedRange{}
		}
		from := day.UTC()
		to := from.Add(24 * time.Hour)
		return domain.CreatedRange{From: &from, To: &to}

	case startDate != "" && endDate != "":
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return domain.CreatedRange{}
		}
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return domain.CreatedRange{}
		}
		from := start.UTC()
		to := end.UTC().Add(24*time.Hour - time.Millisecond)
		return domain.CreatedRange{From: &from, To: &to}
	}

	return domain.CreatedRange{}
}
