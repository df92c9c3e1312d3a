package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Limpeza agrupa as nove áreas fixas vistoriadas em toda ronda.
type Limpeza struct {
	Salao               Status `json:"salao"`
	BanheiroMasculino   Status `json:"banheiro_masculino"`
	BanheiroHCMasculino Status `json:"banheiro_hc_masculino"`
	BanheiroFeminino    Status `json:"banheiro_feminino"`
	BanheiroHCFeminino  Status `json:"banheiro_hc_feminino"`
	Copa                Status `json:"copa"`
	AreaServico         Status `json:"area_servico"`
	AreaCozinha         Status `json:"area_cozinha"`
	AreaBar             Status `json:"area_bar"`
}

// Checklist é o documento de formato fixo embutido na ronda. As chaves fazem
// parte do contrato: nenhuma chave dinâmica é aceita.
type Checklist struct {
	Limpeza   Limpeza `json:"limpeza"`
	Buffet    Status  `json:"buffet"`
	Geladeira Status  `json:"geladeira"`
}

// DefaultChecklist devolve o documento com todas as folhas em "pendente".
func DefaultChecklist() Checklist {
	return Checklist{
		Limpeza: Limpeza{
			Salao:               StatusPendente,
			BanheiroMasculino:   StatusPendente,
			BanheiroHCMasculino: StatusPendente,
			BanheiroFeminino:    StatusPendente,
			BanheiroHCFeminino:  StatusPendente,
			Copa:                StatusPendente,
			AreaServico:         StatusPendente,
			AreaCozinha:         StatusPendente,
			AreaBar:             StatusPendente,
		},
		Buffet:    StatusPendente,
		Geladeira: StatusPendente,
	}
}

// Folhas expõe cada folha do documento com o caminho correspondente, na ordem do contrato.
func (c Checklist) Folhas() map[string]Status {
	return map[string]Status{
		"limpeza.salao":                 c.Limpeza.Salao,
		"limpeza.banheiro_masculino":    c.Limpeza.BanheiroMasculino,
		"limpeza.banheiro_hc_masculino": c.Limpeza.BanheiroHCMasculino,
		"limpeza.banheiro_feminino":     c.Limpeza.BanheiroFeminino,
		"limpeza.banheiro_hc_feminino":  c.Limpeza.BanheiroHCFeminino,
		"limpeza.copa":                  c.Limpeza.Copa,
		"limpeza.area_servico":          c.Limpeza.AreaServico,
		"limpeza.area_cozinha":          c.Limpeza.AreaCozinha,
		"limpeza.area_bar":              c.Limpeza.AreaBar,
	}
}

// Value serializa o documento para a coluna jsonb.
func (c Checklist) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("checklist: serializar: %w", err)
	}
	return string(data), nil
}

// Scan aceita tanto []byte (Postgres) quanto string (SQLite nos testes).
func (c *Checklist) Scan(value any) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("checklist: tipo de coluna inesperado %T", value)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("checklist: desserializar: %w", err)
	}
	return nil
}
