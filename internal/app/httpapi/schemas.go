package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/marcelojr/rondas-api/internal/domain"
)

// FieldIssue é uma violação de campo devolvida ao cliente em respostas 400.
type FieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

var validate = validator.New()

func init() {
	// Os nomes de campo das violações seguem as tags json, não os nomes Go.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Enums com espaços e acentos ("em progresso", "não feito") não cabem em
	// oneof; cada conjunto fechado vira uma validação própria.
	_ = validate.RegisterValidation("round_status", func(fl validator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).Valido()
	})
	_ = validate.RegisterValidation("issue_category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valida()
	})
	_ = validate.RegisterValidation("issue_severity", func(fl validator.FieldLevel) bool {
		return domain.Severity(fl.Field().String()).Valida()
	})
	_ = validate.RegisterValidation("feedback_type", func(fl validator.FieldLevel) bool {
		return domain.FeedbackType(fl.Field().String()).Valido()
	})
	_ = validate.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
}

// decodeStrict rejeita chaves desconhecidas em qualquer payload; o formato dos
// documentos faz parte do contrato.
func decodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("payload invalido: %w", err)
	}
	return nil
}

// checkSchema roda as tags de validação e converte as falhas em violações de campo.
func checkSchema(payload any) []FieldIssue {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var issues []FieldIssue
	for _, fe := range err.(validator.ValidationErrors) {
		// Namespace inclui o nome do struct raiz; o cliente só vê o caminho json.
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		issues = append(issues, FieldIssue{Field: field, Rule: fe.Tag()})
	}
	return issues
}

type limpezaPayload struct {
	Salao               string `json:"salao" validate:"required,round_status"`
	BanheiroMasculino   string `json:"banheiro_masculino" validate:"required,round_status"`
	BanheiroHCMasculino string `json:"banheiro_hc_masculino" validate:"required,round_status"`
	BanheiroFeminino    string `json:"banheiro_feminino" validate:"required,round_status"`
	BanheiroHCFeminino  string `json:"banheiro_hc_feminino" validate:"required,round_status"`
	Copa                string `json:"copa" validate:"required,round_status"`
	AreaServico         string `json:"area_servico" validate:"required,round_status"`
	AreaCozinha         string `json:"area_cozinha" validate:"required,round_status"`
	AreaBar             string `json:"area_bar" validate:"required,round_status"`
}

type checklistPayload struct {
	Limpeza   limpezaPayload `json:"limpeza" validate:"required"`
	Buffet    string         `json:"buffet" validate:"required,round_status"`
	Geladeira string         `json:"geladeira" validate:"required,round_status"`
}

func (p checklistPayload) toDomain() domain.Checklist {
	return domain.Checklist{
		Limpeza: domain.Limpeza{
			Salao:               domain.Status(p.Limpeza.Salao),
			BanheiroMasculino:   domain.Status(p.Limpeza.BanheiroMasculino),
			BanheiroHCMasculino: domain.Status(p.Limpeza.BanheiroHCMasculino),
			BanheiroFeminino:    domain.Status(p.Limpeza.BanheiroFeminino),
			BanheiroHCFeminino:  domain.Status(p.Limpeza.BanheiroHCFeminino),
			Copa:                domain.Status(p.Limpeza.Copa),
			AreaServico:         domain.Status(p.Limpeza.AreaServico),
			AreaCozinha:         domain.Status(p.Limpeza.AreaCozinha),
			AreaBar:             domain.Status(p.Limpeza.AreaBar),
		},
		Buffet:    domain.Status(p.Buffet),
		Geladeira: domain.Status(p.Geladeira),
	}
}

type createRoundRequest struct {
	Date      string            `json:"date" validate:"required,datetime=2006-01-02"`
	Index     *int              `json:"index" validate:"required,min=0,max=9"`
	UserID    int64             `json:"user_id" validate:"required,gt=0"`
	StartedAt *string           `json:"started_at" validate:"omitempty,rfc3339"`
	Status    *string           `json:"status" validate:"omitempty,round_status"`
	Checklist *checklistPayload `json:"checklist"`
	Notes     *string           `json:"notes"`
}

type updateRoundRequest struct {
	ID         int64             `json:"id" validate:"required,gt=0"`
	Date       *string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Index      *int              `json:"index" validate:"omitempty,min=0,max=9"`
	CreatedAt  *string           `json:"created_at" validate:"omitempty,rfc3339"`
	StartedAt  *string           `json:"started_at" validate:"omitempty,rfc3339"`
	FinishedAt *string           `json:"finished_at" validate:"omitempty,rfc3339"`
	Duration   *int64            `json:"duration" validate:"omitempty,min=0"`
	UserID     *int64            `json:"user_id" validate:"omitempty,gt=0"`
	Status     *string           `json:"status" validate:"omitempty,round_status"`
	Checklist  *checklistPayload `json:"checklist"`
	Notes      *string           `json:"notes"`
}

// patchRoundRequest é o updateRoundRequest sem o id (que vem do path).
type patchRoundRequest struct {
	Date       *string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Index      *int              `json:"index" validate:"omitempty,min=0,max=9"`
	CreatedAt  *string           `json:"created_at" validate:"omitempty,rfc3339"`
	StartedAt  *string           `json:"started_at" validate:"omitempty,rfc3339"`
	FinishedAt *string           `json:"finished_at" validate:"omitempty,rfc3339"`
	Duration   *int64            `json:"duration" validate:"omitempty,min=0"`
	UserID     *int64            `json:"user_id" validate:"omitempty,gt=0"`
	Status     *string           `json:"status" validate:"omitempty,round_status"`
	Checklist  *checklistPayload `json:"checklist"`
	Notes      *string           `json:"notes"`
}

type startRoundRequest struct {
	StartedAt *string `json:"started_at" validate:"omitempty,rfc3339"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Index     *int    `json:"index" validate:"omitempty,min=0,max=9"`
	UserID    *int64  `json:"user_id" validate:"omitempty,gt=0"`
}

type finishRoundRequest struct {
	FinishedAt *string           `json:"finished_at" validate:"omitempty,rfc3339"`
	Checklist  *checklistPayload `json:"checklist"`
	Notes      *string           `json:"notes"`
	Status     *string           `json:"status" validate:"omitempty,round_status"`
}

type createIssueRequest struct {
	RoundID     int64   `json:"round_id" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,issue_category"`
	Severity    *string `json:"severity" validate:"omitempty,issue_severity"`
	Description string  `json:"description" validate:"required"`
}

type updateIssueRequest struct {
	ID          int64   `json:"id" validate:"required,gt=0"`
	RoundID     *int64  `json:"round_id" validate:"omitempty,gt=0"`
	Category    *string `json:"category" validate:"omitempty,issue_category"`
	Severity    *string `json:"severity" validate:"omitempty,issue_severity"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at" validate:"omitempty,rfc3339"`
}

type patchIssueRequest struct {
	RoundID     *int64  `json:"round_id" validate:"omitempty,gt=0"`
	Category    *string `json:"category" validate:"omitempty,issue_category"`
	Severity    *string `json:"severity" validate:"omitempty,issue_severity"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at" validate:"omitempty,rfc3339"`
}

type createFeedbackRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	RoundID int64  `json:"round_id" validate:"required,gt=0"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Type    string `json:"type" validate:"required,feedback_type"`
	Text    string `json:"text" validate:"required"`
}

type updateFeedbackRequest struct {
	ID        int64   `json:"id" validate:"required,gt=0"`
	UserID    *int64  `json:"user_id" validate:"omitempty,gt=0"`
	RoundID   *int64  `json:"round_id" validate:"omitempty,gt=0"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type      *string `json:"type" validate:"omitempty,feedback_type"`
	Text      *string `json:"text"`
	CreatedAt *string `json:"created_at" validate:"omitempty,rfc3339"`
}

type patchFeedbackRequest struct {
	UserID    *int64  `json:"user_id" validate:"omitempty,gt=0"`
	RoundID   *int64  `json:"round_id" validate:"omitempty,gt=0"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type      *string `json:"type" validate:"omitempty,feedback_type"`
	Text      *string `json:"text"`
	CreatedAt *string `json:"created_at" validate:"omitempty,rfc3339"`
}

type deleteRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// parseTimestamp converte strings já validadas pela tag rfc3339.
func parseTimestamp(value *string) *time.Time {
	if value == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func toStatusPtr(v *string) *domain.Status {
	if v == nil {
		return nil
	}
	s := domain.Status(*v)
	return &s
}

func toCategoryPtr(v *string) *domain.Category {
	if v == nil {
		return nil
	}
	c := domain.Category(*v)
	return &c
}

func toSeverityPtr(v *string) *domain.Severity {
	if v == nil {
		return nil
	}
	s := domain.Severity(*v)
	return &s
}

func toFeedbackTypePtr(v *string) *domain.FeedbackType {
	if v == nil {
		return nil
	}
	t := domain.FeedbackType(*v)
	return &t
}

func toChecklistPtr(p *checklistPayload) *domain.Checklist {
	if p == nil {
		return nil
	}
	c := p.toDomain()
	return &c
}

func toUserIDPtr(v *int64) *domain.UserID {
	if v == nil {
		return nil
	}
	id := domain.UserID(*v)
	return &id
}

func toRoundIDPtr(v *int64) *domain.RoundID {
	if v == nil {
		return nil
	}
	id := domain.RoundID(*v)
	return &id
}

// peekBodyID lê o corpo uma única vez e informa se o payload traz um id,
// decidindo entre o caminho de criação e o de atualização do POST.
func peekBodyID(r *http.Request) ([]byte, bool, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, false, err
	}

	var probe struct {
		ID *int64 `json:"id"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, false, err
		}
	}
	return raw, probe.ID != nil, nil
}
