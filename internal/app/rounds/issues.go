package rounds

import (
	"context"
	"errors"
	"time"

	"github.com/marcelojr/rondas-api/internal/domain"
)

// IssueService cobre o CRUD de problemas registrados contra rondas; não há
// ciclo de vida, apenas criação, atualização parcial, remoção e listagem.
type IssueService struct {
	issues domain.IssueRepository
	clock  domain.Clock

	defaultLimit int
	maxLimit     int
}

func NewIssueService(issues domain.IssueRepository, clock domain.Clock, defaultLimit, maxLimit int) *IssueService {
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	return &IssueService{
		issues:       issues,
		clock:        clock,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type CriarIssueInput struct {
	RoundID     domain.RoundID
	Category    domain.Category
	Severity    *domain.Severity
	Description string
}

type AtualizarIssueInput struct {
	RoundID     *domain.RoundID
	Category    *domain.Category
	Severity    *domain.Severity
	Description *string
	CreatedAt   *time.Time
}

type ListarInput struct {
	Date      string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (s *IssueService) Criar(ctx context.Context, in CriarIssueInput) (domain.Issue, error) {
	issue := domain.Issue{
		RoundID:     in.RoundID,
		Category:    in.Category,
		Severity:    domain.SeverityBaixa,
		Description: in.Description,
		CreatedAt:   s.clock.Agora(),
	}
	if in.Severity != nil {
		issue.Severity = *in.Severity
	}

	return s.issues.Create(ctx, issue)
}

func (s *IssueService) Buscar(ctx context.Context, id domain.IssueID) (domain.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Issue{}, ErrNaoEncontrado
		}
		return domain.Issue{}, err
	}
	return issue, nil
}

func (s *IssueService) Atualizar(ctx context.Context, id domain.IssueID, in AtualizarIssueInput) (domain.Issue, error) {
	fields := map[string]any{}
	if in.RoundID != nil {
		fields["round_id"] = int64(*in.RoundID)
	}
	if in.Category != nil {
		fields["category"] = string(*in.Category)
	}
	if in.Severity != nil {
		fields["severity"] = string(*in.Severity)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.CreatedAt != nil {
		fields["created_at"] = *in.CreatedAt
	}

	if len(fields) == 0 {
		return domain.Issue{}, ErrNadaParaAtualizar
	}

	updated, err := s.issues.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Issue{}, ErrNaoEncontrado
		}
		return domain.Issue{}, err
	}
	return updated, nil
}

func (s *IssueService) Remover(ctx context.Context, id domain.IssueID) (domain.Issue, error) {
	deleted, err := s.issues.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Issue{}, ErrNaoEncontrado
		}
		return domain.Issue{}, err
	}
	return deleted, nil
}

func (s *IssueService) Listar(ctx context.Context, in ListarInput) ([]domain.Issue, Pagination, error) {
	page, limit := normalizePage(in.Page, in.Limit, s.defaultLimit, s.maxLimit)

	batch, err := s.issues.List(ctx, createdRange(in.Date, in.StartDate, in.EndDate), domain.Page{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, Pagination{}, err
	}

	return batch, buildPagination(page, limit, len(batch)), nil
}
