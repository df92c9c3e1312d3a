package rounds

import (
	"context"
	"errors"
	"time"

	"github.com/marcelojr/rondas-api/internal/domain"
)

// FeedbackService registra reclamações e elogios vinculados a rondas.
type FeedbackService struct {
	feedbacks domain.FeedbackRepository
	clock     domain.Clock

	defaultLimit int
	maxLimit     int
}

func NewFeedbackService(feedbacks domain.FeedbackRepository, clock domain.Clock, defaultLimit, maxLimit int) *FeedbackService {
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	return &FeedbackService{
		feedbacks:    feedbacks,
		clock:        clock,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type CriarFeedbackInput struct {
	UserID  domain.UserID
	RoundID domain.RoundID
	Date    string
	Type    domain.FeedbackType
	Text    string
}

type AtualizarFeedbackInput struct {
	UserID    *domain.UserID
	RoundID   *domain.RoundID
	Date      *string
	Type      *domain.FeedbackType
	Text      *string
	CreatedAt *time.Time
}

func (s *FeedbackService) Criar(ctx context.Context, in CriarFeedbackInput) (domain.Feedback, error) {
	feedback := domain.Feedback{
		UserID:    in.UserID,
		RoundID:   in.RoundID,
		Date:      in.Date,
		Type:      in.Type,
		Text:      in.Text,
		CreatedAt: s.clock.Agora(),
	}

	return s.feedbacks.Create(ctx, feedback)
}

func (s *FeedbackService) Buscar(ctx context.Context, id domain.FeedbackID) (domain.Feedback, error) {
	feedback, err := s.feedbacks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Feedback{}, ErrNaoEncontrado
		}
		return domain.Feedback{}, err
	}
	return feedback, nil
}

func (s *FeedbackService) Atualizar(ctx context.Context, id domain.FeedbackID, in AtualizarFeedbackInput) (domain.Feedback, error) {
	fields := map[string]any{}
	if in.UserID != nil {
		fields["user_id"] = int64(*in.UserID)
	}
	if in.RoundID != nil {
		fields["round_id"] = int64(*in.RoundID)
	}
	if in.Date != nil {
		fields["date"] = *in.Date
	}
	if in.Type != nil {
		fields["type"] = string(*in.Type)
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.CreatedAt != nil {
		fields["created_at"] = *in.CreatedAt
	}

	if len(fields) == 0 {
		return domain.Feedback{}, ErrNadaParaAtualizar
	}

	updated, err := s.feedbacks.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Feedback{}, ErrNaoEncontrado
		}
		return domain.Feedback{}, err
	}
	return updated, nil
}

func (s *FeedbackService) Remover(ctx context.Context, id domain.FeedbackID) (domain.Feedback, error) {
	deleted, err := s.feedbacks.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Feedback{}, ErrNaoEncontrado
		}
		return domain.Feedback{}, err
	}
	return deleted, nil
}

func (s *FeedbackService) Listar(ctx context.Context, in ListarInput) ([]domain.Feedback, Pagination, error) {
	page, limit := normalizePage(in.Page, in.Limit, s.defaultLimit, s.maxLimit)

	batch, err := s.feedbacks.List(ctx, createdRange(in.Date, in.StartDate, in.EndDate), domain.Page{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, Pagination{}, err
	}

	return batch, buildPagination(page, limit, len(batch)), nil
}
