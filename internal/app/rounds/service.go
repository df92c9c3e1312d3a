// Pacote rounds implementa as regras de negócio das rondas e dos registros
// associados (problemas e feedbacks): ciclo de vida, defaults e filtros de listagem.
package rounds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelojr/rondas-api/internal/domain"
)

var (
	// ErrNaoEncontrado sinaliza alvo inexistente; os handlers escolhem a mensagem por entidade.
	ErrNaoEncontrado = errors.New("registro nao encontrado")
	// ErrNadaParaAtualizar sinaliza um patch que chegou sem nenhum campo além do id.
	ErrNadaParaAtualizar = errors.New("nenhum campo para atualizar foi fornecido")
)

// ErrCriacaoRequerCampos acompanha o 404 do start quando a ronda não existe e o
// corpo não trouxe os campos mínimos para criá-la.
var ErrCriacaoRequerCampos = fmt.Errorf("%w: para criar uma nova passe date, index e user_id no body", ErrNaoEncontrado)

// Service concentra o ciclo de vida da ronda e delega persistência ao repositório.
type Service struct {
	rounds domain.RoundRepository
	clock  domain.Clock

	defaultLimit int
	maxLimit     int
}

func NewService(rounds domain.RoundRepository, clock domain.Clock, defaultLimit, maxLimit int) *Service {
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	return &Service{
		rounds:       rounds,
		clock:        clock,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CriarRondaInput carrega o payload já validado na borda; ponteiros nulos
// significam campo ausente e caem nos defaults documentados.
type CriarRondaInput struct {
	Date      string
	Index     int
	UserID    domain.UserID
	StartedAt *time.Time
	Status    *domain.Status
	Checklist *domain.Checklist
	Notes     *string
}

// AtualizarRondaInput cobre o PATCH geral: qualquer subconjunto de campos mutáveis.
type AtualizarRondaInput struct {
	Date       *string
	Index      *int
	CreatedAt  *time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
	Duration   *int64
	UserID     *domain.UserID
	Status     *domain.Status
	Checklist  *domain.Checklist
	Notes      *string
}

// IniciarRondaInput permite iniciar uma ronda existente ou criar uma mínima
// quando date, index e user_id vierem juntos.
type IniciarRondaInput struct {
	StartedAt *time.Time
	Date      *string
	Index     *int
	UserID    *domain.UserID
}

type FinalizarRondaInput struct {
	FinishedAt *time.Time
	Checklist  *domain.Checklist
	Notes      *string
	Status     *domain.Status
}

// ListarRondasInput filtra pela coluna de calendário: dia exato ou intervalo fechado.
type ListarRondasInput struct {
	Date      string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// Criar persiste uma nova ronda aplicando os defaults: status pendente e
// checklist inteiro em "pendente" quando não fornecidos.
func (s *Service) Criar(ctx context.Context, in CriarRondaInput) (domain.Round, error) {
	agora := s.clock.Agora()

	round := domain.Round{
		Date:      in.Date,
		Index:     in.Index,
		UserID:    in.UserID,
		CreatedAt: agora,
		StartedAt: in.StartedAt,
		Status:    domain.StatusPendente,
		Checklist: domain.DefaultChecklist(),
		Notes:     in.Notes,
	}
	if in.Status != nil {
		round.Status = *in.Status
	}
	if in.Checklist != nil {
		round.Checklist = *in.Checklist
	}

	return s.rounds.Create(ctx, round)
}

func (s *Service) Buscar(ctx context.Context, id domain.RoundID) (domain.Round, error) {
	round, err := s.rounds.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Round{}, ErrNaoEncontrado
		}
		return domain.Round{}, err
	}
	return round, nil
}

// Iniciar marca a ronda como "em progresso". Se a ronda não existir, cria uma
// mínima com checklist padrão — mas somente quando date, index e user_id vierem
// no corpo; caso contrário devolve not-found com orientação.
func (s *Service) Iniciar(ctx context.Context, id domain.RoundID, in IniciarRondaInput) (domain.Round, bool, error) {
	startedAt := s.clock.Agora()
	if in.StartedAt != nil {
		startedAt = *in.StartedAt
	}

	_, err := s.rounds.FindByID(ctx, id)
	switch {
	case err == nil:
		updated, uErr := s.rounds.Update(ctx, id, map[string]any{
			"started_at": startedAt,
			"status":     string(domain.StatusEmProgresso),
		})
		if uErr != nil {
			if errors.Is(uErr, domain.ErrNotFound) {
				return domain.Round{}, false, ErrNaoEncontrado
			}
			return domain.Round{}, false, uErr
		}
		return updated, false, nil

	case errors.Is(err, domain.ErrNotFound):
		if in.Date == nil || in.Index == nil || in.UserID == nil {
			return domain.Round{}, false, ErrCriacaoRequerCampos
		}

		round := domain.Round{
			Date:      *in.Date,
			Index:     *in.Index,
			UserID:    *in.UserID,
			CreatedAt: s.clock.Agora(),
			StartedAt: &startedAt,
			Status:    domain.StatusEmProgresso,
			Checklist: domain.DefaultChecklist(),
		}
		created, cErr := s.rounds.Create(ctx, round)
		if cErr != nil {
			return domain.Round{}, false, cErr
		}
		return created, true, nil

	default:
		return domain.Round{}, false, err
	}
}

// Finalizar encerra a ronda: deriva duration apenas quando started_at existe na
// linha atual, substitui o checklist por inteiro quando fornecido e aplica o
// status final (default "ok").
func (s *Service) Finalizar(ctx context.Context, id domain.RoundID, in FinalizarRondaInput) (domain.Round, error) {
	current, err := s.rounds.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Round{}, ErrNaoEncontrado
		}
		return domain.Round{}, err
	}

	finishedAt := s.clock.Agora()
	if in.FinishedAt != nil {
		finishedAt = *in.FinishedAt
	}

	fields := map[string]any{
		"finished_at": finishedAt,
	}

	if current.StartedAt != nil {
		duration := int64(finishedAt.Sub(*current.StartedAt) / time.Second)
		if duration < 0 {
			duration = 0
		}
		fields["duration"] = duration
	}

	if in.Checklist != nil {
		// Substituição integral do documento; não há merge por folha.
		fields["checklist"] = *in.Checklist
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}

	status := domain.StatusOK
	if in.Status != nil {
		status = *in.Status
	}
	fields["status"] = string(status)

	updated, err := s.rounds.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Round{}, ErrNaoEncontrado
		}
		return domain.Round{}, err
	}
	return updated, nil
}

// Atualizar aplica exatamente os campos fornecidos; patch vazio é rejeitado
// antes de tocar o banco.
func (s *Service) Atualizar(ctx context.Context, id domain.RoundID, in AtualizarRondaInput) (domain.Round, error) {
	fields := map[string]any{}
	if in.Date != nil {
		fields["date"] = *in.Date
	}
	if in.Index != nil {
		fields["index"] = *in.Index
	}
	if in.CreatedAt != nil {
		fields["created_at"] = *in.CreatedAt
	}
	if in.StartedAt != nil {
		fields["started_at"] = *in.StartedAt
	}
	if in.FinishedAt != nil {
		fields["finished_at"] = *in.FinishedAt
	}
	if in.Duration != nil {
		fields["duration"] = *in.Duration
	}
	if in.UserID != nil {
		fields["user_id"] = int64(*in.UserID)
	}
	if in.Status != nil {
		fields["status"] = string(*in.Status)
	}
	if in.Checklist != nil {
		fields["checklist"] = *in.Checklist
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}

	if len(fields) == 0 {
		return domain.Round{}, ErrNadaParaAtualizar
	}

	updated, err := s.rounds.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Round{}, ErrNaoEncontrado
		}
		return domain.Round{}, err
	}
	return updated, nil
}

// Remover apaga a ronda e devolve o snapshot removido.
func (s *Service) Remover(ctx context.Context, id domain.RoundID) (domain.Round, error) {
	deleted, err := s.rounds.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Round{}, ErrNaoEncontrado
		}
		return domain.Round{}, err
	}
	return deleted, nil
}

func (s *Service) Listar(ctx context.Context, in ListarRondasInput) ([]domain.Round, Pagination, error) {
	page, limit := normalizePage(in.Page, in.Limit, s.defaultLimit, s.maxLimit)

	filter := domain.DateFilter{}
	switch {
	case in.Date != "":
		filter.Day = in.Date
	case in.StartDate != "" && in.EndDate != "":
		filter.Start = in.StartDate
		filter.End = in.EndDate
	}

	batch, err := s.rounds.List(ctx, filter, domain.Page{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, Pagination{}, err
	}

	return batch, buildPagination(page, limit, len(batch)), nil
}
