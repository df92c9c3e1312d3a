package rounds

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rondas-api/internal/domain"
)

type fakeIssueRepo struct {
	rows   map[int64]domain.Issue
	nextID int64
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{rows: map[int64]domain.Issue{}, nextID: 1}
}

func (f *fakeIssueRepo) Create(ctx context.Context, i domain.Issue) (domain.Issue, error) {
	i.ID = domain.IssueID(f.nextID)
	f.nextID++
	f.rows[int64(i.ID)] = i
	return i, nil
}

func (f *fakeIssueRepo) FindByID(ctx context.Context, id domain.IssueID) (domain.Issue, error) {
	i, ok := f.rows[int64(id)]
	if !ok {
		return domain.Issue{}, domain.ErrNotFound
	}
	return i, nil
}

func (f *fakeIssueRepo) Update(ctx context.Context, id domain.IssueID, fields map[string]any) (domain.Issue, error) {
	i, ok := f.rows[int64(id)]
	if !ok {
		return domain.Issue{}, domain.ErrNotFound
	}

	for col, value := range fields {
		switch col {
		case "round_id":
			i.RoundID = domain.RoundID(value.(int64))
		case "category":
			i.Category = domain.Category(value.(string))
		case "severity":
			i.Severity = domain.Severity(value.(string))
		case "description":
			i.Description = value.(string)
		case "created_at":
			i.CreatedAt = value.(time.Time)
		}
	}

	f.rows[int64(id)] = i
	return i, nil
}

func (f *fakeIssueRepo) Delete(ctx context.Context, id domain.IssueID) (domain.Issue, error) {
	i, ok := f.rows[int64(id)]
	if !ok {
		return domain.Issue{}, domain.ErrNotFound
	}
	delete(f.rows, int64(id))
	return i, nil
}

func (f *fakeIssueRepo) List(ctx context.Context, created domain.CreatedRange, page domain.Page) ([]domain.Issue, error) {
	var all []domain.Issue
	for _, i := range f.rows {
		if created.From != nil && i.CreatedAt.Before(*created.From) {
			continue
		}
		if created.To != nil && !i.CreatedAt.Before(*created.To) {
			continue
		}
		all = append(all, i)
	}

	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.Before(all[b].CreatedAt) })

	if page.Offset >= len(all) {
		return []domain.Issue{}, nil
	}
	all = all[page.Offset:]
	if len(all) > page.Limit {
		all = all[:page.Limit]
	}
	return all, nil
}

var _ domain.IssueRepository = (*fakeIssueRepo)(nil)

func newTestIssueService() (*IssueService, *fakeIssueRepo, fakeClock) {
	repo := newFakeIssueRepo()
	relogio := fakeClock{agora: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	return NewIssueService(repo, relogio, 20, 100), repo, relogio
}

func TestIssueServiceCriar_SemSeveridade_DeveAssumirBaixa(t *testing.T) {
	service, _, relogio := newTestIssueService()

	issue, err := service.Criar(context.Background(), CriarIssueInput{
		RoundID:     1,
		Category:    domain.CategoryLimpeza,
		Description: "lixeira transbordando no corredor",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityBaixa, issue.Severity)
	assert.Equal(t, relogio.agora, issue.CreatedAt)
}

func TestIssueServiceCriar_ComSeveridade_DeveRespeitarOValorEnviado(t *testing.T) {
	service, _, _ := newTestIssueService()

	severity := domain.SeverityAlta
	issue, err := service.Criar(context.Background(), CriarIssueInput{
		RoundID:     1,
		Category:    domain.CategoryTecnico,
		Severity:    &severity,
		Description: "vazamento na copa",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityAlta, issue.Severity)
}

func TestIssueServiceAtualizar_SemCampos_DeveRejeitarPatchVazio(t *testing.T) {
	service, _, _ := newTestIssueService()

	issue, err := service.Criar(context.Background(), CriarIssueInput{
		RoundID:     1,
		Category:    domain.CategoryLimpeza,
		Description: "piso molhado",
	})
	require.NoError(t, err)

	_, err = service.Atualizar(context.Background(), issue.ID, AtualizarIssueInput{})

	assert.ErrorIs(t, err, ErrNadaParaAtualizar)
}

func TestIssueServiceAtualizar_QuandoNaoExiste_DeveRetornarNaoEncontrado(t *testing.T) {
	service, _, _ := newTestIssueService()

	severity := domain.SeverityMedia
	_, err := service.Atualizar(context.Background(), 77, AtualizarIssueInput{Severity: &severity})

	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestIssueServiceRemover_DeveDevolverSnapshot(t *testing.T) {
	service, repo, _ := newTestIssueService()

	issue, err := service.Criar(context.Background(), CriarIssueInput{
		RoundID:     2,
		Category:    domain.CategoryOutro,
		Description: "barulho no gerador",
	})
	require.NoError(t, err)

	deleted, err := service.Remover(context.Background(), issue.ID)
	require.NoError(t, err)

	assert.Equal(t, issue.Description, deleted.Description)
	assert.Empty(t, repo.rows)
}

func TestIssueServiceListar_PorDia_DeveUsarJanelaDeCriacao(t *testing.T) {
	service, repo, _ := newTestIssueService()

	dentro := domain.Issue{
		RoundID:     1,
		Category:    domain.CategoryLimpeza,
		Severity:    domain.SeverityBaixa,
		Description: "dentro da janela",
		CreatedAt:   time.Date(2025, 9, 1, 23, 59, 0, 0, time.UTC),
	}
	fora := dentro
	fora.Description = "fora da janela"
	fora.CreatedAt = time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(context.Background(), dentro)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), fora)
	require.NoError(t, err)

	batch, _, err := service.Listar(context.Background(), ListarInput{Date: "2025-09-01"})
	require.NoError(t, err)

	require.Len(t, batch, 1)
	assert.Equal(t, "dentro da janela", batch[0].Description)
}

func TestIssueServiceListar_ComLoteCheio_DeveApontarProximaPagina(t *testing.T) {
	service, _, _ := newTestIssueService()

	for i := 0; i < 4; i++ {
		_, err := service.Criar(context.Background(), CriarIssueInput{
			RoundID:     1,
			Category:    domain.CategoryLimpeza,
			Description: "ocorrencia repetida",
		})
		require.NoError(t, err)
	}

	batch, pagination, err := service.Listar(context.Background(), ListarInput{Page: 1, Limit: 4})
	require.NoError(t, err)

	assert.Len(t, batch, 4)
	require.NotNil(t, pagination.NextPage)
	assert.Equal(t, 2, *pagination.NextPage)
}
