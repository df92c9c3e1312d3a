package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rondas-api/internal/app/rounds"
	"github.com/marcelojr/rondas-api/internal/domain"
	"github.com/marcelojr/rondas-api/internal/platform/ratelimit"
)

// --- fakes em memória para exercitar os handlers sem banco ---

type fakeClock struct {
	agora time.Time
}

func (c fakeClock) Agora() time.Time { return c.agora }

type fakeRoundRepo struct {
	rows   map[int64]domain.Round
	nextID int64
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rows: map[int64]domain.Round{}, nextID: 1}
}

func (f *fakeRoundRepo) Create(ctx context.Context, r domain.Round) (domain.Round, error) {
	r.ID = domain.RoundID(f.nextID)
	f.nextID++
	f.rows[int64(r.ID)] = r
	return r, nil
}

func (f *fakeRoundRepo) FindByID(ctx context.Context, id domain.RoundID) (domain.Round, error) {
	r, ok := f.rows[int64(id)]
	if !ok {
		return domain.Round{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoundRepo) Update(ctx context.Context, id domain.RoundID, fields map[string]any) (domain.Round, error) {
	r, ok := f.rows[int64(id)]
	if !ok {
		return domain.Round{}, domain.ErrNotFound
	}

	for col, value := range fields {
		switch col {
		case "date":
			r.Date = value.(string)
		case "index":
			r.Index = value.(int)
		case "created_at":
			t := value.(time.Time)
			r.CreatedAt = t
		case "started_at":
			t := value.(time.Time)
			r.StartedAt = &t
		case "finished_at":
			t := value.(time.Time)
			r.FinishedAt = &t
		case "duration":
			d := value.(int64)
			r.Duration = &d
		case "user_id":
			r.UserID = domain.UserID(value.(int64))
		case "status":
			r.Status = domain.Status(value.(string))
		case "checklist":
			r.Checklist = value.(domain.Checklist)
		case "notes":
			n := value.(string)
			r.Notes = &n
		}
	}

	f.rows[int64(id)] = r
	return r, nil
}

func (f *fakeRoundRepo) Delete(ctx context.Context, id domain.RoundID) (domain.Round, error) {
	r, ok := f.rows[int64(id)]
	if !ok {
		return domain.Round{}, domain.ErrNotFound
	}
	delete(f.rows, int64(id))
	return r, nil
}

func (f *fakeRoundRepo) List(ctx context.Context, filter domain.DateFilter, page domain.Page) ([]domain.Round, error) {
	var all []domain.Round
	for _, r := range f.rows {
		switch {
		case filter.Day != "" && r.Date != filter.Day:
			continue
		case filter.Start != "" && filter.End != "" && (r.Date < filter.Start || r.Date > filter.End):
			continue
		}
		all = append(all, r)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].Index < all[j].Index
	})

	if page.Offset >= len(all) {
		return []domain.Round{}, nil
	}
	all = all[page.Offset:]
	if len(all) > page.Limit {
		all = all[:page.Limit]
	}
	return all, nil
}

var _ domain.RoundRepository = (*fakeRoundRepo)(nil)

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
	if v, ok := fields["severity"]; ok {
		i.Severity = domain.Severity(v.(string))
	}
	if v, ok := fields["description"]; ok {
		i.Description = v.(string)
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
		all = append(all, i)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.Before(all[b].CreatedAt) })
	if len(all) > page.Limit {
		all = all[:page.Limit]
	}
	return all, nil
}

var _ domain.IssueRepository = (*fakeIssueRepo)(nil)

type fakeFeedbackRepo struct {
	rows   map[int64]domain.Feedback
	nextID int64
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{rows: map[int64]domain.Feedback{}, nextID: 1}
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	fb.ID = domain.FeedbackID(f.nextID)
	f.nextID++
	f.rows[int64(fb.ID)] = fb
	return fb, nil
}

func (f *fakeFeedbackRepo) FindByID(ctx context.Context, id domain.FeedbackID) (domain.Feedback, error) {
	fb, ok := f.rows[int64(id)]
	if !ok {
		return domain.Feedback{}, domain.ErrNotFound
	}
	return fb, nil
}

func (f *fakeFeedbackRepo) Update(ctx context.Context, id domain.FeedbackID, fields map[string]any) (domain.Feedback, error) {
	fb, ok := f.rows[int64(id)]
	if !ok {
		return domain.Feedback{}, domain.ErrNotFound
	}
	if v, ok := fields["text"]; ok {
		fb.Text = v.(string)
	}
	if v, ok := fields["type"]; ok {
		fb.Type = domain.FeedbackType(v.(string))
	}
	f.rows[int64(id)] = fb
	return fb, nil
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id domain.FeedbackID) (domain.Feedback, error) {
	fb, ok := f.rows[int64(id)]
	if !ok {
		return domain.Feedback{}, domain.ErrNotFound
	}
	delete(f.rows, int64(id))
	return fb, nil
}

func (f *fakeFeedbackRepo) List(ctx context.Context, created domain.CreatedRange, page domain.Page) ([]domain.Feedback, error) {
	var all []domain.Feedback
	for _, fb := range f.rows {
		all = append(all, fb)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.Before(all[b].CreatedAt) })
	if len(all) > page.Limit {
		all = all[:page.Limit]
	}
	return all, nil
}

var _ domain.FeedbackRepository = (*fakeFeedbackRepo)(nil)

// bloqueadorFixo simula um limite estourado em qualquer chave.
type bloqueadorFixo struct{}

func (bloqueadorFixo) Permitir(ctx context.Context, clientKey string) error {
	return ratelimit.ErrLimitExceeded
}

type testEnv struct {
	mux       *http.ServeMux
	rounds    *fakeRoundRepo
	issues    *fakeIssueRepo
	feedbacks *fakeFeedbackRepo
	relogio   fakeClock
}

func setupAPI(t *testing.T, limiter ratelimit.Limiter) testEnv {
	t.Helper()

	env := testEnv{
		mux:       http.NewServeMux(),
		rounds:    newFakeRoundRepo(),
		issues:    newFakeIssueRepo(),
		feedbacks: newFakeFeedbackRepo(),
		relogio:   fakeClock{agora: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)},
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	api := New(
		rounds.NewService(env.rounds, env.relogio, 20, 100),
		rounds.NewIssueService(env.issues, env.relogio, 20, 100),
		rounds.NewFeedbackService(env.feedbacks, env.relogio, 20, 100),
		limiter,
		logger,
	)
	api.Register(env.mux)
	return env
}

func doRequest(env testEnv, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Healthz_DeveResponderOK(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAPI_Instrument_DevePropagarOuGerarRequestID(t *testing.T) {
	env := setupAPI(t, nil)

	// Sem header: o servidor gera um ULID
	rec := doRequest(env, http.MethodGet, "/rounds", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// Com header: o valor do cliente é preservado
	req := httptest.NewRequest(http.MethodGet, "/rounds", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec2 := httptest.NewRecorder()
	env.mux.ServeHTTP(rec2, req)
	assert.Equal(t, "abc-123", rec2.Header().Get("X-Request-ID"))
}

func TestAPI_RateLimit_QuandoEstourado_DeveResponder429SomenteNasEscritas(t *testing.T) {
	env := setupAPI(t, bloqueadorFixo{})

	// Escrita bloqueada
	rec := doRequest(env, http.MethodPost, "/rounds", `{"date":"2025-09-01","index":0,"user_id":1}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "limite de requisicoes atingido")

	// Leitura passa normalmente
	rec = doRequest(env, http.MethodGet, "/rounds", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseIDPath_DeveAceitarIDEAcaoOpcional(t *testing.T) {
	id, acao, ok := parseIDPath("/rounds/42", "/rounds/")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Empty(t, acao)

	id, acao, ok = parseIDPath("/rounds/42/start", "/rounds/")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "start", acao)

	_, _, ok = parseIDPath("/rounds/abc", "/rounds/")
	assert.False(t, ok)

	_, _, ok = parseIDPath("/rounds/42/start/extra", "/rounds/")
	assert.False(t, ok)

	_, _, ok = parseIDPath("/rounds/-1", "/rounds/")
	assert.False(t, ok)
}
