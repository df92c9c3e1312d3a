// Pacote httpapi expõe os handlers REST e traduz requisições HTTP para os
// serviços de rondas, problemas e feedbacks.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/marcelojr/rondas-api/internal/app/rounds"
	"github.com/marcelojr/rondas-api/internal/platform/ids"
	"github.com/marcelojr/rondas-api/internal/platform/metrics"
	"github.com/marcelojr/rondas-api/internal/platform/ratelimit"
)

// API empacota handlers HTTP ligados aos serviços, ao rate limit e ao logger.
type API struct {
	rounds    *rounds.Service
	issues    *rounds.IssueService
	feedbacks *rounds.FeedbackService
	limiter   ratelimit.Limiter
	logger    *slog.Logger
	ids       *ids.Generator
}

func New(
	roundsSvc *rounds.Service,
	issuesSvc *rounds.IssueService,
	feedbacksSvc *rounds.FeedbackService,
	limiter ratelimit.Limiter,
	logger *slog.Logger,
) *API {
	if limiter == nil {
		limiter = ratelimit.NewNoop()
	}
	return &API{
		rounds:    roundsSvc,
		issues:    issuesSvc,
		feedbacks: feedbacksSvc,
		limiter:   limiter,
		logger:    logger,
		ids:       ids.DefaultGenerator(),
	}
}

func (a *API) Register(mux *http.ServeMux) {
	// Mantemos as rotas centralizadas para facilitar testes e reuso em servidores diferentes.
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/rounds", a.instrument("rounds", a.handleRounds))
	mux.HandleFunc("/rounds/", a.instrument("rounds", a.handleRoundPorID))
	mux.HandleFunc("/issues", a.instrument("issues", a.handleIssues))
	mux.HandleFunc("/issues/", a.instrument("issues", a.handleIssuePorID))
	mux.HandleFunc("/feedbacks", a.instrument("feedbacks", a.handleFeedbacks))
	mux.HandleFunc("/feedbacks/", a.instrument("feedbacks", a.handleFeedbackPorID))
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument aplica o trio transversal: id de correlação, rate limit nas
// escritas e métricas por entidade.
func (a *API) instrument(entity string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inicio := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = a.ids.New()
		}
		w.Header().Set("X-Request-ID", requestID)

		if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodDelete {
			if err := a.limiter.Permitir(r.Context(), clientIP(r)); err != nil {
				if errors.Is(err, ratelimit.ErrLimitExceeded) {
					metrics.ObserveRequest(entity, "rate_limited")
					responderJSON(w, http.StatusTooManyRequests, errorBody("limite de requisicoes atingido"))
					return
				}
				a.logger.Error("falha no rate limit", "err", err, "request_id", requestID)
				metrics.ObserveRequest(entity, "error")
				responderJSON(w, http.StatusInternalServerError, errorBody("Erro interno ao processar request"))
				return
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		metrics.ObserveRequest(entity, strconv.Itoa(rec.status))
		metrics.ObserveRequestDuration(entity, time.Since(inicio).Seconds())
		a.logger.Info("requisicao atendida",
			"entity", entity,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", requestID,
		)
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	return strings.Split(r.RemoteAddr, ":")[0]
}

var idPattern = regexp.MustCompile(`^\d+$`)

// parseIDPath extrai o id numérico e o eventual sufixo de ação de /prefixo/{id}[/acao].
func parseIDPath(path, prefix string) (int64, string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	partes := strings.Split(rest, "/")
	if len(partes) == 0 || !idPattern.MatchString(partes[0]) {
		return 0, "", false
	}

	id, err := strconv.ParseInt(partes[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}

	acao := ""
	if len(partes) == 2 {
		acao = partes[1]
	} else if len(partes) > 2 {
		return 0, "", false
	}
	return id, acao, true
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// responderViolacoes devolve a lista estruturada de violações de campo.
func responderViolacoes(w http.ResponseWriter, issues []FieldIssue) {
	responderJSON(w, http.StatusBadRequest, map[string]any{"error": issues})
}

// responderErro mapeia os erros sentinela dos serviços para o status HTTP; o
// not-found carrega a mensagem própria de cada entidade.
func (a *API) responderErro(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, rounds.ErrCriacaoRequerCampos):
		responderJSON(w, http.StatusNotFound, errorBody("Ronda não encontrada. Para criar uma nova passe date, index e user_id no body."))
	case errors.Is(err, rounds.ErrNaoEncontrado):
		responderJSON(w, http.StatusNotFound, errorBody(notFoundMsg))
	case errors.Is(err, rounds.ErrNadaParaAtualizar):
		responderJSON(w, http.StatusBadRequest, errorBody("Nenhum campo para atualizar foi fornecido"))
	default:
		// A causa fica apenas no log; o cliente recebe mensagem genérica.
		a.logger.Error("erro inesperado", "err", err)
		responderJSON(w, http.StatusInternalServerError, errorBody("Erro interno ao processar request"))
	}
}

// listQuery lê a paginação e os filtros de calendário comuns às três listagens.
func listQuery(r *http.Request) (date, startDate, endDate string, page, limit int) {
	q := r.URL.Query()
	date = q.Get("date")
	startDate = q.Get("startDate")
	endDate = q.Get("endDate")

	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return date, startDate, endDate, page, limit
}

// deleteID honra a precedência do contrato: querystring primeiro, corpo depois.
func deleteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if idParam := r.URL.Query().Get("id"); idParam != "" {
		if !idPattern.MatchString(idParam) {
			responderJSON(w, http.StatusBadRequest, errorBody("id inválido na querystring"))
			return 0, false
		}
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil || id <= 0 {
			responderJSON(w, http.StatusBadRequest, errorBody("id inválido na querystring"))
			return 0, false
		}
		return id, true
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		if req.ID > 0 {
			return req.ID, true
		}
		if req.ID != 0 {
			responderJSON(w, http.StatusBadRequest, errorBody("id inválido no body"))
			return 0, false
		}
	}

	responderJSON(w, http.StatusBadRequest, errorBody("id is required"))
	return 0, false
}
