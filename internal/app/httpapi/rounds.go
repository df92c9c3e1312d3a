package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/marcelojr/rondas-api/internal/app/rounds"
	"github.com/marcelojr/rondas-api/internal/domain"
	"github.com/marcelojr/rondas-api/internal/platform/metrics"
)

const msgRondaNaoEncontrada = "Ronda não encontrada"

func (a *API) handleRounds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listarRondas(w, r)
	case http.MethodPost:
		a.criarOuAtualizarRonda(w, r)
	case http.MethodDelete:
		a.removerRonda(w, r)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleRoundPorID(w http.ResponseWriter, r *http.Request) {
	id, acao, ok := parseIDPath(r.URL.Path, "/rounds/")
	if !ok {
		responderJSON(w, http.StatusBadRequest, errorBody("id inválido"))
		return
	}
	roundID := domain.RoundID(id)

	switch {
	case acao == "" && r.Method == http.MethodGet:
		a.buscarRonda(w, r, roundID)
	case acao == "" && r.Method == http.MethodPatch:
		a.atualizarRondaParcial(w, r, roundID)
	case acao == "" && r.Method == http.MethodDelete:
		a.removerRondaPorID(w, r, roundID)
	case acao == "start" && r.Method == http.MethodPatch:
		a.iniciarRonda(w, r, roundID)
	case acao == "finish" && r.Method == http.MethodPatch:
		a.finalizarRonda(w, r, roundID)
	default:
		http.NotFound(w, r)
	}
}

func (a *API) listarRondas(w http.ResponseWriter, r *http.Request) {
	date, startDate, endDate, page, limit := listQuery(r)

	batch, pagination, err := a.rounds.Listar(r.Context(), rounds.ListarRondasInput{
		Date:      date,
		StartDate: startDate,
		EndDate:   endDate,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"data":       batch,
		"pagination": pagination,
	})
}

// criarOuAtualizarRonda segue o contrato do POST: corpo com id atualiza, sem id cria.
func (a *API) criarOuAtualizarRonda(w http.ResponseWriter, r *http.Request) {
	raw, hasID, err := peekBodyID(r)
	if err != nil {
		a.logger.Warn("payload invalido no POST de rondas", "err", err)
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}

	if hasID {
		var req updateRoundRequest
		if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
			responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
			return
		}
		if issues := checkSchema(req); issues != nil {
			responderViolacoes(w, issues)
			return
		}

		updated, err := a.rounds.Atualizar(r.Context(), domain.RoundID(req.ID), rounds.AtualizarRondaInput{
			Date:       req.Date,
			Index:      req.Index,
			CreatedAt:  parseTimestamp(req.CreatedAt),
			StartedAt:  parseTimestamp(req.StartedAt),
			FinishedAt: parseTimestamp(req.FinishedAt),
			Duration:   req.Duration,
			UserID:     toUserIDPtr(req.UserID),
			Status:     toStatusPtr(req.Status),
			Checklist:  toChecklistPtr(req.Checklist),
			Notes:      req.Notes,
		})
		if err != nil {
			a.responderErro(w, err, msgRondaNaoEncontrada)
			return
		}
		responderJSON(w, http.StatusOK, updated)
		return
	}

	var req createRoundRequest
	if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}
	if issues := checkSchema(req); issues != nil {
		responderViolacoes(w, issues)
		return
	}

	created, err := a.rounds.Criar(r.Context(), rounds.CriarRondaInput{
		Date:      req.Date,
		Index:     *req.Index,
		UserID:    domain.UserID(req.UserID),
		StartedAt: parseTimestamp(req.StartedAt),
		Status:    toStatusPtr(req.Status),
		Checklist: toChecklistPtr(req.Checklist),
		Notes:     req.Notes,
	})
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}
	responderJSON(w, http.StatusCreated, created)
}

func (a *API) buscarRonda(w http.ResponseWriter, r *http.Request, id domain.RoundID) {
	round, err := a.rounds.Buscar(r.Context(), id)
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}
	responderJSON(w, http.StatusOK, round)
}

func (a *API) atualizarRondaParcial(w http.ResponseWriter, r *http.Request, id domain.RoundID) {
	var req patchRoundRequest
	if err := decodeStrict(r.Body, &req); err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("body inválido ou ausente"))
		return
	}
	if issues := checkSchema(req); issues != nil {
		responderViolacoes(w, issues)
		return
	}

	updated, err := a.rounds.Atualizar(r.Context(), id, rounds.AtualizarRondaInput{
		Date:       req.Date,
		Index:      req.Index,
		CreatedAt:  parseTimestamp(req.CreatedAt),
		StartedAt:  parseTimestamp(req.StartedAt),
		FinishedAt: parseTimestamp(req.FinishedAt),
		Duration:   req.Duration,
		UserID:     toUserIDPtr(req.UserID),
		Status:     toStatusPtr(req.Status),
		Checklist:  toChecklistPtr(req.Checklist),
		Notes:      req.Notes,
	})
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}
	responderJSON(w, http.StatusOK, updated)
}

// iniciarRonda tolera corpo vazio: started_at cai no relógio do servidor.
func (a *API) iniciarRonda(w http.ResponseWriter, r *http.Request, id domain.RoundID) {
	var req startRoundRequest
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
			responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
			return
		}
		if issues := checkSchema(req); issues != nil {
			responderViolacoes(w, issues)
			return
		}
	}

	round, created, err := a.rounds.Iniciar(r.Context(), id, rounds.IniciarRondaInput{
		StartedAt: parseTimestamp(req.StartedAt),
		Date:      req.Date,
		Index:     req.Index,
		UserID:    toUserIDPtr(req.UserID),
	})
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	responderJSON(w, status, round)
}

func (a *API) finalizarRonda(w http.ResponseWriter, r *http.Request, id domain.RoundID) {
	var req finishRoundRequest
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
			responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
			return
		}
		if issues := checkSchema(req); issues != nil {
			responderViolacoes(w, issues)
			return
		}
	}

	round, err := a.rounds.Finalizar(r.Context(), id, rounds.FinalizarRondaInput{
		FinishedAt: parseTimestamp(req.FinishedAt),
		Checklist:  toChecklistPtr(req.Checklist),
		Notes:      req.Notes,
		Status:     toStatusPtr(req.Status),
	})
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}

	metrics.IncRoundFinished()
	responderJSON(w, http.StatusOK, round)
}

func (a *API) removerRonda(w http.ResponseWriter, r *http.Request) {
	id, ok := deleteID(w, r)
	if !ok {
		return
	}

	deleted, err := a.rounds.Remover(r.Context(), domain.RoundID(id))
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}

func (a *API) removerRondaPorID(w http.ResponseWriter, r *http.Request, id domain.RoundID) {
	deleted, err := a.rounds.Remover(r.Context(), id)
	if err != nil {
		a.responderErro(w, err, msgRondaNaoEncontrada)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}
