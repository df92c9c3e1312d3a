package httpapi

import (
	"bytes"
	"net/http"

	"github.com/marcelojr/rondas-api/internal/app/rounds"
	"github.com/marcelojr/rondas-api/internal/domain"
)

const msgFeedbackNaoEncontrado = "Feedback não encontrado"

func (a *API) handleFeedbacks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listarFeedbacks(w, r)
	case http.MethodPost:
		a.criarOuAtualizarFeedback(w, r)
	case http.MethodDelete:
		a.removerFeedback(w, r)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleFeedbackPorID(w http.ResponseWriter, r *http.Request) {
	id, acao, ok := parseIDPath(r.URL.Path, "/feedbacks/")
	if !ok || acao != "" {
		if !ok {
			responderJSON(w, http.StatusBadRequest, errorBody("id inválido"))
			return
		}
		http.NotFound(w, r)
		return
	}
	feedbackID := domain.FeedbackID(id)

	switch r.Method {
	case http.MethodGet:
		a.buscarFeedback(w, r, feedbackID)
	case http.MethodPatch:
		a.atualizarFeedbackParcial(w, r, feedbackID)
	case http.MethodDelete:
		a.removerFeedbackPorID(w, r, feedbackID)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) listarFeedbacks(w http.ResponseWriter, r *http.Request) {
	date, startDate, endDate, page, limit := listQuery(r)

	batch, pagination, err := a.feedbacks.Listar(r.Context(), rounds.ListarInput{
		Date:      date,
		StartDate: startDate,
		EndDate:   endDate,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		a.responderErro(w, err, msgFeedbackNaoEncontrado)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"data":       batch,
		"pagination": pagination,
	})
}

func (a *API) criarOuAtualizarFeedback(w http.ResponseWriter, r *http.Request) {
	raw, hasID, err := peekBodyID(r)
	if err != nil {
		a.logger.Warn("payload invalido no POST de feedbacks", "err", err)
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}

	if hasID {
		var req updateFeedbackRequest
		if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
			responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
			return
		}
		if issues := checkSchema(req); issues != nil {
			responderViolacoes(w, issues)
			return
		}

		updated, err := a.feedbacks.Atualizar(r.Context(), domain.FeedbackID(req.ID), rounds.AtualizarFeedbackInput{
			UserID:    toUserIDPtr(req.UserID),
			RoundID:   toRoundIDPtr(req.RoundID),
			Date:      req.Date,
			Type:      toFeedbackTypePtr(req.Type),
			Text:      req.Text,
			CreatedAt: parseTimestamp(req.CreatedAt),
		})
		if err != nil {
			a.responderErro(w, err, msgFeedbackNaoEncontrado)
			return
		}
		responderJSON(w, http.StatusOK, updated)
		return
	}

	var req createFeedbackRequest
	if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}
	if issues := checkSchema(req); issues != nil {
		responderViolacoes(w, issues)
		return
	}

	created, err := a.feedbacks.Criar(r.Context(), rounds.CriarFeedbackInput{
		UserID:  domain.UserID(req.UserID),
		RoundID: domain.RoundID(req.RoundID),
		Date:    req.Date,
		Type:    domain.FeedbackType(req.Type),
		Text:    req.Text,
	})
	if err != nil {
		a.responderErro(w, err, msgFeedbackNaoEncontrado)
		return
	}
	responderJSON(w, http.StatusCreated, created)
}

func (a *API) buscarFeedback(w http.ResponseWriter, r *http.Request, id domain.FeedbackID) {
	feedback, err := a.feedbacks.Buscar(r.Context(), id)
	if err != nil {
		a.responderErro(w, err, msgFeedbackNaoEncontrado)
		return
	}
	responderJSON(w, http.StatusOK, feedback)
}

func (a *API) atualizarFeedbackParcial(w http.ResponseWriter, r *http.Request, id domain.FeedbackID) {
	var req patchFeedbackRequest
	if err := decodeStrict(r.Body, &req); err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("body inválido ou ausente"))
		return
	}
	if issues := checkSchema(req); issues != nil {
		responderViolacoes(w, issues)
		return
	}

	updated, err := a.feedbacks.Atualizar(r.Context(), id, rounds.AtualizarFeedbackInput{
		UserID:    toUserIDPtr(req.UserID),
		RoundID:   toRoundIDPtr(req.RoundID),
		Date:      req.Date,
		Type:      toFeedbackTypePtr(req.Type),
		Text:      req.Text,
		CreatedAt: parseTimestamp(req.CreatedAt),
	})
	if err != nil {
		a.responderErro(w, err, msgFeedbackNaoEncontrado)
		return
	}
	responderJSON(w, http.StatusOK, updated)
}

func (a *API) removerFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := deleteID(w, r)
	if !ok {
		return
	}

	deleted, err := a.feedbacks.Remover(r.Context(), domain.FeedbackID(id))
	if err != nil {
		a.responderErro(w, err, msgFeedbackNaoEncontrado)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}

func (a *API) removerFeedbackPorID(w http.ResponseWriter, r *http.Request, id domain.FeedbackID) {
	deleted, err := a.feedbacks.Remover(r.Context(), id)
	if err != nil {
		a.responderErro(w, err, msgFeedbackNaoEncontrado)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}
