package httpapi

import (
	"bytes"
	"net/http"

	"github.com/marcelojr/rondas-api/internal/app/rounds"
	"github.com/marcelojr/rondas-api/internal/domain"
)

const msgProblemaNaoEncontrado = "Problema não encontrado"

func (a *API) handleIssues(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listarIssues(w, r)
	case http.MethodPost:
		a.criarOuAtualizarIssue(w, r)
	case http.MethodDelete:
		a.removerIssue(w, r)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleIssuePorID(w http.ResponseWriter, r *http.Request) {
	id, acao, ok := parseIDPath(r.URL.Path, "/issues/")
	if !ok || acao != "" {
		if !ok {
			responderJSON(w, http.StatusBadRequest, errorBody("id inválido"))
			return
		}
		http.NotFound(w, r)
		return
	}
	issueID := domain.IssueID(id)

	switch r.Method {
	case http.MethodGet:
		a.buscarIssue(w, r, issueID)
	case http.MethodPatch:
		a.atualizarIssueParcial(w, r, issueID)
	case http.MethodDelete:
		a.removerIssuePorID(w, r, issueID)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) listarIssues(w http.ResponseWriter, r *http.Request) {
	date, startDate, endDate, page, limit := listQuery(r)

	batch, pagination, err := a.issues.Listar(r.Context(), rounds.ListarInput{
		Date:      date,
		StartDate: startDate,
		EndDate:   endDate,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		a.responderErro(w, err, msgProblemaNaoEncontrado)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"data":       batch,
		"pagination": pagination,
	})
}

func (a *API) criarOuAtualizarIssue(w http.ResponseWriter, r *http.Request) {
	raw, hasID, err := peekBodyID(r)
	if err != nil {
		a.logger.Warn("payload invalido no POST de issues", "err", err)
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}

	if hasID {
		var req updateIssueRequest
		if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
			responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
			return
		}
		if issues := checkSchema(req); issues != nil {
			responderViolacoes(w, issues)
			return
		}

		updated, err := a.issues.Atualizar(r.Context(), domain.IssueID(req.ID), rounds.AtualizarIssueInput{
			RoundID:     toRoundIDPtr(req.RoundID),
			Category:    toCategoryPtr(req.Category),
			Severity:    toSeverityPtr(req.Severity),
			Description: req.Description,
			CreatedAt:   parseTimestamp(req.CreatedAt),
		})
		if err != nil {
			a.responderErro(w, err, msgProblemaNaoEncontrado)
			return
		}
		responderJSON(w, http.StatusOK, updated)
		return
	}

	var req createIssueRequest
	if err := decodeStrict(bytes.NewReader(raw), &req); err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("payload invalido"))
		return
	}
	if issues := checkSchema(req); issues != nil {
		responderViolacoes(w, issues)
		return
	}

	created, err := a.issues.Criar(r.Context(), rounds.CriarIssueInput{
		RoundID:     domain.RoundID(req.RoundID),
		Category:    domain.Category(req.Category),
		Severity:    toSeverityPtr(req.Severity),
		Description: req.Description,
	})
	if err != nil {
		a.responderErro(w, err, msgProblemaNaoEncontrado)
		return
	}
	responderJSON(w, http.StatusCreated, created)
}

func (a *API) buscarIssue(w http.ResponseWriter, r *http.Request, id domain.IssueID) {
	issue, err := a.issues.Buscar(r.Context(), id)
	if err != nil {
		a.responderErro(w, err, msgProblemaNaoEncontrado)
		return
	}
	responderJSON(w, http.StatusOK, issue)
}

func (a *API) atualizarIssueParcial(w http.ResponseWriter, r *http.Request, id domain.IssueID) {
	var req patchIssueRequest
	if err := decodeStrict(r.Body, &req); err != nil {
		responderJSON(w, http.StatusBadRequest, errorBody("body inválido ou ausente"))
		return
	}
	if issues := checkSchema(req); issues != nil {
		responderViolacoes(w, issues)
		return
	}

	updated, err := a.issues.Atualizar(r.Context(), id, rounds.AtualizarIssueInput{
		RoundID:     toRoundIDPtr(req.RoundID),
		Category:    toCategoryPtr(req.Category),
		Severity:    toSeverityPtr(req.Severity),
		Description: req.Description,
		CreatedAt:   parseTimestamp(req.CreatedAt),
	})
	if err != nil {
		a.responderErro(w, err, msgProblemaNaoEncontrado)
		return
	}
	responderJSON(w, http.StatusOK, updated)
}

func (a *API) removerIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := deleteID(w, r)
	if !ok {
		return
	}

	deleted, err := a.issues.Remover(r.Context(), domain.IssueID(id))
	if err != nil {
		a.responderErro(w, err, msgProblemaNaoEncontrado)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}

func (a *API) removerIssuePorID(w http.ResponseWriter, r *http.Request, id domain.IssueID) {
	deleted, err := a.issues.Remover(r.Context(), id)
	if err != nil {
		a.responderErro(w, err, msgProblemaNaoEncontrado)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}
