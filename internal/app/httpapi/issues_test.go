package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rondas-api/internal/domain"
)

func decodeIssue(t *testing.T, body []byte) domain.Issue {
	t.Helper()
	var issue domain.Issue
	require.NoError(t, json.Unmarshal(body, &issue))
	return issue
}

func TestPostIssues_SemSeveridade_DeveCriarComBaixa(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodPost, "/issues", `{"round_id":1,"category":"limpeza","description":"banheiro sem papel"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	issue := decodeIssue(t, rec.Body.Bytes())
	assert.Equal(t, domain.SeverityBaixa, issue.Severity)
	assert.Equal(t, domain.CategoryLimpeza, issue.Category)
}

func TestPostIssues_ComCategoriaInvalida_DeveApontarOCampo(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodPost, "/issues", `{"round_id":1,"category":"eletrica","description":"curto no quadro"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp violacoesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error, 1)
	assert.Equal(t, "category", resp.Error[0].Field)
	assert.Equal(t, "issue_category", resp.Error[0].Rule)
}

func TestPostIssues_ComCategoriaAcentuada_DeveAceitar(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodPost, "/issues", `{"round_id":1,"category":"técnico","severity":"urgente","description":"projetor sem sinal"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	issue := decodeIssue(t, rec.Body.Bytes())
	assert.Equal(t, domain.CategoryTecnico, issue.Category)
	assert.Equal(t, domain.SeverityUrgente, issue.Severity)
}

func TestPostIssues_ComID_DeveAtualizarOProblema(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodPost, "/issues", `{"round_id":1,"category":"limpeza","description":"original"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(env, http.MethodPost, "/issues", `{"id":1,"severity":"alta"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	issue := decodeIssue(t, rec.Body.Bytes())
	assert.Equal(t, domain.SeverityAlta, issue.Severity)
	assert.Equal(t, "original", issue.Description)
}

func TestPatchIssue_QuandoNaoExiste_DeveResponder404ComMensagemDaEntidade(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodPatch, "/issues/55", `{"severity":"media"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Problema não encontrado")
}

func TestDeleteIssuePorID_DeveDevolverSnapshot(t *testing.T) {
	env := setupAPI(t, nil)

	rec := doRequest(env, http.MethodPost, "/issues", `{"round_id":1,"category":"buffet","description":"reposição atrasada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(env, http.MethodDelete, "/issues/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Deleted domain.Issue `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "reposição atrasada", resp.Deleted.Description)
}
