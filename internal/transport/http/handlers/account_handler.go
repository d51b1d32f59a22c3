package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
	"github.com/vedran77/orbit/internal/search"
	"github.com/vedran77/orbit/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	index          *search.Index
}

func NewAccountHandler(accountService *service.AccountService, index *search.Index) *AccountHandler {
	return &AccountHandler{accountService: accountService, index: index}
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter, ok := accountFilter(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid account identifier")
		return
	}

	account, err := h.accountService.FindOne(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// accountFilter accepts either an account id or a username, matching how
// profile links are addressed.
func accountFilter(key string) (domain.AccountFilter, bool) {
	if key == "" {
		return domain.AccountFilter{}, false
	}
	if id, err := uuid.Parse(key); err == nil {
		return domain.AccountFilter{ID: &id}, true
	}
	return domain.AccountFilter{Username: &key}, true
}

// List returns one page of accounts ordered by join time.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := h.accountService.Page(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Search resolves query hits from the search index into account summaries.
func (h *AccountHandler) Search(w http.ResponseWriter, r *http.Request) {
	ids := h.index.Search(r.URL.Query().Get("q"))

	summaries, err := h.accountService.Summaries(r.Context(), ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": summaries})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid account identifier")
		return
	}

	var patch domain.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	account, err := h.accountService.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid account identifier")
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
