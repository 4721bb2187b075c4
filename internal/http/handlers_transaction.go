package http

import (
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleListTransactions returns the collection. The ledger keeps
// insertion order; ?sort=date_desc and ?type= apply display ordering and
// filtering at read time.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	items := s.ledger.List()

	if t, present, ok := parseTypeParam(r.URL.Query()); !ok {
		writeError(w, http.StatusBadRequest, "unknown transaction type")
		return
	} else if present {
		items = report.FilterByType(items, t)
	}

	if strings.TrimSpace(r.URL.Query().Get("sort")) == "date_desc" {
		items = report.SortedByDateDesc(items)
	}

	if items == nil {
		items = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := payload.toDraft()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx, err := s.ledger.Add(r.Context(), draft)
	if err != nil && !errors.Is(err, ledger.ErrPersistFailed) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.invalidateDerived()

	resp := mutationResponse{Transaction: &tx}
	if errors.Is(err, ledger.ErrPersistFailed) {
		resp.Warning = persistWarning
	}

	s.log.InfoContext(r.Context(), "Transaction created",
		applog.FieldTransactionID, tx.ID,
		applog.FieldType, tx.Type,
		applog.FieldCategory, tx.Category,
		applog.FieldAmount, tx.Amount)

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleUpdateTransaction(w, r, id)
	case http.MethodDelete:
		s.handleDeleteTransaction(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleUpdateTransaction replaces the record with the given id. An
// unknown id is deliberately not an error: the ledger ignores it so stale
// references from the presentation layer stay harmless.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := payload.toDraft()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx := core.Transaction{
		ID:          id,
		Type:        draft.Type,
		Category:    draft.Category,
		Amount:      draft.Amount,
		Date:        draft.Date,
		Description: draft.Description,
	}

	err = s.ledger.Update(r.Context(), tx)
	if err != nil && !errors.Is(err, ledger.ErrPersistFailed) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.invalidateDerived()

	resp := mutationResponse{Transaction: &tx}
	if errors.Is(err, ledger.ErrPersistFailed) {
		resp.Warning = persistWarning
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	err := s.ledger.Delete(r.Context(), id)
	s.invalidateDerived()

	if errors.Is(err, ledger.ErrPersistFailed) {
		writeJSON(w, http.StatusOK, mutationResponse{Warning: persistWarning})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
