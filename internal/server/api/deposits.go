package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiredepot/internal/common"
	"tiredepot/internal/server/repositories/deposits"
)

func (s *Server) handleCreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	params, err := req.toCreateParams()
	if err != nil {
		writeError(w, err)
		return
	}

	deposit, err := s.deposits.Create(r.Context(), params, s.actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDepositResponse(deposit, s.clock.Now()))
}

func (s *Server) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	filter := deposits.StatusFilter(r.URL.Query().Get("status"))
	search := r.URL.Query().Get("q")

	list, err := s.deposits.List(r.Context(), filter, search)
	if err != nil {
		writeError(w, err)
		return
	}

	now := s.clock.Now()
	resp := make([]depositResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, toDepositWithClientResponse(d, now))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	deposit, err := s.deposits.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepositResponse(deposit, s.clock.Now()))
}

func (s *Server) handleEditDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	params, err := req.toEditParams()
	if err != nil {
		writeError(w, err)
		return
	}

	deposit, err := s.deposits.Edit(r.Context(), chi.URLParam(r, "id"), params, s.actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepositResponse(deposit, s.clock.Now()))
}

func (s *Server) handleDeleteDeposit(w http.ResponseWriter, r *http.Request) {
	if err := s.deposits.Delete(r.Context(), chi.URLParam(r, "id"), s.actor(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMarkIssued(w http.ResponseWriter, r *http.Request) {
	deposit, err := s.deposits.MarkIssued(r.Context(), chi.URLParam(r, "id"), s.actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepositResponse(deposit, s.clock.Now()))
}

func (s *Server) handleMarkActive(w http.ResponseWriter, r *http.Request) {
	deposit, err := s.deposits.MarkActive(r.Context(), chi.URLParam(r, "id"), s.actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepositResponse(deposit, s.clock.Now()))
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deposits.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toHistoryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deposits.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		ActiveCount:  stats.ActiveCount,
		IssuedCount:  stats.IssuedCount,
		OverdueCount: stats.OverdueCount,
		ActiveValue:  stats.ActiveValue,
	})
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	sent, err := s.reminders.SentEmails(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}
