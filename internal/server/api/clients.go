package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiredepot/internal/common"
)

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	client, err := s.clients.Create(r.Context(), req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(client))
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	list, err := s.clients.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]clientResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, toClientResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

func (s *Server) handleGetClientByBarcode(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

func (s *Server) handleEditClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	client, err := s.clients.Edit(r.Context(), chi.URLParam(r, "id"), req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAssignBarcode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode string `json:"barcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	if err := s.clients.AssignBarcode(r.Context(), chi.URLParam(r, "id"), req.Barcode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListClientDeposits(w http.ResponseWriter, r *http.Request) {
	list, err := s.clients.ListDeposits(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	now := s.clock.Now()
	resp := make([]depositResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, toDepositResponse(d, now))
	}
	writeJSON(w, http.StatusOK, resp)
}
