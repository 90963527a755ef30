package handlers

import (
	"net/http"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/session"
	"github.com/posting-planner/internal/source"
)

const defaultMaxUploadBytes = 32 << 20

// DatasetResponse is the session dataset overview
type DatasetResponse struct {
	session.Overview
	Load *dataset.LoadReport `json:"load,omitempty"`
}

// GetDataset returns row and household totals per configured city
func (h *APIHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	overview := h.Commands.Overview(s.State(), h.Config.Cities, r.URL.Query().Get("city"))
	writeJSON(w, http.StatusOK, DatasetResponse{Overview: overview, Load: h.Report})
}

// MergeDataset folds an uploaded CSV or XLSX file into the session dataset
func (h *APIHandler) MergeDataset(w http.ResponseWriter, r *http.Request) {
	if !h.Config.Features.MergeEnabled {
		http.Error(w, "Merge feature disabled", http.StatusForbidden)
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	limit := h.Config.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		http.Error(w, "Invalid multipart upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing upload field 'file'", http.StatusBadRequest)
		return
	}
	defer file.Close()

	table, err := source.Read(header.Filename, file, h.Config.Aliases)
	if err != nil {
		writeError(w, err)
		return
	}

	var res session.MergeResult
	_, err = s.Apply(func(st session.State) (session.State, error) {
		next, mr, err := h.Commands.Merge(st, table)
		res = mr
		return next, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
