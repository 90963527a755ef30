package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/posting-planner/internal/engine"
	"github.com/posting-planner/internal/export"
	"github.com/posting-planner/internal/validation"
)

// Export downloads a radius or selection result as CSV or XLSX
func (h *APIHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.Config.Features.ExportEnabled {
		http.Error(w, "Export feature disabled", http.StatusForbidden)
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, &validation.ValidationError{Field: "format", Reason: err.Error()})
		return
	}

	var exp engine.Export
	switch mode := engine.Mode(r.URL.Query().Get("mode")); mode {
	case engine.ModeRadius:
		p, perr := h.radiusParams(r)
		if perr != nil {
			writeError(w, perr)
			return
		}
		exp, err = h.Commands.ExportRadius(s.State(), p)
	case engine.ModeSelection, "":
		price, perr := parseFloatParam(r, "unit_price", h.Config.Defaults.UnitPrice)
		if perr != nil {
			writeError(w, perr)
			return
		}
		view, perr := parseView(r)
		if perr != nil {
			writeError(w, perr)
			return
		}
		exp, err = h.Commands.ExportSelection(s.State(), price, view)
	default:
		err = &validation.ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown export mode %q", mode)}
	}
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := format.Write(&buf, exp); err != nil {
		writeError(w, err)
		return
	}

	name := format.FileName(exp)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", "export."+string(format), url.PathEscape(name)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
