package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/services"
	appweb "casa/web"
)

type indexPage struct {
	Overview          *services.Overview
	Today             string
	Quote             string
	ReferenceCurrency core.Currency
	Visits            int64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	o, err := s.service.Overview(ctx)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}

	var buf bytes.Buffer
	err = s.templates.ExecuteTemplate(&buf, "index.html", indexPage{
		Overview:          o,
		Today:             time.Now().Format(core.DateLayout),
		Quote:             randomQuote(),
		ReferenceCurrency: core.ReferenceCurrency,
		Visits:            s.metrics.RecordVisit(),
	})
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Failed to render overview", err, log.ErrorTypeInternal, log.OpReport)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	p, err := services.ExpenseInput{
		Name:      sanitizeInput(r.PostFormValue("name")),
		Value:     r.PostFormValue("value"),
		Date:      r.PostFormValue("date"),
		AccountID: r.PostFormValue("account_id"),
	}.Parse()
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if _, err := s.service.AddExpense(r.Context(), p); err != nil {
		writeError(w, r, log.OpAppend, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	t, err := services.TransferInput{
		FromAccountID: r.PostFormValue("from_account_id"),
		ToAccountID:   r.PostFormValue("to_account_id"),
		AmountFrom:    r.PostFormValue("amount_from"),
		AmountTo:      r.PostFormValue("amount_to"),
		Date:          r.PostFormValue("date"),
	}.Parse()
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if _, err := s.service.AddOwnTransfer(r.Context(), t); err != nil {
		writeError(w, r, log.OpTransfer, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// writeError maps ledger errors to status codes. Storage details stay in the
// log.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	switch {
	case errors.Is(err, core.ErrParse):
		logger.WarnContext(ctx, "Rejected invalid input", log.FieldError, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrAccountNotFound):
		logger.WarnContext(ctx, "Unknown account", log.FieldError, err.Error())
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.LogError(ctx, "Request failed", err, log.ErrorTypeDatabase, op)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Display         string         `json:"display"`
	StartURL        string         `json:"start_url"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Icons           []manifestIcon `json:"icons"`
}

func handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	_ = json.NewEncoder(w).Encode(manifest{
		Name:            "Casa",
		ShortName:       "Casa",
		Display:         "standalone",
		StartURL:        "/",
		ThemeColor:      "#313131",
		BackgroundColor: "#313131",
		Icons:           []manifestIcon{{Src: "/icon.png", Sizes: "192x192", Type: "image/png"}},
	})
}

func handleIcon(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, appweb.StaticFS, "static/icon.png")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
