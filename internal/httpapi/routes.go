// Package httpapi exposes the catalog screens over HTTP.
package httpapi

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"catalog-backend/internal/catalog"
	"catalog-backend/internal/deeplink"
	"catalog-backend/internal/leads"
	"catalog-backend/internal/metrics"
	"catalog-backend/internal/model"
	"catalog-backend/internal/screens"
)

// maxLeadBody caps lead form bodies.
const maxLeadBody = 64 << 10

// Server holds the handler dependencies.
type Server struct {
	catalog *catalog.Service
	leads   *leads.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewServer creates the API server. m may be nil.
func NewServer(c *catalog.Service, l *leads.Service, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{catalog: c, leads: l, metrics: m, logger: logger}
}

// RegisterRoutes wires HTTP routes.
// gorilla/mux: Router provides method-based routing and path variables.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/screens", s.screensHandler).Methods(http.MethodGet)
	api := r.PathPrefix("/api/screens").Subrouter()
	api.HandleFunc("/{screen}/items", s.itemsHandler).Methods(http.MethodGet)
	api.HandleFunc("/{screen}/suggestions", s.suggestionsHandler).Methods(http.MethodGet)
	api.HandleFunc("/{screen}/categories", s.categoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/{screen}/banners", s.bannersHandler).Methods(http.MethodGet)
	api.HandleFunc("/{screen}/items/{id}/whatsapp", s.contactHandler(deeplink.WhatsAppURL)).Methods(http.MethodGet)
	api.HandleFunc("/{screen}/items/{id}/call", s.contactHandler(deeplink.CallURL)).Methods(http.MethodGet)
	api.HandleFunc("/{screen}/leads", s.leadHandler).Methods(http.MethodPost)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) screensHandler(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, http.StatusOK, s.catalog.Statuses())
}

func (s *Server) itemsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := model.QueryState{
		SearchText:       q.Get("q"),
		SelectedCategory: q.Get("category"),
		SelectedBrand:    q.Get("brand"),
		SortOrder:        model.SortOrder(q.Get("sort")),
	}
	if !model.IsValidSort(state.SortOrder) {
		writeError(w, http.StatusBadRequest, "invalid sort order: "+q.Get("sort"))
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	res, err := s.catalog.Query(mux.Vars(r)["screen"], state, offset, limit)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

func (s *Server) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	sug, err := s.catalog.Suggest(mux.Vars(r)["screen"], r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	writeData(w, r, http.StatusOK, sug)
}

func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := s.catalog.Categories(mux.Vars(r)["screen"])
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	writeData(w, r, http.StatusOK, groups)
}

func (s *Server) bannersHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.catalog.Banners(mux.Vars(r)["screen"])
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	writeData(w, r, http.StatusOK, b)
}

// contactHandler redirects to a deep link built from the item's phone.
func (s *Server) contactHandler(link func(phone string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		it, err := s.catalog.Item(vars["screen"], vars["id"])
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		http.Redirect(w, r, link(it.Phone), http.StatusFound)
	}
}

func (s *Server) leadHandler(w http.ResponseWriter, r *http.Request) {
	screen := mux.Vars(r)["screen"]
	p, err := s.catalog.Profile(screen)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	if p.LeadKind == "" {
		writeError(w, http.StatusNotFound, "screen "+screen+" takes no leads")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLeadBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	form, err := leads.Decode(p.LeadKind, body)
	if err != nil {
		s.metrics.Lead(screen, metrics.LeadInvalid)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	admin, err := s.catalog.AdminNumber(screen)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	lead, err := s.leads.Submit(r.Context(), screen, admin, form)
	var missing *leads.MissingFieldsError
	switch {
	case err == nil:
		s.metrics.Lead(screen, metrics.LeadAccepted)
		writeData(w, r, http.StatusCreated, map[string]string{"id": lead.ID, "url": lead.URL})
	case errors.As(err, &missing):
		s.metrics.Lead(screen, metrics.LeadInvalid)
		writeJSON(w, r, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
			"missing": missing.Fields,
		})
	case errors.Is(err, leads.ErrDuplicate):
		s.metrics.Lead(screen, metrics.LeadDuplicate)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, leads.ErrNoAdminNumber):
		s.metrics.Lead(screen, metrics.LeadNoAdmin)
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.metrics.Lead(screen, metrics.LeadError)
		s.logger.Error("httpapi: lead submission failed", zap.String("screen", screen), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lead submission failed")
	}
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, screens.ErrUnknownScreen), errors.Is(err, catalog.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("httpapi: lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, r, status, map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// writeJSON encodes v, gzip-compressed when the client accepts it.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
		return
	}
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Add("Vary", "Accept-Encoding")
	w.WriteHeader(status)
	gw := gzip.NewWriter(w)
	defer gw.Close()
	_ = json.NewEncoder(gw).Encode(v)
}
