package sheetserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheets"
)

const maxWriteBody = 64 * 1024

// Server emulates the spreadsheet values API and the write script.
type Server struct {
	cfg   *Config
	store Storage
	log   *slog.Logger
}

// NewServer builds a Server over store.
func NewServer(cfg *Config, store Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, store: store, log: logger}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/v4/spreadsheets/{sheetID}/values/{range}", s.handleGetValues)
	r.Post("/exec", s.handleExec)
	r.Post("/macros/s/{deployment}/exec", s.handleExec)
	return r
}

// Middleware

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("client_request_id", r.Header.Get("X-Request-Id")),
		)
	})
}

// Values API

func (s *Server) handleGetValues(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("key") != s.cfg.APIKey {
		writeAPIError(w, http.StatusForbidden, "The caller does not have permission", "PERMISSION_DENIED")
		return
	}
	if chi.URLParam(r, "sheetID") != s.cfg.SheetID {
		writeAPIError(w, http.StatusNotFound, "Requested entity was not found.", "NOT_FOUND")
		return
	}

	rng := chi.URLParam(r, "range")
	if unescaped, err := url.PathUnescape(rng); err == nil {
		rng = unescaped
	}

	var values [][]any
	switch strings.ToLower(tableName(rng)) {
	case "equipment":
		items, err := s.store.Equipment(r.Context())
		if err != nil {
			s.log.Error("read equipment", slog.String("error", err.Error()))
			writeAPIError(w, http.StatusInternalServerError, "Internal error encountered.", "INTERNAL")
			return
		}
		values = append(values, sheets.EquipmentHeader)
		for _, item := range items {
			values = append(values, sheets.EquipmentRow(item))
		}
	case "checkouts":
		records, err := s.store.Checkouts(r.Context())
		if err != nil {
			s.log.Error("read checkouts", slog.String("error", err.Error()))
			writeAPIError(w, http.StatusInternalServerError, "Internal error encountered.", "INTERNAL")
			return
		}
		values = append(values, sheets.CheckoutHeader)
		for _, rec := range records {
			values = append(values, sheets.CheckoutRow(rec))
		}
	default:
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+rng, "INVALID_ARGUMENT")
		return
	}

	writeJSON(w, http.StatusOK, sheets.ValueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         values,
	})
}

// tableName returns the sheet part of an A1 range ("Equipment!A:E").
func tableName(rng string) string {
	name, _, _ := strings.Cut(rng, "!")
	return strings.Trim(name, "'")
}

// Write script

func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	var req sheets.WriteRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxWriteBody)).Decode(&req)
	if errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusOK, sheets.WriteResponse{Error: "request body is empty"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusOK, sheets.WriteResponse{Error: err.Error()})
		return
	}

	logger := s.log.With(slog.String("action", req.Action))
	ctx := r.Context()

	switch req.Action {
	case sheets.ActionAddCheckout:
		if req.Checkout == nil {
			writeJSON(w, http.StatusOK, sheets.WriteResponse{Error: "checkout is required"})
			return
		}
		if err := inventory.ValidateRecord(*req.Checkout); err != nil {
			writeJSON(w, http.StatusOK, sheets.WriteResponse{Error: err.Error()})
			return
		}
		id, err := s.store.AppendCheckout(ctx, *req.Checkout)
		if err != nil {
			s.storageFailed(w, logger, err)
			return
		}
		logger.Info("checkout appended", slog.Int("checkout_id", id), slog.Int("equipment_id", req.Checkout.EquipmentID))
		writeJSON(w, http.StatusOK, sheets.WriteResponse{Success: true, ID: id})

	case sheets.ActionMarkReturned:
		found, err := s.store.MarkReturned(ctx, req.CheckoutID)
		if err != nil {
			s.storageFailed(w, logger, err)
			return
		}
		logger.Info("checkout returned", slog.Int("checkout_id", req.CheckoutID), slog.Bool("found", found))
		writeJSON(w, http.StatusOK, sheets.WriteResponse{Success: true})

	case sheets.ActionUpdateEquipment:
		if req.Available == nil {
			writeJSON(w, http.StatusOK, sheets.WriteResponse{Error: "available is required"})
			return
		}
		found, err := s.store.SetAvailability(ctx, req.EquipmentID, *req.Available)
		if err != nil {
			s.storageFailed(w, logger, err)
			return
		}
		logger.Info("equipment updated",
			slog.Int("equipment_id", req.EquipmentID),
			slog.Bool("available", *req.Available),
			slog.Bool("found", found))
		writeJSON(w, http.StatusOK, sheets.WriteResponse{Success: true})

	default:
		writeJSON(w, http.StatusOK, sheets.WriteResponse{Error: "Unknown action"})
	}
}

func (s *Server) storageFailed(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("storage write failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, sheets.WriteResponse{Error: err.Error()})
}

// Helpers

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// writeAPIError answers in the values API's error envelope.
func writeAPIError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, apiError{Error: apiErrorBody{Code: status, Message: message, Status: code}})
}
