// Package api exposes the booking workflows over a small JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"officebook/internal/domain"
	"officebook/internal/ratelimit"
	"officebook/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BookingService is the slice of the reservation service the API needs.
type BookingService interface {
	CheckAvailability(ctx context.Context, officeID int64, slot domain.TimeSlot) (*service.Availability, error)
	Book(ctx context.Context, officeID int64, slot domain.TimeSlot, name, email, phone string) (*service.BookingResult, error)
	GetOccupancy(ctx context.Context, officeID int64, slot domain.TimeSlot) (*service.Occupancy, error)
}

// OfficeLister backs the office listing endpoint.
type OfficeLister interface {
	ListOffices(ctx context.Context) ([]domain.Office, error)
}

// Server routes HTTP requests to the reservation service.
type Server struct {
	svc     BookingService
	offices OfficeLister
	limiter *ratelimit.Limiter
	logger  *zerolog.Logger
	http    *http.Server
}

func NewServer(addr string, svc BookingService, offices OfficeLister, limiter *ratelimit.Limiter, logger *zerolog.Logger) *Server {
	s := &Server{svc: svc, offices: offices, limiter: limiter, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/offices", s.handleListOffices)
	mux.HandleFunc("POST /api/offices/availability", s.handleAvailability)
	mux.HandleFunc("POST /api/offices/info", s.handleOccupancy)
	mux.HandleFunc("POST /api/reservations", s.handleBook)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the fully wired handler chain, mostly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.http.Shutdown(ctxShutdown)
	}()
	s.logger.Info().Str("addr", s.http.Addr).Msg("api server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type slotRequest struct {
	OfficeID int64     `json:"office_id"`
	Start    time.Time `json:"start_time"`
	End      time.Time `json:"end_time"`
}

type bookRequest struct {
	OfficeID  int64     `json:"office_id"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	UserPhone string    `json:"user_phone"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleListOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := s.offices.ListOffices(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"offices": offices})
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	slot, err := domain.NewTimeSlot(req.Start, req.End)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.CheckAvailability(r.Context(), req.OfficeID, slot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	slot, err := domain.NewTimeSlot(req.Start, req.End)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.GetOccupancy(r.Context(), req.OfficeID, slot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	slot, err := domain.NewTimeSlot(req.Start, req.End)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.Book(r.Context(), req.OfficeID, slot, req.UserName, req.UserEmail, req.UserPhone)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("encode response failed")
	}
}

// writeError maps domain errors onto HTTP statuses. Unknown errors become an
// opaque 500 so internals never leak to clients.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflict       *domain.ConflictError
		officeNotFound *domain.OfficeNotFoundError
		resNotFound    *domain.ReservationNotFoundError
	)
	switch {
	case errors.As(err, &conflict):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: conflict.Error()})
	case errors.As(err, &officeNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: officeNotFound.Error()})
	case errors.As(err, &resNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: resNotFound.Error()})
	case errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrInvalidContactInfo),
		errors.Is(err, domain.ErrInvalidOfficeID),
		errors.Is(err, domain.ErrInvalidUserName):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
