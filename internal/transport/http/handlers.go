package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/service/scheduling"
	"agenda/backend/internal/store"
)

type AppointmentsHandler struct {
	svc schedulingService
	log *slog.Logger
}

type schedulingService interface {
	Book(ctx context.Context, in scheduling.BookInput) (domain.Appointment, error)
	DayAvailability(ctx context.Context, providerID string, year int, month time.Month, day int) ([]scheduling.HourAvailability, error)
	Appointments(ctx context.Context) ([]domain.Appointment, error)
}

func NewAppointmentsHandler(svc schedulingService, log *slog.Logger) *AppointmentsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.appointments")),
	}
}

func (h *AppointmentsHandler) Register(r *mux.Router) {
	r.HandleFunc("/appointments", h.createAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", h.listAppointments).Methods(http.MethodGet)
	r.HandleFunc("/providers/{provider_id}/day-availability", h.dayAvailability).Methods(http.MethodGet)
}

type createAppointmentRequest struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
}

type appointmentResponse struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type hourAvailabilityResponse struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *AppointmentsHandler) createAppointment(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "createAppointment"))

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_body"), slog.Any("err", err))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_date"), slog.String("provider_id", req.ProviderID))
		writeError(w, http.StatusBadRequest, "date must be RFC 3339")
		return
	}

	appt, err := h.svc.Book(r.Context(), scheduling.BookInput{
		ProviderID: req.ProviderID,
		Date:       date,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Info("booking conflict", slog.String("provider_id", req.ProviderID), slog.Time("date", date))
			writeError(w, http.StatusConflict, "That slot is already booked. Pick a different one.")
			return
		}
		var vErr *scheduling.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("provider_id", req.ProviderID))
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("provider not found", slog.String("provider_id", req.ProviderID))
			writeError(w, http.StatusNotFound, "provider not found")
			return
		}
		log.Error("booking failed", slog.Any("err", err), slog.String("provider_id", req.ProviderID))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info(
		"appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("provider_id", appt.ProviderID),
		slog.Time("date", appt.Date),
	)

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *AppointmentsHandler) dayAvailability(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "dayAvailability"))

	providerID := mux.Vars(r)["provider_id"]

	q := r.URL.Query()
	year, errYear := strconv.Atoi(q.Get("year"))
	month, errMonth := strconv.Atoi(q.Get("month"))
	day, errDay := strconv.Atoi(q.Get("day"))
	if errYear != nil || errMonth != nil || errDay != nil || month < 1 || month > 12 {
		log.Warn("invalid request", slog.String("reason", "malformed_date_params"), slog.String("provider_id", providerID))
		writeError(w, http.StatusBadRequest, "year, month and day query parameters are required")
		return
	}

	availability, err := h.svc.DayAvailability(r.Context(), providerID, year, time.Month(month), day)
	if err != nil {
		var vErr *scheduling.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("provider_id", providerID))
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		log.Error("availability lookup failed", slog.Any("err", err), slog.String("provider_id", providerID))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]hourAvailabilityResponse, 0, len(availability))
	for _, slot := range availability {
		out = append(out, hourAvailabilityResponse{Hour: slot.Hour, Available: slot.Available})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AppointmentsHandler) listAppointments(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "listAppointments"))

	appts, err := h.svc.Appointments(r.Context())
	if err != nil {
		log.Error("listing failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]appointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, toAppointmentResponse(appt))
	}
	writeJSON(w, http.StatusOK, out)
}

func toAppointmentResponse(appt domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:         appt.ID.String(),
		ProviderID: appt.ProviderID,
		Date:       appt.Date,
		CreatedAt:  appt.CreatedAt,
		UpdatedAt:  appt.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
