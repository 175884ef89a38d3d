package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"booking-service/data"
	"booking-service/domain"
	error2 "booking-service/error"
	"booking-service/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
	propertyRepo        domain.PropertyRepository
	reservationRepo     domain.ReservationRepository
	logger              *logrus.Logger
	tracer              trace.Tracer
}

func NewAvailabilityHandler(availabilityService services.AvailabilityService, propertyRepo domain.PropertyRepository, reservationRepo domain.ReservationRepository, logger *logrus.Logger, tracer trace.Tracer) AvailabilityHandler {
	return AvailabilityHandler{
		availabilityService: availabilityService,
		propertyRepo:        propertyRepo,
		reservationRepo:     reservationRepo,
		logger:              logger,
		tracer:              tracer,
	}
}

// GetCalendar returns the blocked days of one month so the date picker
// can grey them out. The month parameter is YYYY-MM and defaults to the
// current month.
func (ah *AvailabilityHandler) GetCalendar(rw http.ResponseWriter, h *http.Request) {
	ctx, span := ah.tracer.Start(h.Context(), "AvailabilityHandler.GetCalendar")
	defer span.End()

	vars := mux.Vars(h)
	propertyID := vars["propertyId"]

	now := time.Now()
	month := h.URL.Query().Get("month")
	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			error2.ReturnJSONError(rw, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
			return
		}
		from := data.NewDate(parsed.Year(), parsed.Month(), 1)
		to := data.NewDate(parsed.Year(), parsed.Month()+1, 1)
		ah.writeBlocked(ctx, rw, span, propertyID, from, to, now)
		return
	}

	from := data.NewDate(now.Year(), now.Month(), 1)
	to := data.NewDate(now.Year(), now.Month()+1, 1)
	ah.writeBlocked(ctx, rw, span, propertyID, from, to, now)
}

func (ah *AvailabilityHandler) writeBlocked(ctx context.Context, rw http.ResponseWriter, span trace.Span, propertyID string, from, to data.Date, now time.Time) {
	blocked, err := ah.availabilityService.BlockedDays(ctx, propertyID, from, to, now)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Could not read availability", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(rw).Encode(map[string]interface{}{
		"property_id": propertyID,
		"blocked":     blocked,
	})
}

func (ah *AvailabilityHandler) GetProperties(rw http.ResponseWriter, h *http.Request) {
	ctx, span := ah.tracer.Start(h.Context(), "AvailabilityHandler.GetProperties")
	defer span.End()

	properties, err := ah.propertyRepo.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Could not read properties", http.StatusInternalServerError)
		return
	}
	properties.ToJSON(rw)
}

func (ah *AvailabilityHandler) GetReservations(rw http.ResponseWriter, h *http.Request) {
	ctx, span := ah.tracer.Start(h.Context(), "AvailabilityHandler.GetReservations")
	defer span.End()

	vars := mux.Vars(h)
	reservations, err := ah.reservationRepo.GetByProperty(ctx, vars["propertyId"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Could not read reservations", http.StatusInternalServerError)
		return
	}
	if reservations == nil {
		reservations = data.Reservations{}
	}
	reservations.ToJSON(rw)
}

func (ah *AvailabilityHandler) MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		ah.logger.WithFields(logrus.Fields{"path": "handlers/availability"}).
			Info("Method [", h.Method, "] - Hit path :", h.URL.Path)

		rw.Header().Add("Content-Type", "application/json")

		next.ServeHTTP(rw, h)
	})
}
