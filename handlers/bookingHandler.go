package handlers

import (
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

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logrus.Logger
	tracer         trace.Tracer
}

func NewBookingHandler(bookingService services.BookingService, logger *logrus.Logger, tracer trace.Tracer) BookingHandler {
	return BookingHandler{
		bookingService: bookingService,
		logger:         logger,
		tracer:         tracer,
	}
}

func (bh *BookingHandler) StartSession(rw http.ResponseWriter, h *http.Request) {
	ctx, span := bh.tracer.Start(h.Context(), "BookingHandler.StartSession")
	defer span.End()

	draft, err := bh.bookingService.StartSession(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Could not start a booking session", http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	draft.ToJSON(rw)
}

func (bh *BookingHandler) GetSession(rw http.ResponseWriter, h *http.Request) {
	ctx, span := bh.tracer.Start(h.Context(), "BookingHandler.GetSession")
	defer span.End()

	vars := mux.Vars(h)
	draft, breakdown, err := bh.bookingService.GetSession(ctx, vars["session"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Booking session not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(rw).Encode(map[string]interface{}{
		"draft":   draft,
		"pricing": breakdown,
	})
}

func (bh *BookingHandler) ApplyIntent(rw http.ResponseWriter, h *http.Request) {
	ctx, span := bh.tracer.Start(h.Context(), "BookingHandler.ApplyIntent")
	defer span.End()

	var intent data.Intent
	if err := intent.FromJSON(h.Body); err != nil {
		error2.ReturnJSONError(rw, "Unable to decode json", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	draft, err := bh.bookingService.Apply(ctx, vars["session"], intent)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bh.writeRejection(rw, err)
		return
	}

	draft.ToJSON(rw)
}

func (bh *BookingHandler) ApplyUtterance(rw http.ResponseWriter, h *http.Request) {
	ctx, span := bh.tracer.Start(h.Context(), "BookingHandler.ApplyUtterance")
	defer span.End()

	var body struct {
		Utterance string `json:"utterance"`
	}
	if err := json.NewDecoder(h.Body).Decode(&body); err != nil {
		error2.ReturnJSONError(rw, "Unable to decode json", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	draft, clarification, err := bh.bookingService.ApplyUtterance(ctx, vars["session"], body.Utterance, time.Now())
	if err != nil {
		if domain.KindOf(err) == domain.UnparseableUtterance {
			rw.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(rw).Encode(map[string]interface{}{
				"draft":         draft,
				"clarification": clarification,
				"kind":          string(domain.UnparseableUtterance),
			})
			return
		}
		span.SetStatus(codes.Error, err.Error())
		bh.writeRejection(rw, err)
		return
	}

	draft.ToJSON(rw)
}

func (bh *BookingHandler) AbandonSession(rw http.ResponseWriter, h *http.Request) {
	ctx, span := bh.tracer.Start(h.Context(), "BookingHandler.AbandonSession")
	defer span.End()

	vars := mux.Vars(h)
	if err := bh.bookingService.Abandon(ctx, vars["session"]); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Could not abandon session", http.StatusInternalServerError)
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

// writeRejection maps each recoverable rejection kind to its status so
// the client can re-prompt the same step with a specific reason.
func (bh *BookingHandler) writeRejection(rw http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.InvalidRange, domain.OccupancyExceeded, domain.IncompleteStep:
		error2.ReturnBookingError(rw, err.Error(), string(kind), http.StatusBadRequest)
	case domain.UnparseableUtterance:
		error2.ReturnBookingError(rw, err.Error(), string(kind), http.StatusUnprocessableEntity)
	case domain.StaleAvailability:
		error2.ReturnBookingError(rw, err.Error(), string(kind), http.StatusConflict)
	default:
		bh.logger.WithFields(logrus.Fields{"path": "handlers/booking"}).Error(err)
		error2.ReturnJSONError(rw, err.Error(), http.StatusInternalServerError)
	}
}

func (bh *BookingHandler) MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		bh.logger.WithFields(logrus.Fields{"path": "handlers/booking"}).
			Info("Method [", h.Method, "] - Hit path :", h.URL.Path)

		rw.Header().Add("Content-Type", "application/json")

		next.ServeHTTP(rw, h)
	})
}
