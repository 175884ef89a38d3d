package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booking-service/data"
	"booking-service/domain"
	"booking-service/notification"
	"booking-service/voice"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// owningStep is the earliest step at which a field intent is accepted.
var owningStep = map[data.IntentKind]data.BookingStep{
	data.IntentSelectProperty: data.StepPropertySelection,
	data.IntentSetCheckIn:     data.StepDateSelection,
	data.IntentSetCheckOut:    data.StepDateSelection,
	data.IntentSetGuestCount:  data.StepDateSelection,
	data.IntentSetPetFlag:     data.StepDateSelection,
	data.IntentSetGuestField:  data.StepGuestDetails,
	data.IntentSetNote:        data.StepGuestDetails,
}

type BookingServiceImpl struct {
	properties   domain.PropertyRepository
	reservations domain.ReservationRepository
	availability AvailabilityService
	pricing      PricingService
	drafts       domain.DraftStore
	parser       *voice.Parser
	dispatcher   *notification.Dispatcher
	breaker      *gobreaker.CircuitBreaker
	validate     *validator.Validate
	logger       *logrus.Logger
	tracer       trace.Tracer

	// Intents are applied one at a time; the caller queues anything that
	// arrives while a confirm write is in flight.
	mu  sync.Mutex
	now func() time.Time
}

func NewBookingServiceImpl(
	properties domain.PropertyRepository,
	reservations domain.ReservationRepository,
	availability AvailabilityService,
	pricing PricingService,
	drafts domain.DraftStore,
	parser *voice.Parser,
	dispatcher *notification.Dispatcher,
	logger *logrus.Logger,
	tracer trace.Tracer,
) BookingService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "ReservationWrite",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"path": "services/booking"}).
				Infof("Circuit Breaker %s state changed from %s to %s", name, from, to)
		},
	})

	return &BookingServiceImpl{
		properties:   properties,
		reservations: reservations,
		availability: availability,
		pricing:      pricing,
		drafts:       drafts,
		parser:       parser,
		dispatcher:   dispatcher,
		breaker:      breaker,
		validate:     validator.New(),
		logger:       logger,
		tracer:       tracer,
		now:          time.Now,
	}
}

func (s *BookingServiceImpl) StartSession(ctx context.Context) (*data.BookingDraft, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.StartSession")
	defer span.End()

	draft := &data.BookingDraft{
		SessionID: uuid.NewString(),
		Step:      data.StepPropertySelection,
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return draft, nil
}

func (s *BookingServiceImpl) GetSession(ctx context.Context, sessionID string) (*data.BookingDraft, *data.PricingBreakdown, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.GetSession")
	defer span.End()

	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if draft.PropertyID == "" {
		return draft, nil, nil
	}
	property, err := s.properties.GetByID(ctx, draft.PropertyID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	breakdown := s.pricing.Quote(property, draft)
	return draft, &breakdown, nil
}

func (s *BookingServiceImpl) Apply(ctx context.Context, sessionID string, intent data.Intent) (*data.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "BookingService.Apply")
	defer span.End()

	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.applyIntent(ctx, draft, intent); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return draft, err
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return draft, err
	}
	return draft, nil
}

// ApplyUtterance parses free-form text against the current step and
// applies the resulting intent. A parser miss leaves the draft
// untouched and returns the clarification prompt for re-prompting.
func (s *BookingServiceImpl) ApplyUtterance(ctx context.Context, sessionID string, utterance string, now time.Time) (*data.BookingDraft, string, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ApplyUtterance")
	defer span.End()

	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	intent, clarification := s.parser.Parse(draft.Step, draft.Filled(), utterance, now)
	if intent == nil {
		return draft, clarification, domain.NewBookingError(domain.UnparseableUtterance, clarification)
	}

	draft, err = s.Apply(ctx, sessionID, *intent)
	return draft, "", err
}

func (s *BookingServiceImpl) Abandon(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "BookingService.Abandon")
	defer span.End()

	return s.drafts.Delete(ctx, sessionID)
}

func (s *BookingServiceImpl) applyIntent(ctx context.Context, draft *data.BookingDraft, intent data.Intent) error {
	if draft.Frozen() {
		return domain.NewBookingError(domain.IncompleteStep,
			"booking is confirmed; start a new draft to book again")
	}

	if min, ok := owningStep[intent.Kind]; ok && draft.Step < min {
		return domain.NewBookingError(domain.IncompleteStep,
			fmt.Sprintf("%s is not available in step %s", intent.Kind, draft.Step))
	}

	switch intent.Kind {
	case data.IntentSelectProperty:
		if _, err := s.properties.GetByID(ctx, intent.PropertyID); err != nil {
			return domain.NewBookingError(domain.IncompleteStep,
				fmt.Sprintf("unknown property %q", intent.PropertyID))
		}
		draft.PropertyID = intent.PropertyID

	case data.IntentSetCheckIn:
		draft.CheckIn = intent.Date

	case data.IntentSetCheckOut:
		draft.CheckOut = intent.Date

	case data.IntentSetGuestCount:
		draft.GuestCount = intent.Count

	case data.IntentSetPetFlag:
		draft.HasPet = intent.Flag

	case data.IntentSetGuestField:
		draft.SetGuestField(intent.Field, intent.Value)

	case data.IntentSetNote:
		draft.Note = intent.Value

	case data.IntentAdvance:
		return s.advance(ctx, draft)

	case data.IntentGoBack:
		if draft.Step == data.StepPropertySelection {
			return domain.NewBookingError(domain.IncompleteStep, "already at the first step")
		}
		draft.Step--

	case data.IntentConfirm:
		return s.confirm(ctx, draft)

	default:
		return fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
	return nil
}

// advance moves one step forward when the current step's requirements
// hold. The confirmation step is never entered this way; it requires an
// explicit confirm.
func (s *BookingServiceImpl) advance(ctx context.Context, draft *data.BookingDraft) error {
	switch draft.Step {
	case data.StepPropertySelection:
		if err := s.gatePropertySelection(draft); err != nil {
			return err
		}
	case data.StepDateSelection:
		if err := s.gateDateSelection(ctx, draft); err != nil {
			return err
		}
	case data.StepGuestDetails:
		return domain.NewBookingError(domain.IncompleteStep,
			"confirmation requires an explicit confirm")
	}
	draft.Step++
	return nil
}

func (s *BookingServiceImpl) gatePropertySelection(draft *data.BookingDraft) error {
	if draft.PropertyID == "" {
		return domain.NewBookingError(domain.IncompleteStep, "no property selected")
	}
	return nil
}

func (s *BookingServiceImpl) gateDateSelection(ctx context.Context, draft *data.BookingDraft) error {
	property, err := s.properties.GetByID(ctx, draft.PropertyID)
	if err != nil {
		return err
	}
	if draft.GuestCount < 1 || draft.GuestCount > property.MaxOccupancy {
		return domain.NewBookingError(domain.OccupancyExceeded,
			fmt.Sprintf("guest count must be between 1 and %d", property.MaxOccupancy))
	}
	return s.availability.CheckRange(ctx, draft.PropertyID, draft.CheckIn, draft.CheckOut, s.now())
}

func (s *BookingServiceImpl) gateGuestDetails(draft *data.BookingDraft) error {
	if draft.FirstName == "" {
		return domain.NewBookingError(domain.IncompleteStep, "first name is required")
	}
	if draft.LastName == "" {
		return domain.NewBookingError(domain.IncompleteStep, "last name is required")
	}
	if draft.Phone == "" {
		return domain.NewBookingError(domain.IncompleteStep, "phone is required")
	}
	if err := s.validate.Var(draft.Email, "required,email"); err != nil {
		return domain.NewBookingError(domain.IncompleteStep, "a valid email is required")
	}
	return nil
}

// confirm re-validates everything against a fresh reservation read,
// freezes the draft, persists the reservation and fans the summary out
// to the configured recipients. A range that passed at selection time
// but is blocked now is a lost race, reported as stale availability.
func (s *BookingServiceImpl) confirm(ctx context.Context, draft *data.BookingDraft) error {
	if draft.Step != data.StepGuestDetails {
		return domain.NewBookingError(domain.IncompleteStep,
			"confirm is only available from the guest details step")
	}
	if err := s.gateGuestDetails(draft); err != nil {
		return err
	}

	property, err := s.properties.GetByID(ctx, draft.PropertyID)
	if err != nil {
		return err
	}
	if draft.GuestCount < 1 || draft.GuestCount > property.MaxOccupancy {
		return domain.NewBookingError(domain.OccupancyExceeded,
			fmt.Sprintf("guest count must be between 1 and %d", property.MaxOccupancy))
	}

	if err := s.availability.CheckRange(ctx, draft.PropertyID, draft.CheckIn, draft.CheckOut, s.now()); err != nil {
		if domain.KindOf(err) == domain.InvalidRange {
			return domain.NewBookingError(domain.StaleAvailability,
				"the selected dates were taken while the booking was in progress")
		}
		return err
	}

	breakdown := s.pricing.Quote(property, draft)

	reservation := &data.Reservation{
		ID:         uuid.NewString(),
		PropertyID: draft.PropertyID,
		CheckIn:    draft.CheckIn,
		CheckOut:   draft.CheckOut,
		GuestCount: draft.GuestCount,
		Status:     data.Confirmed,
	}
	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.reservations.Insert(ctx, reservation)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{"path": "services/booking"}).Error(err)
		return err
	}

	draft.Step = data.StepConfirmation

	message := notification.Compose(property, draft, breakdown)
	go s.dispatcher.Dispatch(message)

	return nil
}
