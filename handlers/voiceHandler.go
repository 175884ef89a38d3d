package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	error2 "booking-service/error"
	"booking-service/voice"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// VoiceHandler tracks the listening/speaking switches per session.
// Recognition itself happens on the client; the server only mirrors the
// switch state so a reconnecting client can restore it. Stopping
// recognition is immediate and produces no utterance.
type VoiceHandler struct {
	logger *logrus.Logger
	tracer trace.Tracer

	mu     sync.Mutex
	states map[string]*voice.SpeechState
}

func NewVoiceHandler(logger *logrus.Logger, tracer trace.Tracer) *VoiceHandler {
	return &VoiceHandler{
		logger: logger,
		tracer: tracer,
		states: make(map[string]*voice.SpeechState),
	}
}

func (vh *VoiceHandler) state(sessionID string) *voice.SpeechState {
	vh.mu.Lock()
	defer vh.mu.Unlock()
	s, ok := vh.states[sessionID]
	if !ok {
		s = voice.NewSpeechState()
		vh.states[sessionID] = s
	}
	return s
}

func (vh *VoiceHandler) SetListening(rw http.ResponseWriter, h *http.Request) {
	_, span := vh.tracer.Start(h.Context(), "VoiceHandler.SetListening")
	defer span.End()

	var body struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(h.Body).Decode(&body); err != nil {
		error2.ReturnJSONError(rw, "Unable to decode json", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	state := vh.state(vars["session"])
	if body.On {
		state.StartListening()
	} else {
		state.StopListening()
	}
	vh.writeState(rw, state)
}

func (vh *VoiceHandler) SetSpeaking(rw http.ResponseWriter, h *http.Request) {
	_, span := vh.tracer.Start(h.Context(), "VoiceHandler.SetSpeaking")
	defer span.End()

	var body struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(h.Body).Decode(&body); err != nil {
		error2.ReturnJSONError(rw, "Unable to decode json", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	state := vh.state(vars["session"])
	if body.On {
		state.StartSpeaking()
	} else {
		state.StopSpeaking()
	}
	vh.writeState(rw, state)
}

func (vh *VoiceHandler) GetState(rw http.ResponseWriter, h *http.Request) {
	_, span := vh.tracer.Start(h.Context(), "VoiceHandler.GetState")
	defer span.End()

	vars := mux.Vars(h)
	vh.writeState(rw, vh.state(vars["session"]))
}

func (vh *VoiceHandler) writeState(rw http.ResponseWriter, state *voice.SpeechState) {
	json.NewEncoder(rw).Encode(map[string]bool{
		"listening": state.Listening(),
		"speaking":  state.Speaking(),
	})
}
