package voice

import "sync"

// SpeechState models the recognition and playback switches of a voice
// session. Starting to listen stops any in-progress playback, per the
// convention that the assistant never talks over the user. Cancelling
// recognition is immediate and yields no partial result; the caller
// simply receives no intent for the cancelled utterance.
type SpeechState struct {
	mu        sync.Mutex
	listening bool
	speaking  bool
}

func NewSpeechState() *SpeechState {
	return &SpeechState{}
}

func (s *SpeechState) StartListening() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = false
	s.listening = true
}

func (s *SpeechState) StopListening() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listening = false
}

func (s *SpeechState) StartSpeaking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = true
}

func (s *SpeechState) StopSpeaking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = false
}

func (s *SpeechState) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

func (s *SpeechState) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}
