package error

import (
	"encoding/json"
	"net/http"
)

type ErrorMessage struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func ReturnJSONError(rw http.ResponseWriter, errorMessage string, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)

	errorResponse := ErrorMessage{Error: errorMessage}
	jsonResponse, err := json.Marshal(errorResponse)
	if err != nil {
		http.Error(rw, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rw.Write(jsonResponse)
}

// ReturnBookingError includes the rejection kind so the client can show
// a step-specific corrective message.
func ReturnBookingError(rw http.ResponseWriter, errorMessage string, kind string, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)

	errorResponse := ErrorMessage{Error: errorMessage, Kind: kind}
	jsonResponse, err := json.Marshal(errorResponse)
	if err != nil {
		http.Error(rw, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rw.Write(jsonResponse)
}
