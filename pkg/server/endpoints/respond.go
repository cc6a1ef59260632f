package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// encodeFailureBody is written when a response payload cannot be encoded.
const encodeFailureBody = `{"error":"` + msgInternal + `"}`

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithJSON encodes payload before touching w, so a payload that
// cannot be encoded still yields a well-formed 500.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("failed to encode response",
			zap.Int("status", code), zap.String("payload_type", fmt.Sprintf("%T", payload)), zap.Error(err))
		code = http.StatusInternalServerError
		body = []byte(encodeFailureBody)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		zap.L().Debug("failed to write response", zap.Error(err))
	}
}
