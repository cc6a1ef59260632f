package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/identity-intake/pkg/intake"
	"github.com/doodlesbykumbi/identity-intake/pkg/logging"
	"github.com/doodlesbykumbi/identity-intake/pkg/server"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

const maxBodyBytes = 1 << 20

// Response messages of POST /process_text
const (
	msgProcessed  = "Data processed successfully"
	msgNoText     = "No text provided"
	msgIncomplete = "Failed to extract all required fields"
	msgDatabase   = "Database error"
	msgInternal   = "Internal server error"
)

// NotificationStatusHeader reports whether the stored record was relayed.
// The response body is the same whether or not the email went out.
const NotificationStatusHeader = "X-Notification-Status"

type processTextResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RegisterIntakeEndpoints registers the intake endpoint
func RegisterIntakeEndpoints(s *server.Server) {
	s.Router.HandleFunc("/process_text", handleProcessText(s.Intake, s.Logger)).Methods("POST")
}

func handleProcessText(processor server.IntakeProcessor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic while processing text",
					append(logging.ContextFields(r.Context()), zap.Any("panic", rec), zap.Stack("stack"))...)
				respondWithError(w, http.StatusInternalServerError, msgInternal)
			}
		}()

		text := decodeText(http.MaxBytesReader(w, r.Body, maxBodyBytes))

		res, err := processor.Process(r.Context(), intake.Submission{
			Text:     text,
			ClientIP: clientIP(r),
		})
		if err != nil {
			respondWithProcessError(w, err)
			return
		}

		w.Header().Set(NotificationStatusHeader, string(res.Notification))
		respondWithJSON(w, http.StatusOK, processTextResponse{
			Status:  "ok",
			Message: msgProcessed,
		})
	}
}

func respondWithProcessError(w http.ResponseWriter, err error) {
	var perr *store.PersistenceError
	switch {
	case errors.Is(err, intake.ErrNoText):
		respondWithError(w, http.StatusBadRequest, msgNoText)
	case errors.Is(err, intake.ErrIncomplete):
		respondWithError(w, http.StatusBadRequest, msgIncomplete)
	case errors.As(err, &perr):
		respondWithError(w, http.StatusInternalServerError, msgDatabase)
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeText returns the "text" member of a JSON object body, or "" when
// the body is empty, is not a JSON object, or carries no string "text".
func decodeText(body io.Reader) string {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	raw, ok := payload["text"]
	if !ok {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return ""
	}
	return text
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
