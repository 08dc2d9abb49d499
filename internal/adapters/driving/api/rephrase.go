package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
	"github.com/custodia-labs/grompt/internal/metrics"
)

const credentialHint = "an Authorization header of the form 'Bearer <API key>' is required"

type rephraseRequest struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type rephraseResponse struct {
	Rephrased string `json:"rephrased"`
}

// Rephrase handles POST /rephrase. Every failure of the rephrase call itself
// is reported as 500 with the message in the error field.
func Rephrase(svc driving.RephraseService, provider domain.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var body rephraseRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req := svc.Defaults().NewRequest(body.Prompt, bearerToken(r))
		if body.Model != "" {
			req.Model = body.Model
		}
		if body.Temperature != nil {
			req.Temperature = *body.Temperature
		}
		if body.MaxTokens != nil {
			req.MaxTokens = *body.MaxTokens
		}

		metrics.InputChars.Observe(float64(len(body.Prompt)))

		start := time.Now()
		rephrased, err := svc.Rephrase(r.Context(), req)
		if err != nil {
			metrics.RephraseFailures.WithLabelValues(failureKind(err)).Inc()
			writeError(w, http.StatusInternalServerError, domain.Describe(err, provider, credentialHint))
			return
		}
		metrics.RephraseDuration.WithLabelValues(req.Model).Observe(time.Since(start).Seconds())

		writeJSON(w, http.StatusOK, rephraseResponse{Rephrased: rephrased})
	}
}

// bearerToken extracts the credential from "Authorization: Bearer <key>".
// Anything else yields an empty credential.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrUpstreamAPI):
		return "upstream"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "unexpected"
	}
}
