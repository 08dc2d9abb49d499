package api

import (
	"net/http"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

type healthResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Provider string          `json:"provider"`
	Defaults defaultsPayload `json:"defaults"`
}

type defaultsPayload struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Health reports liveness and the generation defaults in effect.
// It never contacts the completion endpoint.
func Health(svc driving.RephraseService, provider domain.Provider, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		d := svc.Defaults()
		writeJSON(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Version:  version,
			Provider: provider.String(),
			Defaults: defaultsPayload{
				Model:       d.Model,
				Temperature: d.Temperature,
				MaxTokens:   d.MaxTokens,
			},
		})
	}
}

// Models lists the selectable models.
func Models(svc driving.RephraseService) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.Models())
	}
}
