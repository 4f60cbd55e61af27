// Package admin exposes the ops HTTP endpoint: health, the compiled rule
// set, and Prometheus metrics.
package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/maxpert/pubcast/pubsub"
	"github.com/maxpert/pubcast/telemetry"
)

// RuleSource lists the compiled publication rules for introspection
type RuleSource interface {
	Rules() []pubsub.RuleInfo
}

// NewRouter builds the ops router
func NewRouter(rules RuleSource) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth)
	r.Get("/rules", handleRules(rules))

	if metrics := telemetry.GetMetricsHandler(); metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}

// StartServer serves the ops endpoint in a background goroutine
func StartServer(address string, port int, rules RuleSource) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           NewRouter(rules),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting admin server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Admin server failed")
		}
	}()

	return server
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func handleRules(rules RuleSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos := rules.Rules()
		if infos == nil {
			infos = []pubsub.RuleInfo{}
		}
		writeJSON(w, infos)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode admin response")
	}
}
