package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/pubsub"
)

// pushMessage is the envelope Pub/Sub push subscriptions POST to the endpoint.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}

// PubSubUpdateRatingsHandler runs a batch update requested through a Pub/Sub
// push subscription, typically a nightly scheduler job.
func (s *Server) PubSubUpdateRatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received update ratings message", "body", string(bodyBytes))

		var pubsubMsg pushMessage
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var req pubsub.UpdateRatingsRequest
		if err := s.pubsub.ProcessMessage(rawData, &req); err != nil {
			log.Error("Failed to decode update ratings request", "error", err)
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		isDryRun := req.DryRun || isDryRunFromContext(r)
		log.Info("Rating update requested via Pub/Sub", "requestedBy", req.RequestedBy, "dryRun", isDryRun)

		_, err = s.Processor.RunBatchUpdate(r.Context(), isDryRun)
		if errors.Is(err, processor.ErrBatchInProgress) {
			// The running batch picks up the same games, so the message is acknowledged.
			log.Warn("Skipping Pub/Sub rating update, a batch is already running")
			w.Write([]byte("OK"))
			return
		}
		if err != nil {
			// A non-2xx status makes Pub/Sub redeliver the message.
			log.Error("Rating update failed", "error", err)
			http.Error(w, "Rating update failed", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
