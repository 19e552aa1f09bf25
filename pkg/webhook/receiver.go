package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultMaxBodySize caps inbound payloads
const DefaultMaxBodySize = 8 * 1024 * 1024

// Receiver serves the trigger webhook and fans records out to its sinks
type Receiver struct {
	webhookID   string
	sinks       []Sink
	maxBodySize int64
	now         func() time.Time
}

// NewReceiver creates a receiver. An empty webhookID gets a fresh UUID, the
// way a host assigns a path to each trigger.
//
// Sinks are written in order and the first failure ends the delivery with a
// 500. List durable sinks first.
func NewReceiver(webhookID string, sinks ...Sink) *Receiver {
	if strings.TrimSpace(webhookID) == "" {
		webhookID = uuid.NewString()
	}
	return &Receiver{
		webhookID:   webhookID,
		sinks:       sinks,
		maxBodySize: DefaultMaxBodySize,
		now:         time.Now,
	}
}

// WebhookID returns the id embedded in the webhook path
func (r *Receiver) WebhookID() string {
	return r.webhookID
}

// Path returns the route the receiver listens on
func (r *Receiver) Path() string {
	return "/webhook/" + r.webhookID + "/webhook"
}

// URL joins the public base URL and the webhook path
func (r *Receiver) URL(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + r.Path()
}

// Mount registers the POST route on router
func (r *Receiver) Mount(router chi.Router) {
	router.Post(r.Path(), r.handleWebhook)
}

// Handler returns a standalone router serving only the webhook
func (r *Receiver) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	r.Mount(router)
	return router
}

func (r *Receiver) handleWebhook(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, r.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	payload, err := Relay(body)
	if err != nil {
		log.Printf("[Webhook] Rejected delivery on %s: %v", r.webhookID, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := Record{
		ID:         uuid.NewString(),
		WebhookID:  r.webhookID,
		ReceivedAt: r.now().UTC(),
		Payload:    payload,
	}

	for _, sink := range r.sinks {
		if err := sink.Emit(req.Context(), rec); err != nil {
			log.Printf("[Webhook] Failed to emit record %s: %v", rec.ID, err)
			writeError(w, http.StatusInternalServerError, "failed to store record")
			return
		}
	}

	log.Printf("[Webhook] Received record %s (%d bytes)", rec.ID, len(payload))
	writeJSON(w, http.StatusOK, map[string]string{"message": "received"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
