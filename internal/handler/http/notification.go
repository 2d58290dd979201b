package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/handler/http/response"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/sse"
)

type NotificationHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	hub  *sse.Hub
	repo notification.Repository
}

func NewNotificationHandler(hub *sse.Hub, repo notification.Repository) NotificationHandler {
	return &notificationHandlerImpl{
		hub:  hub,
		repo: repo,
	}
}

// Stream implements NotificationHandler. Holds the connection open and relays
// the caller's events as server-sent events until the client disconnects.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	workerID := claimWorkerID(r)
	if workerID == "" {
		response.Unauthorized(w, "worker identity missing from token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cleanup := h.hub.Subscribe(workerID)
	defer cleanup()

	// Heartbeat keeps intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case event := <-events:
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()
		}
	}
}

// List implements NotificationHandler.
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	workerID := claimWorkerID(r)
	if workerID == "" {
		response.Unauthorized(w, "worker identity missing from token")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.repo.ListByRecipient(r.Context(), workerID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notifications)
}
