package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/model"
)

// snapshotMailbox keeps only the newest pending snapshot for one stream.
// A slow client skips intermediate states but always ends on the latest one.
type snapshotMailbox struct {
	mu      sync.Mutex
	latest  entities.StudioSnapshot
	pending bool
	seen    bool
	wake    chan struct{}
}

func newSnapshotMailbox() *snapshotMailbox {
	return &snapshotMailbox{wake: make(chan struct{}, 1)}
}

func (m *snapshotMailbox) put(snap entities.StudioSnapshot) {
	m.mu.Lock()
	// 通知は順不同で届くことがあるので古い版は捨てる
	if m.seen && snap.Version <= m.latest.Version {
		m.mu.Unlock()
		return
	}
	m.latest = snap
	m.pending = true
	m.seen = true
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *snapshotMailbox) take() (entities.StudioSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.pending {
		return entities.StudioSnapshot{}, false
	}
	m.pending = false
	return m.latest, true
}

// HandleEvents streams a studio snapshot on every change (Server-Sent Events).
func (h *DressUpHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sessionID := h.sessionID(w, r)
	ctx := r.Context()

	mailbox := newSnapshotMailbox()
	unsubscribe, err := h.dressUpUseCase.Subscribe(ctx, sessionID, mailbox.put)
	if err != nil {
		h.sendError(w, err)
		return
	}
	defer unsubscribe()

	current, err := h.dressUpUseCase.Snapshot(ctx, sessionID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	mailbox.put(current)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case <-mailbox.wake:
			snap, ok := mailbox.take()
			if !ok {
				continue
			}
			if err := writeEvent(w, snap); err != nil {
				log.Printf("Failed to write studio event: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, snap entities.StudioSnapshot) error {
	data, err := json.Marshal(model.NewStudioResponse(snap))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: studio\ndata: %s\n\n", data)
	return err
}
