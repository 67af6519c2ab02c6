package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

type streamClient struct {
	id    string
	owner string
	send  chan []byte
}

// Hub streams session snapshots to websocket clients. Every event published
// for an owner pushes that owner's current snapshot to its clients.
type Hub struct {
	Snapshots func(owner string) session.Snapshot
	Logger    logging.Logger

	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[string]map[string]*streamClient
}

func NewHub(snapshots func(owner string) session.Snapshot, logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Hub{
		Snapshots: snapshots,
		Logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[string]map[string]*streamClient),
	}
}

// Notify is an event bus handler.
func (h *Hub) Notify(evt event.Event) error {
	if evt.Owner == "" {
		return nil
	}

	h.mu.RLock()
	targets := make([]*streamClient, 0, len(h.clients[evt.Owner]))
	for _, cl := range h.clients[evt.Owner] {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	msg, err := h.message(evt.Owner, evt.Type)
	if err != nil {
		return err
	}

	for _, cl := range targets {
		select {
		case cl.send <- msg:
		default:
			h.Logger.Warn("websocket client too slow, update dropped", map[string]any{
				"client-id": cl.id,
				"owner":     cl.owner,
			})
		}
	}
	return nil
}

func (h *Hub) Clients(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[owner])
}

func (h *Hub) Serve(c *gin.Context) {
	owner := c.Param("id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", map[string]any{"owner": owner, "error": err.Error()})
		return
	}
	defer conn.Close()

	cl := &streamClient{id: uuid.NewString(), owner: owner, send: make(chan []byte, sendBuffer)}

	first, err := h.message(owner, "")
	if err != nil {
		return
	}
	cl.send <- first

	h.register(cl)
	defer h.unregister(cl)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-cl.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type streamMessage struct {
	Event    event.Type       `json:"event,omitempty"`
	Snapshot SnapshotResponse `json:"snapshot"`
}

func (h *Hub) message(owner string, t event.Type) ([]byte, error) {
	return json.Marshal(streamMessage{
		Event:    t,
		Snapshot: newSnapshotResponse(h.Snapshots(owner)),
	})
}

func (h *Hub) register(cl *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[cl.owner] == nil {
		h.clients[cl.owner] = make(map[string]*streamClient)
	}
	h.clients[cl.owner][cl.id] = cl
}

func (h *Hub) unregister(cl *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients[cl.owner], cl.id)
	if len(h.clients[cl.owner]) == 0 {
		delete(h.clients, cl.owner)
	}
}
