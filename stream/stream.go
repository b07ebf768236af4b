// Package stream broadcasts simulation snapshots to websocket viewers.
// A Hub subscribes to the STEP event of a System and pushes one JSON snapshot
// per published step to every connected client.
package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akmonengine/springmass"
	"github.com/akmonengine/springmass/actor"
	"github.com/gorilla/websocket"
)

const (
	// DefaultWriteTimeout bounds the time a slow viewer can hold a step
	DefaultWriteTimeout = 100 * time.Millisecond
	// DefaultWriters is the number of goroutines writing a snapshot to the viewers
	DefaultWriters = 4
)

// ParticleState is the rendered state of a particle
type ParticleState struct {
	Position [3]float64 `json:"p"`
	Radius   float64    `json:"r"`
}

// Snapshot is the message sent to viewers. Springs index Particles.
type Snapshot struct {
	Step      uint64          `json:"step"`
	Particles []ParticleState `json:"particles"`
	Springs   [][2]int        `json:"springs"`
}

// NewSnapshot captures the particles and springs of a system
func NewSnapshot(system *springmass.System, step uint64) Snapshot {
	snapshot := Snapshot{Step: step}
	indices := make(map[actor.Handle]int, system.Particles.Len())

	system.Particles.Each(func(h actor.Handle, p *actor.Particle) {
		indices[h] = len(snapshot.Particles)
		snapshot.Particles = append(snapshot.Particles, ParticleState{
			Position: [3]float64(p.Position),
			Radius:   p.Radius,
		})
	})

	for _, spring := range system.Springs {
		a, b := spring.Handles()
		ia, okA := indices[a]
		ib, okB := indices[b]
		if !okA || !okB {
			continue
		}
		snapshot.Springs = append(snapshot.Springs, [2]int{ia, ib})
	}

	return snapshot
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(message *websocket.PreparedMessage, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}

	return c.conn.WritePreparedMessage(message)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.Close()
}

// Hub is an http.Handler upgrading viewers to websockets and broadcasting to them
type Hub struct {
	WriteTimeout time.Duration
	// Writers bounds the number of viewers written to concurrently
	Writers int
	Logger  *log.Logger

	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		WriteTimeout: DefaultWriteTimeout,
		Writers:      DefaultWriters,
		Logger:       log.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.Logger != nil {
		h.Logger.Printf("[Hub] "+format, args...)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.readLoop(c)
}

// readLoop discards incoming messages and unregisters the client once the connection fails
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.close()
	}
}

// Clients returns the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Publish sends snapshot to every viewer and returns how many received it.
// Viewers failing to keep up are disconnected.
func (h *Hub) Publish(snapshot Snapshot) (int, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}
	message, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return 0, fmt.Errorf("prepare snapshot: %w", err)
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var sent atomic.Int64
	fanOut(h.Writers, clients, func(c *client) {
		if err := c.write(message, h.WriteTimeout); err != nil {
			h.logf("dropping viewer %s: %v", c.conn.RemoteAddr(), err)
			h.remove(c)
			return
		}
		sent.Add(1)
	})

	return int(sent.Load()), nil
}

// Listener returns a STEP listener publishing one snapshot every `every` steps
func (h *Hub) Listener(every int) springmass.EventListener {
	every = max(1, every)

	return func(event springmass.Event) {
		step, ok := event.(springmass.StepEvent)
		if !ok || step.System == nil || step.Step%uint64(every) != 0 {
			return
		}
		if h.Clients() == 0 {
			return
		}
		if _, err := h.Publish(NewSnapshot(step.System, step.Step)); err != nil {
			h.logf("publish failed: %v", err)
		}
	}
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}
