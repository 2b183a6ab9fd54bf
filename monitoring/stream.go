package monitoring

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ahasselbring/GameController-HL/controller"
	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// StreamMessage is sent to the stream clients for every action the
// controller executes or rejects.
type StreamMessage struct {
	Time     float64      `json:"time"`
	Source   string       `json:"source"`
	Action   game.VAction `json:"action"`
	Accepted bool         `json:"accepted"`
	Phase    game.Phase   `json:"phase"`
	State    game.State   `json:"state"`
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// stream is a hook that forwards dispatched actions to websocket clients.
type stream struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

func newStream() *stream {
	return &stream{clients: make(map[*streamClient]struct{})}
}

// Func runs while the controller is locked. It only enqueues; slow clients
// lose messages.
func (s *stream) Func(ctx hooking.HookCtx) {
	var accepted bool

	switch ctx.Pos {
	case controller.HookPosAfterAction:
		accepted = true
	case controller.HookPosActionRejected:
	default:
		return
	}

	a, ok := ctx.Item.(game.Action)
	if !ok {
		return
	}

	d, ok := ctx.Detail.(controller.Detail)
	if !ok {
		return
	}

	msg := StreamMessage{
		Time:     ctx.Now.Seconds(),
		Source:   d.Source.String(),
		Action:   game.VAction{Action: a},
		Accepted: accepted,
		Phase:    d.Game.Phase,
		State:    d.Game.State,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("monitoring: marshal stream message: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("monitoring: dropping stream message for slow client")
		}
	}
}

func (s *stream) numClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

func (s *stream) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &streamClient{
		conn: conn,
		send: make(chan []byte, clientSendBuf),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writePump(c)
	go s.readPump(c)
}

// writePump owns the client: when it returns, the client is removed and the
// connection closed.
func (s *stream) writePump(c *streamClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

			err := c.conn.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			if err != nil {
				return
			}
		}
	}
}

// readPump only consumes pongs and close frames. It signals writePump
// through done when the peer goes away.
func (s *stream) readPump(c *streamClient) {
	defer close(c.done)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
	}
}

func (s *stream) removeClient(c *streamClient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, c)
}

func (s *stream) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		_ = c.conn.Close()
	}
}
