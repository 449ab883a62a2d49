package events

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// subscriberBuffer is how many events a browser may lag behind before it is dropped.
const subscriberBuffer = 64

// Hub broadcasts every published event to the websocket clients connected
// through Handler. A client that falls behind is disconnected; publishing
// never waits for the network.
type Hub struct {
	log *slog.Logger

	m      sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	ch chan []byte
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{log: log, subs: make(map[*subscriber]struct{})}
}

func (h *Hub) Publish(_ context.Context, e Event) error {
	b, err := Encode(e)
	if err != nil {
		return err
	}

	h.m.Lock()
	defer h.m.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- b:
		default:
			h.log.Warn("dropping slow watcher")
			delete(h.subs, s)
			close(s.ch)
		}
	}
	return nil
}

// Clients returns the number of connected watchers.
func (h *Hub) Clients() int {
	h.m.Lock()
	defer h.m.Unlock()
	return len(h.subs)
}

// Close disconnects every watcher after it has received what was published.
func (h *Hub) Close() error {
	h.m.Lock()
	defer h.m.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.ch)
	}
	return nil
}

func (h *Hub) subscribe() (*subscriber, bool) {
	h.m.Lock()
	defer h.m.Unlock()
	if h.closed {
		return nil, false
	}
	s := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	h.subs[s] = struct{}{}
	return s, true
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.m.Lock()
	defer h.m.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

// Handler upgrades the request to a websocket and streams events to it
// as text messages until the hub closes or the client goes away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			h.log.Warn("websocket accept", "error", err)
			return
		}
		defer c.CloseNow()

		s, ok := h.subscribe()
		if !ok {
			c.Close(websocket.StatusGoingAway, "run finished")
			return
		}
		defer h.unsubscribe(s)
		h.log.Debug("watcher connected", "remote", r.RemoteAddr)

		// we never read, but CloseRead handles pings and notices disconnects
		ctx := c.CloseRead(r.Context())
		for {
			select {
			case b, ok := <-s.ch:
				if !ok {
					c.Close(websocket.StatusNormalClosure, "run finished")
					return
				}
				wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := c.Write(wctx, websocket.MessageText, b)
				cancel()
				if err != nil {
					h.log.Debug("watcher write failed", "remote", r.RemoteAddr, "error", err)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

// NewServer serves the event stream at /ws and the rendered frames from
// frameDir under /frames/.
func NewServer(addr string, h *Hub, frameDir string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.Handler())
	mux.Handle("/frames/", http.StripPrefix("/frames/", http.FileServer(http.Dir(frameDir))))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
