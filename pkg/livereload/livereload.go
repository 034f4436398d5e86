// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package livereload

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/walteh/assetrc/pkg/server"
)

// ProtocolV7 is the only LiveReload protocol spoken
const ProtocolV7 = "http://livereload.com/protocols/official-7"

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
	maxMessageSize   = 4096
	sendBuffer       = 16
)

// 📨 HelloMessage opens a LiveReload session in both directions
type HelloMessage struct {
	Command    string   `json:"command"`
	Protocols  []string `json:"protocols"`
	ServerName string   `json:"serverName,omitempty"`
}

// 🔄 ReloadMessage asks the browser to reload path
type ReloadMessage struct {
	Command string `json:"command"`
	Path    string `json:"path"`
	LiveCSS bool   `json:"liveCSS"`
}

// clientMessage is anything a browser may send after the handshake
type clientMessage struct {
	Command string `json:"command"`
	URL     string `json:"url,omitempty"`
}

type client struct {
	send chan ReloadMessage
}

// 🔌 Server speaks the LiveReload protocol to connected browsers
type Server struct {
	name    string
	origins []string

	mu      sync.RWMutex
	clients map[*client]struct{}

	closeOnce sync.Once
	closing   chan struct{}
}

// NewServer creates a LiveReload server. Origins limits which pages may
// connect; it defaults to localhost on any port.
func NewServer(origins ...string) *Server {
	if len(origins) == 0 {
		origins = []string{"localhost:*", "127.0.0.1:*"}
	}
	return &Server{
		name:    "assetrc",
		origins: origins,
		clients: make(map[*client]struct{}),
		closing: make(chan struct{}),
	}
}

// Handler routes /livereload and /livereload.js
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/livereload", s.serveWebSocket)
	r.Get("/livereload.js", serveScript)
	return r
}

// Clients returns the number of browsers that completed the handshake
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Reload tells every connected browser to reload path and returns how many
// were told. Slow browsers whose queue is full are skipped.
func (s *Server) Reload(path string, liveCSS bool) int {
	msg := ReloadMessage{Command: "reload", Path: path, LiveCSS: liveCSS}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for c := range s.clients {
		select {
		case c.send <- msg:
			n++
		default:
		}
	}
	return n
}

// Close disconnects every browser
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// ListenAndServe serves the LiveReload endpoints on addr until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return server.ListenAndServe(ctx, addr, s.Handler(), s.Close)
}

func (s *Server) add(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) bool {
	hctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	var hello HelloMessage
	if err := wsjson.Read(hctx, conn, &hello); err != nil {
		conn.Close(websocket.StatusPolicyViolation, "expected hello")
		return false
	}
	if hello.Command != "hello" || !slices.Contains(hello.Protocols, ProtocolV7) {
		conn.Close(websocket.StatusPolicyViolation, "unsupported protocol")
		return false
	}

	reply := HelloMessage{Command: "hello", Protocols: []string{ProtocolV7}, ServerName: s.name}
	if err := wsjson.Write(hctx, conn, reply); err != nil {
		return false
	}
	return true
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		logger.Warn().Err(err).Msg("livereload upgrade failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMessageSize)

	ctx := r.Context()
	if !s.handshake(ctx, conn) {
		return
	}

	c := &client{send: make(chan ReloadMessage, sendBuffer)}
	s.add(c)
	defer s.remove(c)
	logger.Debug().Int("clients", s.Clients()).Msg("livereload client connected")

	readErr := make(chan error, 1)
	go func() {
		for {
			var msg clientMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				readErr <- err
				return
			}
			logger.Trace().Str("command", msg.Command).Str("url", msg.URL).Msg("livereload client message")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closing:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case err := <-readErr:
			if st := websocket.CloseStatus(err); st != websocket.StatusNormalClosure && st != websocket.StatusGoingAway {
				logger.Debug().Err(err).Msg("livereload client dropped")
			}
			return
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				logger.Debug().Err(err).Msg("livereload write failed")
				return
			}
		}
	}
}
