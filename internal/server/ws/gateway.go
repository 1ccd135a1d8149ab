// Package ws exposes store watches over websockets for browser front ends.
// A client connects to /watch?path=<path>&access_token=<jwt> and receives a
// JSON frame with the full value at path now and after every change.
package ws

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/auth"
	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	defaultWriteTimeout = 5 * time.Second
	defaultPingTimeout  = 30 * time.Second
)

// Frame is one websocket message.
type Frame struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Value  any    `json:"value,omitempty"`
}

type Gateway struct {
	address   string
	store     docstore.Store
	logger    logging.Logger
	jwtSecret []byte
	upgrader  websocket.Upgrader

	WriteTimeout time.Duration
	PingTimeout  time.Duration
}

func NewGateway(address string, l logging.Logger, store docstore.Store, secretKey string) *Gateway {
	return &Gateway{
		address:   address,
		store:     store,
		logger:    l.With("module", "ws_gateway"),
		jwtSecret: []byte(secretKey),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		WriteTimeout: defaultWriteTimeout,
		PingTimeout:  defaultPingTimeout,
	}
}

func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", g.serveWatch)
	return mux
}

// Run serves the gateway until ctx is cancelled. Open watches are closed
// with the server.
func (g *Gateway) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              g.address,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		g.logger.Info(context.Background(), "Stopping websocket gateway...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	g.logger.Info(ctx, "Starting websocket gateway", "address", g.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func tokenFrom(r *http.Request) string {
	if t := r.URL.Query().Get(common.AccessTokenHeaderName); t != "" {
		return t
	}
	return r.Header.Get(common.AccessTokenHeaderName)
}

func (g *Gateway) serveWatch(w http.ResponseWriter, r *http.Request) {
	clientID, err := auth.GetClientIDFromToken(tokenFrom(r), g.jwtSecret)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	path := r.URL.Query().Get("path")

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn(r.Context(), "upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	latest := make(chan docstore.Snapshot, 1)
	sub, err := g.store.Watch(ctx, path, func(snap docstore.Snapshot) {
		select {
		case <-latest:
		default:
		}
		latest <- snap
	})
	if err != nil {
		g.logger.Error(ctx, "watch failed", "path", path, "err", err)
		return
	}
	defer sub.Cancel()

	connID, _ := common.MakeRandHexString(8)
	logger := g.logger.With("conn", connID, "client", clientID, "path", path)
	logger.Info(ctx, "watch opened")
	defer logger.Info(ctx, "watch closed")

	// The peer sends nothing; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(g.PingTimeout)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(g.WriteTimeout)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
			return
		case snap := <-latest:
			conn.SetWriteDeadline(time.Now().Add(g.WriteTimeout))
			if err := conn.WriteJSON(Frame{Path: snap.Path, Exists: snap.Exists, Value: snap.Value}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(g.WriteTimeout)); err != nil {
				return
			}
		}
	}
}
