package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/client/config"
	"github.com/dmitrijs2005/vignaraja/internal/client/services"
	clientstore "github.com/dmitrijs2005/vignaraja/internal/client/store"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

type App struct {
	config    *config.Config
	community *services.Community
	closer    io.Closer
	reader    *bufio.Reader
	out       io.Writer
	outMu     sync.Mutex
	logger    logging.Logger
	now       func() time.Time
}

// NewApp connects the CLI to the store server named in c. The connection is
// established lazily by the first store call.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	admin, err := c.AdminVerifier()
	if err != nil {
		return nil, err
	}

	store, err := clientstore.NewRemoteStore(c.ServerEndpointAddr, c.SecretKey, c.TokenValidity, logger)
	if err != nil {
		return nil, err
	}

	community := services.NewCommunity(store, c.Root, admin, logger)
	return newApp(c, community, store, os.Stdin, os.Stdout, logger), nil
}

func newApp(c *config.Config, community *services.Community, closer io.Closer, in io.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{
		config:    c,
		community: community,
		closer:    closer,
		reader:    bufio.NewReader(in),
		out:       out,
		logger:    logger,
		now:       time.Now,
	}
}

// Run prepares the document structure and serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	opCtx, cancel := a.opCtx(ctx)
	a.community.EnsureStructure(opCtx)
	cancel()

	a.println("Welcome to Vignaraja (type 'help' for commands)")
	a.println(services.Countdown(a.now(), a.config.EventDate))
	runREPL(ctx, a, a.status, a.reader)
}

// Close signs out and releases the store connection.
func (a *App) Close() {
	a.community.Logout()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing store", "err", err)
		}
	}
}

func (a *App) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.OperationTimeout)
}

func (a *App) isLoggedIn() bool {
	return a.community.Session.Actor().Authenticated()
}

func (a *App) isAdmin() bool {
	return a.community.Session.Actor().IsAdmin()
}

func (a *App) status() string {
	actor := a.community.Session.Actor()
	switch {
	case actor.IsAdmin():
		return "(admin)"
	case actor.Authenticated():
		return fmt.Sprintf("(%s)", actor.Name)
	default:
		return ""
	}
}

// println and printf serialize output shared by command handlers and watch
// callbacks.
func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
