package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/config"
	"github.com/dmitrijs2005/civicwatch/internal/client/jwtclaims"
	"github.com/dmitrijs2005/civicwatch/internal/client/poller"
	"github.com/dmitrijs2005/civicwatch/internal/client/services"
	"github.com/dmitrijs2005/civicwatch/internal/client/tokenstore"
	"github.com/dmitrijs2005/civicwatch/internal/client/views"
	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

// stdout is shared by the REPL and the views so a poll refresh never splits
// a line printed by a command.
var stdout = views.NewOutput(os.Stdout)

type App struct {
	config     *config.Config
	logger     logging.Logger
	tokens     tokenstore.Store
	decoder    *jwtclaims.Decoder
	auth       services.AuthService
	complaints services.ComplaintService
	list       *views.ListView
	account    *views.AccountView
	out        *views.Output
	reader     *bufio.Reader
	closeFn    func() error

	mu         sync.Mutex
	detail     *views.DetailView
	watch      *poller.Task
	watchLabel string
}

// NewApp opens the token store and builds the API client and views.
// With cfg.NoPersist the token lives in memory only.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	var (
		tokens  tokenstore.Store
		closeFn = func() error { return nil }
	)
	if cfg.NoPersist {
		tokens = tokenstore.NewMemory()
	} else {
		s, err := tokenstore.Open(ctx, cfg.DatabasePath)
		if err != nil {
			logger.Error(ctx, "error initializing token store", "path", cfg.DatabasePath, "error", err)
			return nil, err
		}
		tokens, closeFn = s, s.Close
	}

	api := client.New(cfg.APIBaseURL, tokens,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)

	a := newApp(cfg, logger, tokens, api, os.Stdin, stdout)
	a.closeFn = closeFn
	return a, nil
}

func newApp(cfg *config.Config, logger logging.Logger, tokens tokenstore.Store, api client.Client, in io.Reader, out *views.Output) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	decoder := jwtclaims.NewDecoder(logger)
	auth := services.NewAuthService(api, tokens, decoder)
	complaints := services.NewComplaintService(api)

	return &App{
		config:     cfg,
		logger:     logger,
		tokens:     tokens,
		decoder:    decoder,
		auth:       auth,
		complaints: complaints,
		list:       views.NewListView(complaints, out, logger),
		account:    views.NewAccountView(complaints, auth, out, logger),
		out:        out,
		reader:     bufio.NewReader(in),
		closeFn:    func() error { return nil },
	}
}

// Run starts the REPL and blocks until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	printlnFn("Welcome to civicwatch (type 'help' for commands)")
	if a.isLoggedIn(ctx) {
		_ = a.WhoAmI(ctx, nil)
	}

	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

// Close stops any watch and releases the token store.
func (a *App) Close(ctx context.Context) {
	a.stopWatch()
	if err := a.closeFn(); err != nil {
		a.logger.Warn(ctx, "failed to close token store", "error", err)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read token", "error", err)
		return false
	}
	return token != ""
}

// status is shown in the prompt: the role from the token and the watch state.
func (a *App) status(ctx context.Context) string {
	s := ""
	if token, err := a.tokens.Get(ctx); err == nil && token != "" {
		role := a.decoder.Decode(token).Role()
		if role == "" {
			role = "logged in"
		}
		s = role
	}

	a.mu.Lock()
	if a.watch != nil {
		w := "watching " + a.watchLabel
		if a.watch.Paused() {
			w += ", paused"
		}
		if s != "" {
			s += " "
		}
		s += "[" + w + "]"
	}
	a.mu.Unlock()

	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// check reacts to an expired session: the token is dropped and the user
// asked to login again. err is returned unchanged.
func (a *App) check(ctx context.Context, err error) error {
	if err != nil && a.auth.HandleUnauthorized(ctx, err) {
		a.out.Println("session expired, please login")
	}
	return err
}
