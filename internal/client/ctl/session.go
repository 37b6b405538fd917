package ctl

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/config"
	"github.com/dmitrijs2005/civicwatch/internal/client/jwtclaims"
	"github.com/dmitrijs2005/civicwatch/internal/client/services"
	"github.com/dmitrijs2005/civicwatch/internal/client/tokenstore"
	"github.com/dmitrijs2005/civicwatch/internal/client/views"
	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

// session is what one command runs against.
type session struct {
	cfg        *config.Config
	logger     logging.Logger
	tokens     tokenstore.Store
	decoder    *jwtclaims.Decoder
	auth       services.AuthService
	complaints services.ComplaintService
	out        *views.Output
	cmd        *cobra.Command
	closeFn    func() error
}

func openSession(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.configArgs(cmd))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogFormat, cmd.ErrOrStderr(), cfg.Debug)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		logger:  logger,
		decoder: jwtclaims.NewDecoder(logger),
		out:     views.NewOutput(cmd.OutOrStdout()),
		cmd:     cmd,
		closeFn: func() error { return nil },
	}

	if cfg.NoPersist {
		s.tokens = tokenstore.NewMemory()
	} else {
		store, err := tokenstore.Open(ctx, cfg.DatabasePath)
		if err != nil {
			logger.Error(ctx, "error initializing token store", "path", cfg.DatabasePath, "error", err)
			_ = logging.Sync(logger)
			return nil, err
		}
		s.tokens, s.closeFn = store, store.Close
	}

	api := client.New(cfg.APIBaseURL, s.tokens,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)
	s.auth = services.NewAuthService(api, s.tokens, s.decoder)
	s.complaints = services.NewComplaintService(api)
	return s, nil
}

func (s *session) close(ctx context.Context) {
	if err := s.closeFn(); err != nil {
		s.logger.Warn(ctx, "failed to close token store", "error", err)
	}
	_ = logging.Sync(s.logger)
}

func (s *session) account() *views.AccountView {
	return views.NewAccountView(s.complaints, s.auth, s.out, s.logger)
}

// fail prints err the way the views do and marks it as shown.
func (s *session) fail(err error) error {
	s.out.Error(err)
	return &shownError{err: err}
}

type runFunc func(ctx context.Context, s *session, args []string) error

// run adapts fn to cobra: it opens a session, runs fn and closes the
// session. fn prints its own errors. A 401 drops the stored token.
func (o *rootOptions) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openSession(ctx, cmd, o)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		if err := fn(ctx, s, args); err != nil {
			var shown *shownError
			if errors.As(err, &shown) {
				return err
			}
			if s.auth.HandleUnauthorized(ctx, err) {
				s.out.Println("session expired, please login")
			}
			return &shownError{err: err}
		}
		return nil
	}
}
