package ctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/civicwatch/internal/client/poller"
	"github.com/dmitrijs2005/civicwatch/internal/client/views"
)

type watchOptions struct {
	list  bool
	every time.Duration
	limit time.Duration
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var w watchOptions

	cmd := &cobra.Command{
		Use:   "watch [id...]",
		Short: "Keep the list and complaint pages refreshed until interrupted",
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			if !w.list && len(args) == 0 {
				return s.fail(errors.New("nothing to watch: pass --list or complaint ids"))
			}
			if w.every < 0 {
				return s.fail(fmt.Errorf("--every must be positive, got %s", w.every))
			}
			return runWatch(ctx, s, w, args)
		}),
	}
	cmd.Flags().BoolVar(&w.list, "list", false, "watch the complaint list")
	cmd.Flags().DurationVar(&w.every, "every", 0, "refresh interval, overrides the configured ones")
	cmd.Flags().DurationVar(&w.limit, "for", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}

// runWatch renders every page once, then refreshes each one on its own
// poller until ctx ends, a signal arrives, the limit passes or the session
// expires.
func runWatch(ctx context.Context, s *session, w watchOptions, ids []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if w.limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.limit)
		defer cancel()
	}
	ctx, expire := context.WithCancelCause(ctx)
	defer expire(nil)

	interval := func(configured time.Duration) time.Duration {
		if w.every > 0 {
			return w.every
		}
		return configured
	}

	refresh := func(load poller.Func) poller.Func {
		return func(ctx context.Context) error {
			err := load(ctx)
			if s.auth.HandleUnauthorized(ctx, err) {
				s.out.Println("session expired, please login")
				expire(err)
			}
			return err
		}
	}

	// a failed first load is rendered and polling still starts; only an
	// expired session ends the watch
	first := func(load poller.Func) error {
		if err := load(ctx); err != nil && s.auth.HandleUnauthorized(ctx, err) {
			s.out.Println("session expired, please login")
			return &shownError{err: err}
		}
		return nil
	}

	var tasks []*poller.Task
	if w.list {
		list := views.NewListView(s.complaints, s.out, s.logger)
		if err := first(list.Load); err != nil {
			return err
		}
		tasks = append(tasks, poller.New("list", interval(s.cfg.ListPollInterval), refresh(list.Load), s.logger))
	}
	for _, arg := range ids {
		d, err := s.detail(arg)
		if err != nil {
			return err
		}
		if err := first(d.Load); err != nil {
			return err
		}
		name := fmt.Sprintf("#%d", d.ID())
		tasks = append(tasks, poller.New(name, interval(s.cfg.DetailPollInterval), refresh(d.Load), s.logger))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error { return t.Run(gctx) })
	}
	err := g.Wait()

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) && !errors.Is(cause, context.DeadlineExceeded) {
		return &shownError{err: cause}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return s.fail(err)
	}
	return nil
}
