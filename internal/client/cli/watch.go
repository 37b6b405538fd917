package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/client/poller"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// Watch loads the list ("watch list") or a complaint page ("watch <id>")
// and keeps refreshing it until unwatch, logout or exit. Only one watch
// runs at a time.
func (a *App) Watch(ctx context.Context, args []string) error {
	const usage = "watch list | watch <id>"
	if len(args) == 0 {
		return a.usage(usage)
	}

	var (
		name     string
		interval time.Duration
		load     func(context.Context) error
	)
	if args[0] == "list" {
		name, interval, load = "list", a.config.ListPollInterval, a.list.Load
	} else {
		id, err := common.ParseComplaintID(args[0])
		if err != nil {
			a.out.Error(err)
			return err
		}
		name, interval, load = "#"+args[0], a.config.DetailPollInterval, a.detailFor(id).Load
	}

	a.stopWatch()
	// a failed first load is rendered and polling still starts; only an
	// expired session ends the watch
	if err := load(ctx); err != nil && a.auth.HandleUnauthorized(ctx, err) {
		a.out.Println("session expired, please login")
		return err
	}

	task := poller.New(name, interval, func(ctx context.Context) error {
		return a.check(ctx, load(ctx))
	}, a.logger)
	if err := task.Start(ctx); err != nil {
		a.out.Error(err)
		return err
	}

	a.mu.Lock()
	a.watch, a.watchLabel = task, name
	a.mu.Unlock()

	a.out.Printf("watching %s every %s\n", name, interval)
	return nil
}

func (a *App) Unwatch(_ context.Context, _ []string) error {
	if !a.stopWatch() {
		a.out.Println("nothing is watched")
		return nil
	}
	a.out.Println("stopped watching")
	return nil
}

func (a *App) Pause(_ context.Context, _ []string) error {
	if task := a.currentWatch(); task != nil {
		task.Pause()
		a.out.Println("paused")
		return nil
	}
	a.out.Println("nothing is watched")
	return nil
}

func (a *App) Resume(_ context.Context, _ []string) error {
	if task := a.currentWatch(); task != nil {
		task.Resume()
		a.out.Println("resumed")
		return nil
	}
	a.out.Println("nothing is watched")
	return nil
}

func (a *App) currentWatch() *poller.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.watch
}

// stopWatch ends the running watch and reports whether there was one.
func (a *App) stopWatch() bool {
	a.mu.Lock()
	task := a.watch
	a.watch, a.watchLabel = nil, ""
	a.mu.Unlock()

	if task == nil {
		return false
	}
	task.Stop()
	return true
}
