package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/civicwatch/internal/client/views"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

var knownStatuses = []string{common.FilterAll, common.StatusPending, common.StatusInProgress, common.StatusSolved}

// splitListArgs reads "[department...] [status]". The last word is the
// status when it names one, so departments may contain spaces.
func splitListArgs(args []string) (department, status string) {
	if n := len(args); n > 0 {
		last := strings.ToLower(args[n-1])
		for _, s := range knownStatuses {
			if last == s {
				status = last
				args = args[:n-1]
				break
			}
		}
	}
	return strings.Join(args, " "), status
}

// List renders the complaint list. Without arguments the current filter is
// reused.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 0 {
		dept, status := splitListArgs(args)
		a.list.SetFilter(dept, status)
	}
	return a.check(ctx, a.list.Load(ctx))
}

// parseID reads the complaint id from the first argument.
func (a *App) parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, a.usage(usage)
	}
	id, err := common.ParseComplaintID(args[0])
	if err != nil {
		a.out.Error(err)
		return 0, err
	}
	return id, nil
}

// detailFor returns the page of complaint id, reusing the open one.
func (a *App) detailFor(id int64) *views.DetailView {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.detail == nil || a.detail.ID() != id {
		a.detail = views.NewDetailView(id, a.complaints, a.auth, a.out, a.logger)
	}
	return a.detail
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "show <id>")
	if err != nil {
		return err
	}
	return a.check(ctx, a.detailFor(id).Load(ctx))
}

func (a *App) Progress(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "progress <id>")
	if err != nil {
		return err
	}
	return a.check(ctx, a.detailFor(id).MarkInProgress(ctx))
}

func (a *App) Solve(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "solve <id> [note...]")
	if err != nil {
		return err
	}
	return a.check(ctx, a.detailFor(id).MarkSolved(ctx, strings.Join(args[1:], " ")))
}

// Message sends the words after the id, or prompts for a multi-line text.
func (a *App) Message(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "message <id> [text...]")
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	if text == "" {
		if text, err = GetMultiline(a.reader, "Enter message", a.out); err != nil {
			return err
		}
	}
	return a.check(ctx, a.detailFor(id).SendMessage(ctx, text))
}

func (a *App) Messages(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "messages <id> [sender_role]")
	if err != nil {
		return err
	}
	role := ""
	if len(args) > 1 {
		role = args[1]
	}
	return a.check(ctx, a.detailFor(id).LoadMessages(ctx, role))
}

// Status sets a complaint's status through the legacy endpoint.
func (a *App) Status(ctx context.Context, args []string) error {
	const usage = "status <id> <pending|in_progress|solved> [note...]"
	id, err := a.parseID(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return a.usage(usage)
	}
	return a.check(ctx, a.account.UpdateStatus(ctx, id, args[1], strings.Join(args[2:], " ")))
}
