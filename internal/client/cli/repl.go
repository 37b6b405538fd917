package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(stdout, a...) }

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
// Every command receives the words that followed it on the line.
type execIface interface {
	isLoggedIn(ctx context.Context) bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	AdminLogin(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Token(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Progress(ctx context.Context, args []string) error
	Solve(ctx context.Context, args []string) error
	Message(ctx context.Context, args []string) error
	Messages(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error

	Watch(ctx context.Context, args []string) error
	Unwatch(ctx context.Context, args []string) error
	Pause(ctx context.Context, args []string) error
	Resume(ctx context.Context, args []string) error

	Profile(ctx context.Context, args []string) error
	UpdateProfile(ctx context.Context, args []string) error
	My(ctx context.Context, args []string) error
	Departments(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Submit(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, admin-login, list, show, watch, unwatch, pause, resume, departments, exit"
	helpLoggedIn  = "Available commands: whoami, token, list, show, progress, solve, message, messages, status, " +
		"watch, unwatch, pause, resume, profile, update-profile, my, departments, stats, submit, logout, exit"
)

// runREPL starts a read-eval-print loop for the civicwatch CLI.
//
// It reads a line from reader, parses the first word as the command, and
// dispatches to methods on 'a' with the remaining words. Unknown commands
// are reported back to the user. The loop exits on EOF, when ctx is done or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts:
//
//	help                          show available commands
//	register | login | admin-login | logout
//	whoami | token                current profile, decoded token
//	list [department] [status]    complaints, "all" clears a filter
//	show <id>                     complaint page
//	progress <id>                 mark in progress (cm_admin)
//	message <id> [text...]        add a message (cm_admin)
//	messages <id> [sender_role]   message thread (c_admin)
//	solve <id> [note...]          mark solved (c_admin)
//	status <id> <status> [note]   set any status
//	watch list | watch <id>       refresh the list or a complaint page
//	unwatch | pause | resume      control the watch
//	profile | update-profile | my | departments | stats | submit
//	exit | quit
//
// Errors returned by command handlers are ignored here; handlers render
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("civic %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx, args)
		case "login":
			_ = a.Login(ctx, args)
		case "admin-login":
			_ = a.AdminLogin(ctx, args)
		case "logout":
			_ = a.Logout(ctx, args)
		case "whoami":
			_ = a.WhoAmI(ctx, args)
		case "token":
			_ = a.Token(ctx, args)

		case "l", "list":
			_ = a.List(ctx, args)
		case "show":
			_ = a.Show(ctx, args)
		case "progress":
			_ = a.Progress(ctx, args)
		case "solve":
			_ = a.Solve(ctx, args)
		case "message":
			_ = a.Message(ctx, args)
		case "messages":
			_ = a.Messages(ctx, args)
		case "status":
			_ = a.Status(ctx, args)

		case "watch":
			_ = a.Watch(ctx, args)
		case "unwatch":
			_ = a.Unwatch(ctx, args)
		case "pause":
			_ = a.Pause(ctx, args)
		case "resume":
			_ = a.Resume(ctx, args)

		case "profile":
			_ = a.Profile(ctx, args)
		case "update-profile":
			_ = a.UpdateProfile(ctx, args)
		case "my":
			_ = a.My(ctx, args)
		case "departments":
			_ = a.Departments(ctx, args)
		case "stats":
			_ = a.Stats(ctx, args)
		case "submit":
			_ = a.Submit(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			// EOF after a final unterminated line
			return
		}
	}
}
