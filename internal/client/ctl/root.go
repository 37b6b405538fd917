// Package ctl implements civicctl, the one-shot command line of the
// complaints client. Every invocation loads the configuration, opens the
// token store, runs a single command and exits. The login token persists
// between invocations.
package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/civicwatch/internal/buildinfo"
	"github.com/dmitrijs2005/civicwatch/internal/client/client"
)

// shownError marks an error the views already printed.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

type rootOptions struct {
	configPath string
	envPath    string
	apiURL     string
	dbPath     string
	logFormat  string
	timeout    int
	debug      bool
	noPersist  bool
}

// configArgs turns the persistent flags that were set into the arguments
// config.Load reads, so defaults, env, JSON and flags layer the same way
// they do for the interactive client.
func (o *rootOptions) configArgs(cmd *cobra.Command) []string {
	flags := cmd.Flags()

	var args []string
	for _, f := range []struct {
		name, arg, value string
	}{
		{"config", "-c", o.configPath},
		{"env", "-e", o.envPath},
		{"api", "-a", o.apiURL},
		{"db", "-d", o.dbPath},
		{"log", "-log", o.logFormat},
		{"timeout", "-t", fmt.Sprint(o.timeout)},
	} {
		if flags.Changed(f.name) {
			args = append(args, f.arg, f.value)
		}
	}
	if flags.Changed("debug") && o.debug {
		args = append(args, "-v")
	}
	if flags.Changed("no-persist") && o.noPersist {
		args = append(args, "-no-persist")
	}
	return args
}

// NewRootCmd builds the civicctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "civicctl",
		Short:         "Command line client for the civic complaints service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "JSON config file")
	pf.StringVarP(&opts.envPath, "env", "e", "", "dotenv file with CIVIC_* variables")
	pf.StringVarP(&opts.apiURL, "api", "a", "", "base URL of the complaints API")
	pf.StringVarP(&opts.dbPath, "db", "d", "", "token database path")
	pf.StringVar(&opts.logFormat, "log", "", "log format: text, json or zap")
	pf.IntVarP(&opts.timeout, "timeout", "t", 0, "request timeout (in seconds)")
	pf.BoolVarP(&opts.debug, "debug", "v", false, "debug logging")
	pf.BoolVar(&opts.noPersist, "no-persist", false, "keep the token in memory only")

	root.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoAmICmd(opts),
		newProfileCmd(opts),
		newTokenCmd(opts),
		newComplaintsCmd(opts),
		newMessagesCmd(opts),
		newDepartmentsCmd(opts),
		newStatsCmd(opts),
		newWatchCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)
	return root
}

// Execute runs civicctl with args and returns the process exit code.
// Errors the command did not print itself go to stderr.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var shown *shownError
	if !errors.As(err, &shown) {
		fmt.Fprintln(stderr, "error:", client.Detail(err))
	}
	return 1
}
