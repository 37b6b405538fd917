package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/flagx"
)

var (
	valueFlags = []string{"-a", "-d", "-l", "-p", "-t", "-log"}
	boolFlags  = []string{"-v", "-no-persist"}
)

// parseFlags populates Config fields from command-line flags. Only the
// flags listed in valueFlags and boolFlags are considered, so flags owned by other
// components do not fail the parse.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("civicwatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the complaints API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "token database path")
	listPoll := fs.Int("l", int(cfg.ListPollInterval.Seconds()), "list refresh interval (in seconds)")
	detailPoll := fs.Int("p", int(cfg.DetailPollInterval.Seconds()), "detail refresh interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format: text, json or zap")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "debug logging")
	fs.BoolVar(&cfg.NoPersist, "no-persist", cfg.NoPersist, "keep the token in memory only")

	filtered := append(flagx.FilterArgs(args, valueFlags), flagx.FilterBoolArgs(args, boolFlags)...)
	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	seconds := map[string]struct {
		value *int
		dst   *time.Duration
	}{
		"l": {listPoll, &cfg.ListPollInterval},
		"p": {detailPoll, &cfg.DetailPollInterval},
		"t": {timeout, &cfg.RequestTimeout},
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		s, ok := seconds[f.Name]
		if !ok || err != nil {
			return
		}
		if *s.value <= 0 {
			err = fmt.Errorf("parse flags: -%s must be positive, got %d", f.Name, *s.value)
			return
		}
		*s.dst = time.Duration(*s.value) * time.Second
	})
	return err
}
