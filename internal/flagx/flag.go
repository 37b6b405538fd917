// Package flagx lets several packages read their own flags from one command
// line. Each reader keeps only the flags it knows about before handing the
// arguments to a private flag.FlagSet, so unknown flags owned by other
// readers (or by cobra) never cause parse failures.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Two forms are recognised:
//
//	-c conf.json       flag and value as separate arguments
//	--config=conf.json flag and value joined by '='
//
// A separate value is only consumed when it does not itself start with '-'.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, _, joined := strings.Cut(arg, "=")

		if _, ok := allowed[name]; !ok || !strings.HasPrefix(arg, "-") {
			continue
		}
		filtered = append(filtered, arg)
		if joined {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// stringFlag extracts the value of a string flag known under several names.
// The last occurrence wins; a missing flag yields "".
func stringFlag(args []string, names ...string) string {
	var value string

	allowed := make([]string, 0, len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n)
	}

	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}

// JSONConfigPath returns the config file path given with -c or -config.
func JSONConfigPath(args []string) string {
	return stringFlag(args, "c", "config")
}

// EnvFilePath returns the dotenv file path given with -e or -env.
func EnvFilePath(args []string) string {
	return stringFlag(args, "e", "env")
}

// FilterBoolArgs returns the boolean flags of args that are in allowedFlags.
// Unlike FilterArgs it never consumes the following argument, so "-v list"
// keeps "list" out of the result.
func FilterBoolArgs(args []string, allowedFlags []string) []string {
	filtered := make([]string, 0, len(allowedFlags))
	for _, arg := range args {
		name, _, _ := strings.Cut(arg, "=")
		for _, f := range allowedFlags {
			if name == f {
				filtered = append(filtered, arg)
				break
			}
		}
	}
	return filtered
}
