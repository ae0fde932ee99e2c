// Package flagx contains helpers for components that each parse only
// their own subset of the command line.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognised. A token that
// starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFiles names the optional files a process loads settings from.
type ConfigFiles struct {
	JSON string // -c / -config
	Env  string // -env, a dotenv file
}

// ConfigFileFlags extracts the config file locations from args, ignoring
// every other flag. Missing flags leave the fields empty.
func ConfigFileFlags(args []string) ConfigFiles {
	var files ConfigFiles

	filtered := FilterArgs(args, []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("config-files", flag.ContinueOnError)
	fs.StringVar(&files.JSON, "config", "", "path to JSON config file")
	fs.StringVar(&files.JSON, "c", "", "path to JSON config file (short)")
	fs.StringVar(&files.Env, "env", "", "path to dotenv file")
	_ = fs.Parse(filtered)

	return files
}

// StripArgs is the complement of FilterArgs: it drops the given flags with
// their values and returns what is left, typically positional arguments.
func StripArgs(args []string, flags []string) []string {
	known := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		known[f] = struct{}{}
	}

	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := known[name]; ok {
				continue
			}
		}

		if _, ok := known[arg]; ok {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}

		rest = append(rest, arg)
	}

	return rest
}
