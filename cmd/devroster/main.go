package main

import (
	"os"
	"strings"

	"devroster/internal/cli"
)

// isDeveloperID reports whether s looks like a record id (the backend hands out integers).
func isDeveloperID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rewriteDirectLookupArgs turns `devroster <id>` into `devroster show <id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`devroster --base-url ... 4`), so this looks for the first
// positional token rather than argv[1].
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without consuming a value, so an id is never eaten.
	valueFlags := map[string]bool{
		"--config":       true,
		"--base-url":     true,
		"--timeout":      true,
		"--banner-delay": true,
		"--page-size":    true,
		"--refetch":      true,
		"--log-file":     true,
		"--log-level":    true,
		"--format":       true,
	}

	insertShow := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDeveloperID(argv[i+1]) {
				// `show` must precede `--` to be parsed as the subcommand.
				return insertShow(i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isDeveloperID(a) {
			return insertShow(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
