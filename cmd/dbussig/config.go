package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/Neumenon/dbussig/sig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config keys, shared by flags, the config file and DBUSSIG_* variables.
const (
	cfgKeyVerbose  = "verbose"
	cfgKeyMaybe    = "maybe"
	cfgKeyMaxDepth = "max-depth"
	cfgKeyStrict   = "strict"
)

// parseOptions builds the parser options from the merged configuration.
func parseOptions() sig.ParseOptions {
	return sig.ParseOptions{
		Maybe:    viper.GetBool(cfgKeyMaybe),
		MaxDepth: viper.GetInt(cfgKeyMaxDepth),
		Strict:   viper.GetBool(cfgKeyStrict),
	}
}

// inputs returns args, or one signature per stdin line when args is empty.
// Lines starting with # are skipped. A blank line is the unit signature.
func inputs(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var lines []string
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read stdin")
	}
	return lines, nil
}
