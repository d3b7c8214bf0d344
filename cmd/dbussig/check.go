package main

import (
	"fmt"

	"github.com/Neumenon/dbussig/internal/manifest"
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <manifest...>",
	Short: "Check YAML interface manifests",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := manifest.NewChecker(parseOptions())
		if err != nil {
			return errors.Wrap(err, "failed to create checker")
		}

		total := 0
		for _, path := range args {
			m, err := manifest.Load(path)
			if err != nil {
				return errors.Wrapf(err, "load %s", path)
			}
			problems := checker.Check(m)
			log.WithFields(log.Fields{
				"file":      path,
				"interface": m.Interface,
				"members":   len(m.Members),
			}).Debug("checked")

			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s.%s\n", path, m.Interface, p.Error())
			}
			total += len(problems)
		}
		if total > 0 {
			return errors.Errorf("%d problems found", total)
		}
		return nil
	},
}
