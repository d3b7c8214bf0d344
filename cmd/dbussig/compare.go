package main

import (
	"fmt"
	"slices"

	"github.com/Neumenon/dbussig/sig"
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Order two signatures",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := parseOptions()
		a, err := sig.ParseWithOptions(args[0], opts)
		if err != nil {
			return errors.Wrap(err, "first signature")
		}
		b, err := sig.ParseWithOptions(args[1], opts)
		if err != nil {
			return errors.Wrap(err, "second signature")
		}

		switch c := sig.Compare(a, b); {
		case c < 0:
			fmt.Fprintf(cmd.OutOrStdout(), "%q < %q\n", args[0], args[1])
		case c > 0:
			fmt.Fprintf(cmd.OutOrStdout(), "%q > %q\n", args[0], args[1])
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%q == %q\n", args[0], args[1])
		}
		return nil
	},
}

var sortUnique bool

var sortCmd = &cobra.Command{
	Use:   "sort [sig...]",
	Short: "Sort signatures structurally",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		cache, err := sig.NewCacheWithOptions(len(in), parseOptions())
		if err != nil {
			return errors.Wrap(err, "failed to create parse cache")
		}

		sigs := make([]sig.Signature, 0, len(in))
		for i, text := range in {
			s, err := cache.Parse(text)
			if err != nil {
				return errors.Wrapf(err, "signature %d", i+1)
			}
			sigs = append(sigs, s)
		}
		log.WithField("distinct", cache.Len()).Debug("parsed")

		slices.SortStableFunc(sigs, sig.Compare)
		if sortUnique {
			sigs = slices.CompactFunc(sigs, sig.Equal)
		}
		for _, s := range sigs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", s)
		}
		return nil
	},
}

func init() {
	sortCmd.Flags().BoolVarP(&sortUnique, "unique", "u", false, "drop duplicates")
}
