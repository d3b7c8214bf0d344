package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Neumenon/dbussig/sig"
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [sig...]",
	Short: "Print the tree of each signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		opts := parseOptions()
		out := cmd.OutOrStdout()

		for i, text := range in {
			s, err := sig.ParseWithOptions(text, opts)
			if err != nil {
				return errors.Wrapf(err, "signature %d", i+1)
			}
			log.WithField("input", text).Debug("parsed")
			fmt.Fprintf(out, "%q\n", s.String())
			describe(out, s, 1)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [sig...]",
	Short: "Check signatures, one verdict per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		opts := parseOptions()
		out := cmd.OutOrStdout()

		bad := 0
		for _, text := range in {
			if err := sig.ValidateWithOptions(text, opts); err != nil {
				bad++
				fmt.Fprintf(out, "invalid\t%q\t%v\n", text, err)
				continue
			}
			fmt.Fprintf(out, "ok\t%q\n", text)
		}
		if bad > 0 {
			return errors.Errorf("%d of %d signatures invalid", bad, len(in))
		}
		return nil
	},
}

// describe writes one line per node, children indented below their parent.
func describe(w io.Writer, s sig.Signature, depth int) {
	pad := strings.Repeat("  ", depth)

	switch s.Kind() {
	case sig.KindArray, sig.KindMaybe:
		fmt.Fprintf(w, "%s%s\n", pad, s.Kind())
		elem, _ := s.Elem()
		describe(w, elem, depth+1)
	case sig.KindDict:
		fmt.Fprintf(w, "%s%s\n", pad, s.Kind())
		key, _ := s.Key()
		value, _ := s.Value()
		describe(w, key, depth+1)
		describe(w, value, depth+1)
	case sig.KindStruct:
		label := s.Kind().String()
		if s.IsSequence() {
			label = "sequence"
		}
		fmt.Fprintf(w, "%s%s (%d fields)\n", pad, label, s.NumFields())
		fields, _ := s.Fields()
		for f := range fields.All() {
			describe(w, f, depth+1)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", pad, s.Kind())
	}
}
