package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// AppVersion stores the build version.
	AppVersion = "0.1.0"
	// AppBuildTime stores the build time.
	AppBuildTime string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dbussig %s (%s/%s)\n", AppVersion, runtime.GOOS, runtime.GOARCH)
		if AppBuildTime != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", AppBuildTime)
		}
	},
}
