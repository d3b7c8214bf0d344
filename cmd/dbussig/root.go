package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose enables debug logging.
	Verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "dbussig",
	Short:         "Parse, validate and compare D-Bus type signatures",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool(cfgKeyVerbose) {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihandler.Default)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dbussig.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().Bool(cfgKeyMaybe, false, "accept GVariant maybe types (m)")
	rootCmd.PersistentFlags().Int(cfgKeyMaxDepth, 0, "maximum container nesting (0 = default, negative = unlimited)")
	rootCmd.PersistentFlags().Bool(cfgKeyStrict, false, "enforce D-Bus length and depth limits")
	viper.BindPFlag(cfgKeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag(cfgKeyMaybe, rootCmd.PersistentFlags().Lookup(cfgKeyMaybe))
	viper.BindPFlag(cfgKeyMaxDepth, rootCmd.PersistentFlags().Lookup(cfgKeyMaxDepth))
	viper.BindPFlag(cfgKeyStrict, rootCmd.PersistentFlags().Lookup(cfgKeyStrict))

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dbussig")
	}

	viper.SetEnvPrefix("dbussig")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", filepath.Base(viper.ConfigFileUsed())).Debug("Using config file")
	}
}
