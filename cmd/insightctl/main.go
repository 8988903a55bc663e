package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deliveryhub/cmd/insightctl/commands"
	"deliveryhub/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "insightctl",
		Short: "Offline restaurant insights",
		Long: `Run the restaurant insights analysis over snapshot files, without a
database or the HTTP API.`,
		Version: "0.1.0",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			config.SetupLogger(level, "text")
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.insightctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	cobra.OnInitialize(func() { initConfig(v) })

	rootCmd.AddCommand(commands.NewAnalyzeCmd(v))
	rootCmd.AddCommand(commands.NewPredictCmd(v))
	rootCmd.AddCommand(commands.NewReportCmd(v))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initConfig(v *viper.Viper) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".insightctl")
	}

	v.SetEnvPrefix("INSIGHTCTL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		log.WithField("file", v.ConfigFileUsed()).Debug("Using config file")
	}
}
