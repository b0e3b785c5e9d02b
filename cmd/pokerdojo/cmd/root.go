package cmd

import (
	"github.com/spf13/cobra"
	"github.com/weedbox/pokerdojo"
	"github.com/weedbox/pokerdojo/config"
	"github.com/weedbox/pokerdojo/ledger"
)

// NewRootCmd creates the pokerdojo command tree. It is called once in main.
func NewRootCmd() *cobra.Command {
	var envFiles []string

	rootCmd := &cobra.Command{
		Use:           "pokerdojo",
		Short:         "Heads-up poker practice server",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before the environment")

	load := func() (config.Config, error) {
		return config.Load(envFiles...)
	}

	rootCmd.AddCommand(
		newServeCmd(load),
		newHistoryCmd(load),
	)
	return rootCmd
}

type configLoader func() (config.Config, error)

func sessionSetting(cfg config.Config) pokerdojo.SessionSetting {
	return pokerdojo.SessionSetting{
		TableName:     cfg.TableName,
		MaxSeats:      cfg.MaxSeats,
		MinPlayers:    cfg.MinPlayers,
		SmallBlind:    cfg.SmallBlind,
		BigBlind:      cfg.BigBlind,
		StartingStack: cfg.StartingStack,
		Rake: ledger.RakeRule{
			Percent:      cfg.RakePercent,
			Cap:          cfg.RakeCap,
			NoFlopNoDrop: cfg.RakeNoFlopNoDrop,
		},
	}
}

func sessionEngineOptions(cfg config.Config) *pokerdojo.SessionEngineOptions {
	options := pokerdojo.NewSessionEngineOptions()
	options.ActionTimeout = cfg.ActionTimeout
	options.DisconnectGrace = cfg.DisconnectGrace
	options.ReadyTimeout = cfg.ReadyTimeout
	options.QueueSize = cfg.ActionQueueSize
	return options
}
