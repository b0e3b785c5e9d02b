package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weedbox/pokerdojo/config"
	"github.com/weedbox/pokerdojo/model"
	"github.com/weedbox/pokerdojo/store"
)

func newHistoryCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "List the archived hands of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.ArchiveDSN == "" {
				return fmt.Errorf("history requires %sARCHIVE_DSN", config.EnvPrefix)
			}

			archive, err := store.OpenArchive(cfg.ArchiveDSN)
			if err != nil {
				return err
			}
			defer archive.Close()

			entries, err := archive.ListSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "#%d\t%s\tpot %s\trake %s\t%s\n",
					e.HandNumber, e.HandID, model.FormatMoney(e.Pot), model.FormatMoney(e.Rake), e.Path)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no hands recorded")
			}
			return nil
		},
	}
	return cmd
}
