package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leaflet/internal/model"
	"leaflet/internal/syncclient"
)

var (
	keepLocal     bool
	dropLocal     bool
	watchInterval time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay unsynced changes against the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := syncer.Reconcile(cmd.Context())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Synced %d, conflicts %d, still pending %d\n", res.Synced, res.Conflicts, res.Remaining)
		if syncclient.IsUnreachable(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), "server unreachable; pending changes kept locally")
			return nil
		}
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep reconciling in the foreground until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := reconcileInterval
		if watchInterval > 0 {
			interval = watchInterval
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "watching every %s, Ctrl-C to stop\n", interval)
		return syncer.Run(cmd.Context(), interval)
	},
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "List tasks the server no longer has",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var tasks []model.Task
		states := map[string]syncclient.SyncState{}
		for _, e := range syncer.Entries() {
			if e.State == syncclient.StateConflict {
				tasks = append(tasks, e.Task)
				states[e.Task.ID] = e.State
			}
		}
		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No conflicts.")
			return nil
		}
		printTasks(cmd.OutOrStdout(), tasks, states)
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve ID",
	Short: "Keep a conflicting task (re-create it) or drop it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if keepLocal == dropLocal {
			return fmt.Errorf("pass exactly one of --keep-local or --drop")
		}
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		if err := syncer.ResolveConflict(cmd.Context(), id, keepLocal); err != nil {
			return err
		}
		if keepLocal {
			fmt.Fprintf(cmd.OutOrStdout(), "Kept %s\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", id)
		}
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := syncer.SetTheme(cmd.Context(), model.Theme(args[0])); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), syncer.Theme())
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "time between passes (default client.reconcile_interval)")

	resolveCmd.Flags().BoolVar(&keepLocal, "keep-local", false, "re-create the task on the server")
	resolveCmd.Flags().BoolVar(&dropLocal, "drop", false, "discard the local copy")
	conflictsCmd.AddCommand(resolveCmd)

	rootCmd.AddCommand(syncCmd, watchCmd, conflictsCmd, themeCmd)
}
