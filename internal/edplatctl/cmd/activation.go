package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/util"
)

func newActivationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activation",
		Aliases: []string{"act"},
		Short:   "Redeem codes and inspect activations",
		Long: `An activation grants one user access to one video for seven days. It is
created by redeeming an unused access code.

` + keyHelp,
	}

	cmd.AddCommand(
		newActivateCmd(),
		newDeactivateCmd(),
		newActivationListCmd(),
		newValidateCmd(),
		newWatchCmd(),
	)
	return cmd
}

func newActivateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "activate KEY CODE",
		Short:   "Redeem an access code for a video",
		Example: `  edplatctl activation activate G10/L2/u3/S1 4f1c2a9e-...`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			act, err := c.Activate(cmd.Context(), key, args[1])
			if err != nil {
				return fmt.Errorf("activation failed: %w", err)
			}

			if output == "json" {
				return util.PrintJSON(cmd.OutOrStdout(), act)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video activated until %s\n", act.ExpiresAt.Local().Format(time.RFC1123))
			if act.Video != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n", act.Video.Title, act.Video.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json)")
	return cmd
}

func newDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate KEY",
		Short: "Revoke your activation for a video",
		Long:  "Revoke your activation for a video. The code it was created with stays used.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			msg, err := c.Deactivate(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("deactivation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newActivationListCmd() *cobra.Command {
	var (
		all    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your live activations",
		Example: `  # Your activations
  edplatctl activation list

  # Every stored activation (admin)
  edplatctl activation list --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			var acts []v1alpha1.Activation
			if all {
				acts, err = c.ListActivations(cmd.Context())
			} else {
				acts, err = c.ListMyActivations(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("error listing activations: %w", err)
			}

			if output == "json" {
				return util.PrintJSON(cmd.OutOrStdout(), acts)
			}

			tw := util.NewTabWriter(cmd.OutOrStdout())
			defer tw.Flush()

			now := time.Now()
			fmt.Fprintf(tw, "VIDEO\tUSER\tACTIVATED\tREMAINING\n")
			for _, a := range acts {
				video := "-"
				if a.Video != nil {
					video = keyPath(a.Video.Key)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					video,
					a.User.ID,
					a.ActivatedAt.Local().Format("2006-01-02 15:04"),
					util.FormatRemaining(a.ExpiresAt, now))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every user's activations (admin)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "validate CODE",
		Short: "Show who redeemed a code and for which video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			res, err := c.ValidateCode(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if output == "json" {
				return util.PrintJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User:  %s\n", res.User.ID)
			if res.Video != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Video: %s (%s)\n", res.Video.Title, keyPath(res.Video.Key))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream activation events (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return c.WatchEvents(ctx, func(evt v1alpha1.Event) error {
				if debug {
					return util.PrintJSON(cmd.OutOrStdout(), evt)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s %s\n",
					evt.Timestamp.Local().Format(time.TimeOnly), evt.Type, evt.UserID, evt.VideoPath)
				return nil
			})
		},
	}
}
