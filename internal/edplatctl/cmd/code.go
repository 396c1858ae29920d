package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/util"
)

func newCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Manage access codes",
		Long: `Access codes are single-use tokens. Each one can be redeemed once, by one
user, for a seven day activation of one video. Requires an admin token.`,
	}

	cmd.AddCommand(newCodeGenerateCmd(), newCodeListCmd())
	return cmd
}

func newCodeGenerateCmd() *cobra.Command {
	var (
		count  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate new access codes",
		Example: `  # Generate one code
  edplatctl code generate

  # Generate a batch for distribution
  edplatctl code generate --count=20 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			tw := util.NewTabWriter(cmd.OutOrStdout())
			defer tw.Flush()
			if output != "json" {
				fmt.Fprintf(tw, "CODE\tEXPIRES\n")
			}

			for i := 0; i < count; i++ {
				code, err := c.GenerateCode(cmd.Context())
				if err != nil {
					return fmt.Errorf("error generating code: %w", err)
				}
				if output == "json" {
					if err := util.PrintJSON(cmd.OutOrStdout(), code); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", code.Code, util.FormatOptionalTime(code.ExpiresAt))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of codes to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}

func newCodeListCmd() *cobra.Command {
	var (
		output     string
		unusedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List access codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			codes, err := c.ListCodes(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing codes: %w", err)
			}

			if output == "json" {
				return util.PrintJSON(cmd.OutOrStdout(), codes)
			}

			tw := util.NewTabWriter(cmd.OutOrStdout())
			defer tw.Flush()

			fmt.Fprintf(tw, "CODE\tUSED\tEXPIRES\tCREATED\n")
			for _, code := range codes {
				if unusedOnly && code.Used {
					continue
				}
				fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n",
					code.Code,
					code.Used,
					util.FormatOptionalTime(code.ExpiresAt),
					code.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	cmd.Flags().BoolVar(&unusedOnly, "unused", false, "Only show codes that have not been redeemed")
	return cmd
}
