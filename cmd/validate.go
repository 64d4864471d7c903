package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/musichub/internal/presentation"
)

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate RAW...",
		Short: "Normalize and validate ISRCs without contacting the backend",
		Long: `Normalize each argument (strip separators, uppercase) and check it against
the ISRC shape: two letters, three alphanumerics, seven digits.

Exits non-zero when any input is invalid.

Examples:
  musichub validate fr-la1-24-00001
  musichub validate FRLA12400001 GBUM71029604 --json`,
		Args: cobra.MinimumNArgs(1),
		// Validation is offline; skip config and client setup.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			dtos := presentation.FromInputs(args)
			if err := presentation.NewFormatter(cmd.OutOrStdout(), asJSON).FormatValidations(dtos); err != nil {
				return err
			}
			invalid := 0
			for _, d := range dtos {
				if !d.Valid {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d inputs are not valid ISRCs", invalid, len(dtos))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
