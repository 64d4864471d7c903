package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/presentation"
	"github.com/zjrosen/musichub/internal/submission"
	"github.com/zjrosen/musichub/internal/ui/isrcform"
)

func newRegisterCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "register RAW",
		Short: "Submit one ISRC for registration",
		Long: `Submit an ISRC to the backend and print the outcome.

The input is normalized first; invalid input is rejected without a request.
Exits non-zero when the backend does not accept the registration.

Examples:
  musichub register GB-UM7-10-29604
  musichub register fr-la1-24-00001 --api-url http://localhost:8080 --json`,
		Args: cobra.ExactArgs(1),
		RunE: e.closing(func(cmd *cobra.Command, args []string) error {
			queue := notify.NewQueue(notify.WithDefaultDuration(e.cfg.Notifications.DefaultDuration))
			defer queue.Close()

			ctrl := submission.New(e.client, queue)
			ctrl.SetInput(args[0])

			out, ok := ctrl.Submit(cmd.Context())
			if !ok {
				return errors.New(isrcform.InvalidHint)
			}
			if err := presentation.NewFormatter(cmd.OutOrStdout(), asJSON).FormatOutcome(presentation.FromOutcome(out)); err != nil {
				return err
			}
			if out.State == submission.Failed {
				return fmt.Errorf("registration of %s failed: %s", out.Code, out.Inline)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
