package cli

import (
	"time"

	"github.com/spf13/cobra"

	"terraview/internal/errors"
)

// statusCommand creates the "status" command.
func (c *CLI) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the noise service is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, store := c.newClient(ctx)
			defer store.Close()

			printInfo("Probing %s", client.Endpoint())
			elapsed, err := client.Ping(ctx)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			printSuccess("Service is up")
			printKeyValue("latency", elapsed.Round(time.Microsecond).String())
			printKeyValue("cache", c.cfg.Cache.Backend)
			return nil
		},
	}
}
