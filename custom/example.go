// Package custom is the extension point for site-specific code. Anything
// registered here is picked up by the server, the CLI and the cron runner
// without touching core packages. This file doubles as a working example.
package custom

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"stockops.GO/api"
	"stockops.GO/cmd"
	"stockops.GO/cron"
	gqlregistry "stockops.GO/graphql/registry"
)

func init() {
	// GraphQL extension, callable via _extension(name: "ping")
	gqlregistry.Register("ping", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]string{"pong": "ok"}, nil
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "custom:hello",
		Short: "Custom command example",
		Run: func(c *cobra.Command, args []string) {
			fmt.Println("Hello from custom command")
		},
	})

	// Cron job, runnable ad hoc with cron:start --job customping
	cron.Register("customping", "@every 1m", func(args ...string) {
		fmt.Println("Custom cron: ping at", args)
	})

	// HTTP route, registered outside the authenticated /api group
	api.RegisterGET("/custom/ping", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"pong": "ok"})
	})
}
