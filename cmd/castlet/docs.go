package main

import (
	"fmt"

	"github.com/castlet/castlet/internal/presentation/tui"
	"github.com/spf13/cobra"
)

const usageDoc = `# castlet

Castlet negotiates **presentation sessions**: one abstraction for
projecting content onto a second display, whatever the transport.

## How negotiation works

1. The controller tries the **cast transport** first: native runtime
   present, URL registered, at least one device reachable.
2. On any failure it falls back to the **window transport**: open a
   surface, run the token handshake, wait for readiness.
3. If both fail, the session facade stays *disconnected* forever;
   failure is observable only through state.

## Commands

| Command | Purpose |
| ------- | ------- |
| serve   | JSON API over HTTP (plus /metrics) |
| mcp     | Model Context Protocol server (stdio or SSE) |
| demo    | In-process controller/receiver round trip |

## Configuration

` + "```yaml" + `
log_level: info
http:
  addr: ":8420"
redis:
  addr: "localhost:6379"   # optional shared registry
applications:
  - url: "https://host/slides"
    launch_id: "APP-1"
` + "```" + `

Registrations matter only for the cast transport; unregistered URLs
fall through to the window transport automatically.
`

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Render the usage guide in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		render := tui.NewRenderer()
		out, err := render(usageDoc)
		if err != nil {
			fmt.Print(usageDoc + "\n")
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
