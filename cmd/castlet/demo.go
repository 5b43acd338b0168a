package main

import (
	"fmt"
	"os"
	"time"

	"github.com/castlet/castlet/internal/cli"
	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/internal/presentation/tui"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo [url]",
	Short: "Run a controller/receiver round trip in-process",
	Long: `Negotiates a presentation session against an in-process receiver and
drives it with the standard slide-show commands. Useful to see the
negotiation, handshake and command flow end to end without a real
second display.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		url := "https://example.com/slides"
		if len(args) > 0 {
			url = args[0]
		}

		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(cfg.SlogLevel())

		ctrl, err := cli.NewController(cmd.Context(), cfg, logger, nil)
		if err != nil {
			fmt.Printf("Error initializing castlet: %v\n", err)
			os.Exit(1)
		}

		tui.PrintBanner()
		fmt.Printf("Negotiating a session for %s ...\n", url)

		sess := ctrl.RequestSession(cmd.Context(), url)

		deadline := time.Now().Add(5 * time.Second)
		for sess.State() != domain.StateConnected {
			if time.Now().After(deadline) {
				fmt.Println("Negotiation did not complete; the facade stays disconnected.")
				os.Exit(1)
			}
			time.Sleep(20 * time.Millisecond)
		}
		fmt.Println("Session connected. Driving the receiver:")

		for _, payload := range []string{
			`{"cmd":"navigate-next"}`,
			`{"cmd":"navigate-next"}`,
			`{"cmd":"navigate-previous"}`,
			`{"cmd":"resize","params":[1280,720]}`,
			`{"cmd":"open","url":"` + url + `#2"}`,
		} {
			sess.PostMessage([]byte(payload))
		}

		// Let the receiver's event loop drain before closing.
		time.Sleep(200 * time.Millisecond)
		sess.Close()
		fmt.Println("Session closed.")
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
