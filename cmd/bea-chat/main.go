package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bea-chatbot/internal/config"
	"bea-chatbot/internal/logging"
	"bea-chatbot/internal/tui"
	"bea-chatbot/internal/widget"
)

func main() {
	var (
		server  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "bea-chat",
		Short: "Chat with the BEA virtual assistant from the terminal",
		Long: `bea-chat opens the BEA chat widget in the terminal.

Press ctrl+t to open the popup, enter to send, esc to quit.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return fmt.Errorf("could not load configuration: %w", err)
			}
			if server != "" {
				cfg.Widget.AnswerServiceURL = server
			}

			var answers widget.AnswerClient
			if offline {
				answers = widget.NewStubAnswerClient()
			} else {
				answers = widget.NewHTTPAnswerClient(cfg.Widget.AnswerServiceURL, cfg.Widget.RequestTimeout)
			}

			// Logging to the terminal would corrupt the alt screen.
			c := widget.NewController(answers, widget.ControllerOptions{
				PlaceholderDelay: cfg.Widget.PlaceholderDelay,
				Logger:           logging.Discard(),
			})
			defer c.Close()

			return tui.Run(c)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "answer service base URL (default from ANSWER_SERVICE_URL)")
	cmd.Flags().BoolVar(&offline, "offline", false, "answer from a built-in list instead of the answer service")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
