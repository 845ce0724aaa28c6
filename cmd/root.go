package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/spf13/cobra"

	"github.com/portalbase/portal-api/internal/app"
	"github.com/portalbase/portal-api/internal/kafka"
	"github.com/portalbase/portal-api/internal/server"
)

var rootCmd = &cobra.Command{
	Use:           "portal-api",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			kafka.StartConsumer,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
