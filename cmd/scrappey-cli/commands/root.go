package commands

import (
	"context"
	"fmt"
	"log/slog"

	"scrappey-go/lib/scrappey"
	"scrappey-go/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	client *scrappey.Client
	tel    telemetry.Telemetry

	configPath  string
	verbose     bool
	outputTable bool
)

var rootCmd = &cobra.Command{
	Use:   "scrappey-cli",
	Short: "scrappey-cli sends requests through the scrappey.com scraping API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var err error
		tel, _, err = telemetry.SetupFromEnv(cmd.Context(), "scrappey-cli")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		v, err := newViper(configPath, cmd.Root().PersistentFlags())
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		client, err = scrappey.NewClient(clientOptions(v))
		if err != nil {
			return err
		}
		slog.DebugContext(cmd.Context(), "client initialized", "base_url", v.GetString(keyBaseUrl))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "scrappey.json5", "Config file, <name>.local.json5 next to it overrides its fields.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enables debug logging, including full HTTP messages.")
	flags.BoolVar(&outputTable, "table", false, "Prints the top level fields of the response as a table instead of JSON.")
	flags.String(keyApiKey, "", "scrappey.com API key (env SCRAPPEY_API_KEY).")
	flags.String(keyBaseUrl, scrappey.DefaultBaseUrl, "scrappey.com API url (env SCRAPPEY_BASE_URL).")
	flags.Bool(keyDisableVerboseErrors, false, "Suppresses warnings about deprecated or conflicting options.")
	flags.Duration(keyTimeout, scrappey.DefaultTimeout, "Timeout of a single request.")
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
