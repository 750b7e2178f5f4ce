package commands

import (
	"scrappey-go/lib/scrappey"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manages browser sessions, sessions that are not destroyed expire on their own.",
}

var createOpts scrappey.CreateSessionOptions

var sessionCreateCmd = &cobra.Command{
	Use:   "create [--proxy <url> | --proxy-country <country>]",
	Short: "Creates a session and prints its id.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.CreateSession(cmd.Context(), createOpts)
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), res, outputTable)
	},
}

var sessionDestroyCmd = &cobra.Command{
	Use:   "destroy <session>",
	Short: "Destroys a session.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.DestroySession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), res, outputTable)
	},
}

func init() {
	sessionCreateCmd.Flags().StringVar(&createOpts.Session, "session", "", "Id to give the new session.")
	sessionCreateCmd.Flags().StringVar(&createOpts.Proxy, "proxy", "", "Proxy url (socks4://, socks5://, http:// or https://).")
	sessionCreateCmd.Flags().StringVar(&createOpts.ProxyCountry, "proxy-country", "", "Proxy country, ignored when --proxy is given.")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionDestroyCmd)
	rootCmd.AddCommand(sessionCmd)
}
