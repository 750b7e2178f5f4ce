package commands

import (
	"fmt"
	"os"

	"scrappey-go/lib/scrappey"

	"github.com/spf13/cobra"
	"github.com/titanous/json5"
)

type requestFlags struct {
	session      string
	proxy        string
	proxyCountry string
	headers      map[string]string
	properties   string
	optionsFile  string
}

var (
	getFlags  requestFlags
	postFlags requestFlags
	postData  string
)

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.session, "session", "", "Session to send the request in.")
	flags.StringVar(&f.proxy, "proxy", "", "Proxy url (socks4://, socks5://, http:// or https://).")
	flags.StringVar(&f.proxyCountry, "proxy-country", "", "Proxy country, ignored when --proxy is given.")
	flags.StringToStringVarP(&f.headers, "header", "H", nil, "Custom header as name=value, can be repeated.")
	flags.StringVar(&f.properties, "autoparse", "", "Enables autoparse with the given properties.")
	flags.StringVar(
		&f.optionsFile, "options", "",
		"json5 file with raw request options, the url argument and other flags are merged on top of it.",
	)
}

// options builds the raw options of a request, starting from the options
// file if there is one.
func (f *requestFlags) options(url string) (scrappey.Options, error) {
	opts := scrappey.Options{}
	if f.optionsFile != "" {
		contents, err := os.ReadFile(f.optionsFile)
		if err != nil {
			return nil, err
		}
		err = json5.Unmarshal(contents, &opts)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.optionsFile, err)
		}
	}

	typed := scrappey.RequestOptions{
		Url:          url,
		Session:      f.session,
		Proxy:        f.proxy,
		ProxyCountry: f.proxyCountry,
	}
	if len(f.headers) > 0 {
		typed.CustomHeaders = f.headers
	}
	if f.properties != "" {
		autoparse := true
		typed.Autoparse = &autoparse
		typed.Properties = &f.properties
	}
	for k, v := range typed.Options() {
		opts[k] = v
	}
	return opts, nil
}

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Fetches a page through scrappey.com.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := getFlags.options(args[0])
		if err != nil {
			return err
		}
		res, err := client.GetRequestRaw(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), res, outputTable)
	},
}

var postCmd = &cobra.Command{
	Use:   "post <url> --data <json or form data>",
	Short: "Posts data to a page through scrappey.com.",
	Long: "Posts data to a page through scrappey.com. The data must be JSON or " +
		"application/x-www-form-urlencoded, pass --data '' to send no body.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := postFlags.options(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("data") {
			opts[scrappey.FieldPostData] = postData
		}
		res, err := client.PostRequestRaw(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), res, outputTable)
	},
}

func init() {
	getFlags.register(getCmd)
	postFlags.register(postCmd)
	postCmd.Flags().StringVarP(&postData, "data", "d", "", "Request body.")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
}
