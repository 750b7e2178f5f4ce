package commands

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"scrappey-go/lib/configutil"
	"scrappey-go/lib/scrappey"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the contents of scrappey.json5, flags and SCRAPPEY_* environment
// variables take precedence over it.
type Config struct {
	ApiKey               string `json:"api_key"`
	BaseUrl              string `json:"base_url"`
	DisableVerboseErrors bool   `json:"disable_verbose_errors"`
	TimeoutSeconds       int    `json:"timeout_seconds"`
}

const (
	keyApiKey               = "api-key"
	keyBaseUrl              = "base-url"
	keyDisableVerboseErrors = "disable-verbose-errors"
	keyTimeout              = "timeout"
)

func newViper(configPath string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("scrappey")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyBaseUrl, scrappey.DefaultBaseUrl)
	v.SetDefault(keyTimeout, scrappey.DefaultTimeout)

	c, err := configutil.ReadConfig[Config](configPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if c.ApiKey != "" {
		v.SetDefault(keyApiKey, c.ApiKey)
	}
	if c.BaseUrl != "" {
		v.SetDefault(keyBaseUrl, c.BaseUrl)
	}
	if c.DisableVerboseErrors {
		v.SetDefault(keyDisableVerboseErrors, true)
	}
	if c.TimeoutSeconds > 0 {
		v.SetDefault(keyTimeout, time.Duration(c.TimeoutSeconds)*time.Second)
	}

	for _, key := range []string{keyApiKey, keyBaseUrl, keyDisableVerboseErrors, keyTimeout} {
		err = v.BindPFlag(key, flags.Lookup(key))
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

func clientOptions(v *viper.Viper) scrappey.ClientOptions {
	return scrappey.ClientOptions{
		ApiKey:               v.GetString(keyApiKey),
		BaseUrl:              v.GetString(keyBaseUrl),
		DisableVerboseErrors: v.GetBool(keyDisableVerboseErrors),
		Timeout:              v.GetDuration(keyTimeout),
	}
}
