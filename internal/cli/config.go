package cli

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config struct {
	APIURL     string
	SessionDir string
}

// LoadConfig reads .staybookctl.yaml from $STAYBOOK_CONFIG_PATH, the home
// directory or the working directory, then STAYBOOK_* environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("session_dir", "~/.staybook")
	v.SetConfigName(".staybookctl") // .yaml is implicit
	v.SetEnvPrefix("STAYBOOK")
	v.AutomaticEnv()

	if override := os.Getenv("STAYBOOK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}
	return Config{APIURL: v.GetString("api_url"), SessionDir: v.GetString("session_dir")}, nil
}
