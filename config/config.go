package config

import (
	"amplify/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("AMPLIFY")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultApp(&config.App)
	return nil
}

func defaultApp(app *core.App) {
	if app.SecondsPerBlock <= 0 {
		app.SecondsPerBlock = 15
	}

	if app.Location == "" {
		app.Location = "UTC"
	}
}
