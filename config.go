package tessera

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// WorldConfig is loaded from the environment when a world is created.
// WorldOptions take precedence over these values.
type WorldConfig struct {
	LogLevel      string `config:"TESSERA_LOG_LEVEL"`
	StatsdAddress string `config:"TESSERA_STATSD_ADDRESS"`
	StrictRestore bool   `config:"TESSERA_STRICT_RESTORE"`
}

func loadWorldConfig() (WorldConfig, error) {
	cfg := WorldConfig{
		LogLevel: "info",
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load world config from environment")
	}
	return cfg, nil
}
