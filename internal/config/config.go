package config

// Config is the process-wide configuration, loaded once at startup and
// passed explicitly into constructors so tests can run with fixed secrets
// and clocks.
type Config interface {
	EnvConfig
	AuthConfig
}

type mainConfig struct {
	EnvVars
	Auth
}

// New returns the environment-backed configuration.
func New() Config {
	return mainConfig{}
}
