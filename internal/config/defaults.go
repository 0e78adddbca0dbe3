package config

const (
	defaultCoordinatePolicy = "reject"
	defaultCoordinateBound  = 1.0
	defaultLFEDetection     = "fixed_index"
	defaultLFEPosition      = 4
	defaultLFELabel         = "lfe"
	defaultTicksPerSecond   = 1_000_000
	defaultTimeUnit         = "seconds"
	defaultSampleRate       = 48000
	defaultStorePath        = "lusid.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultConfigFileName   = "lusid.toml"
	defaultUserConfigPath   = "~/.config/lusid/config.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Parser: Parser{
			CoordinatePolicy: defaultCoordinatePolicy,
			CoordinateBound:  defaultCoordinateBound,
		},
		Converter: Converter{
			LFEDetection:      defaultLFEDetection,
			LFEPosition:       defaultLFEPosition,
			LFELabel:          defaultLFELabel,
			TicksPerSecond:    defaultTicksPerSecond,
			TimeUnit:          defaultTimeUnit,
			DefaultSampleRate: defaultSampleRate,
		},
		Store: Store{
			Path: defaultStorePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
