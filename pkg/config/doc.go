// Package config loads configuration structs from .env files, environment
// variables and YAML files.
//
// It wraps `github.com/joho/godotenv`, `github.com/caarlos0/env/v11` and
// `gopkg.in/yaml.v3` behind three small helpers:
//
//   - LoadEnv reads one or more .env files into the process environment.
//   - Load parses the environment into any struct using `env` tags.
//   - LoadFile decodes a YAML file using `yaml` tags.
//
// The helpers compose: start from Go defaults, optionally overlay a YAML file,
// then overlay the environment. Load only touches fields whose variables are
// set (or that declare envDefault), so earlier layers survive.
//
// # Usage
//
//	type Settings struct {
//	    DontSwitchToSameState bool          `env:"DONT_SWITCH_TO_SAME_STATE" yaml:"dont_switch_to_same_state"`
//	    HookTimeout           time.Duration `env:"HOOK_TIMEOUT" yaml:"hook_timeout"`
//	}
//
//	s := Settings{HookTimeout: 5 * time.Second}
//	if err := config.LoadFile("machine.yaml", &s); err != nil && !errors.Is(err, config.ErrReadingFile) {
//	    return err
//	}
//	if err := config.Load(&s, config.WithPrefix("FSM_")); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Errors are joined with package sentinels and can be matched with errors.Is:
// ErrParsingConfig, ErrLoadingEnvFile, ErrReadingFile, ErrParsingFile and
// ErrNilPointer.
package config
