// Package config loads typed configuration structs from the environment.
//
// A .env file in the working directory is read once on first use; values
// already present in the environment win. Struct fields are described with
// caarlos0/env tags:
//
//	type Config struct {
//	    SessionValidity time.Duration `env:"SESSION_VALIDITY" envDefault:"720h"`
//	    CookieSecrets   []string      `env:"COOKIE_SECRETS,required" envSeparator:","`
//	}
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvLoaded sync.Once

// Load parses environment variables into v.
func Load[T any](v *T) error {
	return load(v, env.Options{})
}

// LoadWithPrefix parses environment variables into v, prepending prefix to
// every variable name. Useful when the same struct type is loaded for
// several instances, such as one OAuth config per provider.
func LoadWithPrefix[T any](v *T, prefix string) error {
	return load(v, env.Options{Prefix: prefix})
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func load[T any](v *T, opts env.Options) error {
	dotenvLoaded.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.ParseWithOptions(v, opts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}
