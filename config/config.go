// Package config loads typed configuration structs from the environment
// using envconfig struct tags.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// New populates a fresh T from environment variables carrying the given
// prefix. Field mapping, defaults and required markers come from envconfig
// struct tags on T.
func New[T any](prefix string) (*T, error) {
	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// MustNew is New that panics on error. Intended for process startup where a
// missing required variable should abort immediately.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}
