/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package workspace binds the persistent CLI flags and environment to a
// loaded learnjq workspace.
package workspace

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bennypowers.dev/learnjq/load"
)

// EnvPrefix prefixes every environment variable, e.g. LEARNJQ_LOG_LEVEL.
const EnvPrefix = "LEARNJQ"

// Setting keys.
const (
	KeyRoot     = "root"
	KeyLang     = "lang"
	KeyLogLevel = "log-level"
	KeyEngine   = "engine"
	KeyAddr     = "addr"
	KeyDebounce = "debounce"
)

var v = newViper()

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// PersistentFlags registers the flags shared by every command.
func PersistentFlags(flags *pflag.FlagSet) {
	flags.String(KeyRoot, ".", "Workspace directory containing .config/learn-jq.yaml")
	flags.String(KeyLang, "", "UI language (ja, en)")
	flags.String(KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.String(KeyEngine, "", "jq engine (gojq, jq)")
	for _, key := range []string{KeyRoot, KeyLang, KeyLogLevel, KeyEngine} {
		Bind(key, flags.Lookup(key))
	}
}

// Bind makes flag the command-line source of key.
func Bind(key string, flag *pflag.Flag) {
	_ = v.BindPFlag(key, flag)
}

// String returns the flag, environment, or default value of key.
func String(key string) string {
	return v.GetString(key)
}

// IsSet reports whether key was given on the command line or in the environment.
func IsSet(key string) bool {
	return v.IsSet(key)
}

// Load loads the workspace selected by the root, lang, and engine settings.
func Load(ctx context.Context) (*load.Workspace, error) {
	return load.Load(ctx, load.Options{
		Root:   String(KeyRoot),
		Lang:   String(KeyLang),
		Engine: String(KeyEngine),
	})
}

// Addr returns the listen address: flag or environment, then config.
func Addr(ws *load.Workspace) string {
	if IsSet(KeyAddr) {
		return String(KeyAddr)
	}
	return ws.Config.Addr
}

// Debounce returns the evaluation delay: flag or environment, then config.
func Debounce(ws *load.Workspace) time.Duration {
	if IsSet(KeyDebounce) {
		return v.GetDuration(KeyDebounce)
	}
	return ws.Config.DebounceDuration()
}
