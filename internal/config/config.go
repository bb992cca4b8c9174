// Package config loads the interpreter-wide settings SPEC_FULL.md §1.1/§6
// describes: a lispy.yaml file layered with CLI flags via
// github.com/knadh/koanf/v2, the same file+posflag+yaml provider pairing
// the grounding corpus's go.mod commits to for configuration (holomush's
// own go.mod requires the full koanf/v2+file+posflag+yaml stack; this
// package is where that commitment gets a concrete call site).
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/lispy-lang/lispy/pkg/lispy/evaluator"
)

const (
	defaultModuleExtension = ".lpy"
	defaultHTTPTimeoutMs   = 30000
)

// Settings mirrors evaluator.Config with koanf struct tags, plus the
// path the interpreter was actually configured from (empty if no config
// file was found — SPEC_FULL.md §6 makes the file optional).
type Settings struct {
	ModulePaths     []string `koanf:"modulePaths"`
	ModuleExtension string   `koanf:"moduleExtension"`
	HTTPTimeoutMs   int      `koanf:"httpTimeoutMs"`
	PromiseWorkers  int      `koanf:"promiseWorkers"`
	ConfigFile      string   `koanf:"-"`
}

// Load builds Settings from, in increasing priority: the package
// defaults, the YAML file at configPath, then any flags set on fs. An
// empty configPath skips the file layer entirely (lispy.yaml is optional
// per SPEC_FULL.md §6); a non-empty configPath that cannot be read is an
// error.
func Load(configPath string, fs *pflag.FlagSet) (Settings, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"moduleExtension": defaultModuleExtension,
		"httpTimeoutMs":   defaultHTTPTimeoutMs,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Settings{}, fmt.Errorf("loading config defaults: %w", err)
	}

	loadedFrom := ""
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
		loadedFrom = configPath
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Settings{}, fmt.Errorf("applying flag overrides: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	s.ConfigFile = loadedFrom
	return s, nil
}

// ToEvaluatorConfig converts Settings into the evaluator.Config the
// interpreter core actually consumes, falling back to
// evaluator.DefaultConfig's PromiseWorkers when the config file and
// flags leave it at its zero value.
func (s Settings) ToEvaluatorConfig() evaluator.Config {
	cfg := evaluator.Config{
		ModulePaths:     s.ModulePaths,
		ModuleExtension: s.ModuleExtension,
		HTTPTimeoutMs:   s.HTTPTimeoutMs,
		PromiseWorkers:  s.PromiseWorkers,
	}
	if cfg.ModuleExtension == "" {
		cfg.ModuleExtension = defaultModuleExtension
	}
	if cfg.HTTPTimeoutMs == 0 {
		cfg.HTTPTimeoutMs = defaultHTTPTimeoutMs
	}
	if cfg.PromiseWorkers == 0 {
		cfg.PromiseWorkers = evaluator.DefaultConfig().PromiseWorkers
	}
	return cfg
}
