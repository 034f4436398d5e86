// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📂 Files holds the ordered glob lists for each asset kind. A leading "!"
// excludes whatever earlier patterns matched.
type Files struct {
	Scripts   []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Styles    []string `json:"styles,omitempty" yaml:"styles,omitempty"`
	LibCSS    []string `json:"lib_css,omitempty" yaml:"lib_css,omitempty"`
	Templates []string `json:"templates,omitempty" yaml:"templates,omitempty"`
}

// 🥾 BootstrapArgs configures the custom bootstrap build
type BootstrapArgs struct {
	Main   string `json:"main" yaml:"main"`                         // bootstrap's main scss file
	Output string `json:"output,omitempty" yaml:"output,omitempty"` // compiled css destination
}

// 🎨 StylesArgs configures stylesheet compilation
type StylesArgs struct {
	Variables    string         `json:"variables,omitempty" yaml:"variables,omitempty"`         // glob of shared variable files
	Compiler     []string       `json:"compiler,omitempty" yaml:"compiler,omitempty"`           // compiler command and leading args
	IncludePaths []string       `json:"include_paths,omitempty" yaml:"include_paths,omitempty"` // compiler load paths
	Prefix       *bool          `json:"prefix,omitempty" yaml:"prefix,omitempty"`               // add vendor prefixes
	Bootstrap    *BootstrapArgs `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
}

// 🌐 ServerArgs configures the dev servers
type ServerArgs struct {
	Port           int   `json:"port,omitempty" yaml:"port,omitempty"`
	LiveReloadPort int   `json:"livereload_port,omitempty" yaml:"livereload_port,omitempty"`
	Hidden         *bool `json:"hidden,omitempty" yaml:"hidden,omitempty"` // serve dotfiles
}

// 👀 WatchArgs configures file watching
type WatchArgs struct {
	Debounce       string   `json:"debounce,omitempty" yaml:"debounce,omitempty"`
	StructureGlobs []string `json:"structure_globs,omitempty" yaml:"structure_globs,omitempty"` // adds or removes here stop the dev task
	Ignore         []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`                   // never reported by the watcher
}

// 📦 BuildArgs configures the production build
type BuildArgs struct {
	Scripts    []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	OutputDir  string   `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Bundle     string   `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Suffix     string   `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	CleanDir   string   `json:"clean_dir,omitempty" yaml:"clean_dir,omitempty"`
	AssetsSrc  string   `json:"assets_src,omitempty" yaml:"assets_src,omitempty"`
	AssetsDest string   `json:"assets_dest,omitempty" yaml:"assets_dest,omitempty"`
}

// 🧹 LintArgs configures the pre-commit check
type LintArgs struct {
	Files   []string `json:"files,omitempty" yaml:"files,omitempty"`
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root         string                 `json:"root,omitempty" yaml:"root,omitempty"`   // served directory, stripped from injected paths
	Index        string                 `json:"index,omitempty" yaml:"index,omitempty"` // html entry point
	Files        Files                  `json:"files" yaml:"files"`
	Styles       StylesArgs             `json:"styles" yaml:"styles"`
	Server       ServerArgs             `json:"server" yaml:"server"`
	Watch        WatchArgs              `json:"watch" yaml:"watch"`
	Build        BuildArgs              `json:"build" yaml:"build"`
	Lint         LintArgs               `json:"lint" yaml:"lint"`
	Replacements []text.ReplacementRule `json:"replacements,omitempty" yaml:"replacements,omitempty"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 📍 Dir is the directory the config was loaded from; globs are relative to it
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		cfg.Root = "src"
	}
	cfg.Root = filepath.ToSlash(filepath.Clean(cfg.Root))
	if cfg.Index == "" {
		cfg.Index = cfg.Root + "/index.html"
	}

	if len(cfg.Files.Scripts) == 0 {
		cfg.Files.Scripts = []string{
			cfg.Root + "/common/libs/**/*.js",
			cfg.Root + "/app.js",
			cfg.Root + "/common/**/*.js",
			cfg.Root + "/components/**/*.js",
			cfg.Root + "/pages/**/*.js",
			"!" + cfg.Root + "/**/*.spec.js",
		}
	}
	if len(cfg.Files.Styles) == 0 {
		cfg.Files.Styles = []string{
			cfg.Root + "/common/**/*.scss",
			cfg.Root + "/components/**/*.scss",
			cfg.Root + "/pages/**/*.scss",
			"!" + cfg.Root + "/common/styleVariables/*.scss",
		}
	}
	if len(cfg.Files.LibCSS) == 0 {
		cfg.Files.LibCSS = []string{cfg.Root + "/common/libs/**/*.css"}
	}
	if len(cfg.Files.Templates) == 0 {
		cfg.Files.Templates = []string{
			cfg.Root + "/common/**/*.md",
			cfg.Root + "/components/**/*.md",
			cfg.Root + "/pages/**/*.md",
		}
	}

	if cfg.Styles.Variables == "" {
		cfg.Styles.Variables = cfg.Root + "/common/styleVariables/*.scss"
	}
	if len(cfg.Styles.Compiler) == 0 {
		cfg.Styles.Compiler = []string{"sass"}
	}
	if len(cfg.Styles.IncludePaths) == 0 {
		cfg.Styles.IncludePaths = []string{filepath.ToSlash(filepath.Dir(cfg.Styles.Variables))}
	}
	if cfg.Styles.Prefix == nil {
		cfg.Styles.Prefix = boolPtr(true)
	}
	if cfg.Styles.Bootstrap != nil {
		if cfg.Styles.Bootstrap.Main == "" {
			return errors.Errorf("styles.bootstrap.main is required")
		}
		if cfg.Styles.Bootstrap.Output == "" {
			cfg.Styles.Bootstrap.Output = cfg.Root + "/common/libs/bootstrap-build.css"
		}
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LiveReloadPort == 0 {
		cfg.Server.LiveReloadPort = 35729
	}
	if cfg.Server.Port == cfg.Server.LiveReloadPort {
		return errors.Errorf("server.port and server.livereload_port must differ")
	}
	if cfg.Server.Hidden == nil {
		cfg.Server.Hidden = boolPtr(true)
	}

	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "100ms"
	}
	if _, err := time.ParseDuration(cfg.Watch.Debounce); err != nil {
		return errors.Errorf("watch.debounce: %w", err)
	}
	if len(cfg.Watch.StructureGlobs) == 0 {
		cfg.Watch.StructureGlobs = []string{
			cfg.Root + "/**",
			"!" + cfg.Root + "/vendor/**",
			"!" + cfg.Root + "/e2e/**",
		}
	}

	if len(cfg.Build.Scripts) == 0 {
		cfg.Build.Scripts = []string{cfg.Root + "/js/*.js"}
	}
	if cfg.Build.OutputDir == "" {
		cfg.Build.OutputDir = "build/js"
	}
	if cfg.Build.Bundle == "" {
		cfg.Build.Bundle = "main.js"
	}
	if cfg.Build.Suffix == "" {
		cfg.Build.Suffix = ".min"
	}
	if cfg.Build.CleanDir == "" {
		cfg.Build.CleanDir = "../dist"
	}
	if cfg.Build.AssetsSrc == "" {
		cfg.Build.AssetsSrc = "../src/assets"
	}
	if cfg.Build.AssetsDest == "" {
		cfg.Build.AssetsDest = "../dist/assets"
	}

	if len(cfg.Lint.Files) == 0 {
		cfg.Lint.Files = []string{"app/scripts/**/*.js"}
	}
	if len(cfg.Lint.Command) == 0 {
		cfg.Lint.Command = []string{"jshint", "--config", "config/jshint.json"}
	}

	if err := text.NewQuoteAwareReplacer().ValidateRules(cfg.Replacements); err != nil {
		return errors.Errorf("replacements: %w", err)
	}

	return nil
}

// ⏱️ DebounceDuration returns the parsed watch debounce
func (cfg *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (index %s, :%d, livereload :%d)", cfg.Root, cfg.Index, cfg.Server.Port, cfg.Server.LiveReloadPort)
}

func boolPtr(b bool) *bool {
	return &b
}
