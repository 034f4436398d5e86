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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/assetrc/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "assetrc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	root, err := hclRoot(hclFile.Body)
	if err != nil {
		return nil, err
	}

	// root is exposed so blocks can build paths like "${root}/app.js"
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"root": cty.StringVal(root),
		},
	}

	type hclConfig struct {
		Root  string `hcl:"root,optional"`
		Index string `hcl:"index,optional"`
		Files *struct {
			Scripts   []string `hcl:"scripts,optional"`
			Styles    []string `hcl:"styles,optional"`
			LibCSS    []string `hcl:"lib_css,optional"`
			Templates []string `hcl:"templates,optional"`
		} `hcl:"files,block"`
		Styles *struct {
			Variables    string   `hcl:"variables,optional"`
			Compiler     []string `hcl:"compiler,optional"`
			IncludePaths []string `hcl:"include_paths,optional"`
			Prefix       *bool    `hcl:"prefix,optional"`
			Bootstrap    *struct {
				Main   string `hcl:"main"`
				Output string `hcl:"output,optional"`
			} `hcl:"bootstrap,block"`
		} `hcl:"styles,block"`
		Server *struct {
			Port           int   `hcl:"port,optional"`
			LiveReloadPort int   `hcl:"livereload_port,optional"`
			Hidden         *bool `hcl:"hidden,optional"`
		} `hcl:"server,block"`
		Watch *struct {
			Debounce       string   `hcl:"debounce,optional"`
			StructureGlobs []string `hcl:"structure_globs,optional"`
			Ignore         []string `hcl:"ignore,optional"`
		} `hcl:"watch,block"`
		Build *struct {
			Scripts    []string `hcl:"scripts,optional"`
			OutputDir  string   `hcl:"output_dir,optional"`
			Bundle     string   `hcl:"bundle,optional"`
			Suffix     string   `hcl:"suffix,optional"`
			CleanDir   string   `hcl:"clean_dir,optional"`
			AssetsSrc  string   `hcl:"assets_src,optional"`
			AssetsDest string   `hcl:"assets_dest,optional"`
		} `hcl:"build,block"`
		Lint *struct {
			Files   []string `hcl:"files,optional"`
			Command []string `hcl:"command,optional"`
		} `hcl:"lint,block"`
		Replacements []text.ReplacementRule `hcl:"replacement,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:         hclCfg.Root,
		Index:        hclCfg.Index,
		Replacements: hclCfg.Replacements,
	}

	if f := hclCfg.Files; f != nil {
		cfg.Files = Files{Scripts: f.Scripts, Styles: f.Styles, LibCSS: f.LibCSS, Templates: f.Templates}
	}
	if s := hclCfg.Styles; s != nil {
		cfg.Styles = StylesArgs{
			Variables:    s.Variables,
			Compiler:     s.Compiler,
			IncludePaths: s.IncludePaths,
			Prefix:       s.Prefix,
		}
		if s.Bootstrap != nil {
			cfg.Styles.Bootstrap = &BootstrapArgs{Main: s.Bootstrap.Main, Output: s.Bootstrap.Output}
		}
	}
	if s := hclCfg.Server; s != nil {
		cfg.Server = ServerArgs{Port: s.Port, LiveReloadPort: s.LiveReloadPort, Hidden: s.Hidden}
	}
	if w := hclCfg.Watch; w != nil {
		cfg.Watch = WatchArgs{Debounce: w.Debounce, StructureGlobs: w.StructureGlobs, Ignore: w.Ignore}
	}
	if b := hclCfg.Build; b != nil {
		cfg.Build = BuildArgs{
			Scripts:    b.Scripts,
			OutputDir:  b.OutputDir,
			Bundle:     b.Bundle,
			Suffix:     b.Suffix,
			CleanDir:   b.CleanDir,
			AssetsSrc:  b.AssetsSrc,
			AssetsDest: b.AssetsDest,
		}
	}
	if l := hclCfg.Lint; l != nil {
		cfg.Lint = LintArgs{Files: l.Files, Command: l.Command}
	}

	return cfg, nil
}

// hclRoot reads the top level root attribute on its own so the rest of the
// file can refer to it. It must be a plain string; "src" when unset.
func hclRoot(body hcl.Body) (string, error) {
	content, _, diags := body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "root"}},
	})
	if diags.HasErrors() {
		return "", errors.Errorf("decoding HCL root: %s", diags.Error())
	}

	attr, ok := content.Attributes["root"]
	if !ok {
		return "src", nil
	}

	var root string
	if diags := gohcl.DecodeExpression(attr.Expr, nil, &root); diags.HasErrors() {
		return "", errors.Errorf("decoding HCL root: %s", diags.Error())
	}
	if root == "" {
		return "src", nil
	}
	return root, nil
}
