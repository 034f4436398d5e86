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


package opts

import (
	"context"
	"io"
	"io/fs"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/config"
	"github.com/walteh/assetrc/pkg/pipeline"
	"github.com/walteh/assetrc/pkg/status"
)

// RootOpts contains shared options used by all commands. Flags are bound to
// it when commands are built; Load fills in the rest once they are parsed.
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Out        io.Writer

	Config   *config.Config
	Status   *status.Manager
	Pipeline *pipeline.Pipeline
}

// Load reads the config file and builds the pipeline. A config file that
// does not exist falls back to the defaults unless it was asked for
// explicitly.
func (o *RootOpts) Load(ctx context.Context, explicit bool) error {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return errors.Errorf("loading config: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", o.ConfigFile).Msg("no config file, using defaults")

		cfg = &config.Config{}
		if err := cfg.Validate(); err != nil {
			return errors.Errorf("validating default config: %w", err)
		}
	}

	o.Config = cfg
	o.Status = status.New(cfg.Dir())
	o.Pipeline = pipeline.New(cfg, o.Status, pipeline.Options{Out: o.Out})
	return nil
}
