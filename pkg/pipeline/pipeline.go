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


// Package pipeline wires the asset components into the project's named
// tasks: script and style injection, stylesheet compilation, page templates,
// the dev servers and watcher, and the production build.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/assetrc/pkg/build"
	"github.com/walteh/assetrc/pkg/config"
	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/inject"
	"github.com/walteh/assetrc/pkg/lint"
	"github.com/walteh/assetrc/pkg/livereload"
	"github.com/walteh/assetrc/pkg/log"
	"github.com/walteh/assetrc/pkg/server"
	"github.com/walteh/assetrc/pkg/status"
	"github.com/walteh/assetrc/pkg/styles"
	"github.com/walteh/assetrc/pkg/task"
	"github.com/walteh/assetrc/pkg/templates"
	"github.com/walteh/assetrc/pkg/watch"
)

// Options override the collaborators a Pipeline would otherwise build from
// its config.
type Options struct {
	Compiler styles.Compiler     // defaults to the configured sass command
	Checker  lint.Checker        // defaults to the configured lint command
	Notifier livereload.Notifier // defaults to the pipeline's LiveReload server
	Out      io.Writer           // reports, defaults to os.Stdout
}

// 🏗️ Pipeline runs the project's asset tasks
type Pipeline struct {
	cfg      *config.Config
	sm       *status.Manager
	compiler styles.Compiler
	checker  lint.Checker
	styles   *styles.Pipeline
	renderer *templates.Renderer
	builder  *build.Builder
	live     *livereload.Server
	reloader *livereload.Reloader
	out      io.Writer

	indexMu sync.Mutex // script and style injection share the index page

	mu        sync.Mutex
	generated map[string]bool
}

// New creates a pipeline for cfg writing through sm
func New(cfg *config.Config, sm *status.Manager, opts Options) *Pipeline {
	dir := sm.Abs(".")
	if opts.Compiler == nil {
		opts.Compiler = styles.NewExecCompiler(cfg.Styles.Compiler, dir)
	}
	if opts.Checker == nil {
		opts.Checker = lint.NewExecChecker(cfg.Lint.Command, dir)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	live := livereload.NewServer()
	if opts.Notifier == nil {
		opts.Notifier = live
	}

	return &Pipeline{
		cfg:       cfg,
		sm:        sm,
		compiler:  opts.Compiler,
		checker:   opts.Checker,
		styles:    styles.NewPipeline(cfg, opts.Compiler, sm),
		renderer:  templates.NewRenderer(sm),
		builder:   build.New(cfg, sm),
		live:      live,
		reloader:  livereload.NewReloader(opts.Notifier),
		out:       opts.Out,
		generated: make(map[string]bool),
	}
}

// 📋 Registry returns the pipeline's tasks
func (p *Pipeline) Registry() *task.Registry {
	r := task.NewRegistry()
	r.MustAdd(task.Task{Name: "inject", Description: "Inject script tags into the index page", Run: p.Scripts})
	r.MustAdd(task.Task{Name: "prepend-imports", Description: "Prepend style variable imports to every stylesheet", Run: p.PrependImports})
	r.MustAdd(task.Task{Name: "build-bootstrap", Description: "Compile bootstrap with the project's style variables", Run: p.BuildBootstrap})
	r.MustAdd(task.Task{
		Name:        "styles",
		Description: "Compile stylesheets and inject them into the index page",
		Deps:        []string{"build-bootstrap", "prepend-imports"},
		Run:         p.Styles,
	})
	r.MustAdd(task.Task{Name: "templates", Description: "Render page templates to html", Run: p.Templates})
	r.MustAdd(task.Task{Name: "serve", Description: "Serve the app and the LiveReload endpoint", Run: p.Serve})
	r.MustAdd(task.Task{Name: "watch", Description: "Rebuild and reload on changes", Run: p.Watch})
	r.MustAdd(task.Task{
		Name:        "dev",
		Description: "Build everything, then serve and watch",
		Deps:        []string{"inject", "styles", "templates"},
		Run:         p.Dev,
	})
	r.MustAdd(task.Task{Name: "clean", Description: "Remove the distribution directory", Run: p.Clean})
	r.MustAdd(task.Task{Name: "copy-assets", Description: "Copy static assets into the distribution directory", Run: p.CopyAssets})
	r.MustAdd(task.Task{Name: "build", Description: "Bundle scripts for production", Run: p.Build})
	r.MustAdd(task.Task{Name: "pre-commit", Description: "Lint staged scripts and fail the commit on errors", Run: p.PreCommit})
	return r
}

func (p *Pipeline) expand(patterns ...string) ([]string, error) {
	files, err := fileset.Expand(p.sm.Abs("."), patterns)
	if err != nil {
		return nil, errors.Errorf("expanding %v: %w", patterns, err)
	}
	return files, nil
}

func (p *Pipeline) injectOptions() inject.Options {
	return inject.Options{IgnorePath: p.cfg.Root}
}

// url is the path a browser requests for a project file
func (p *Pipeline) url(path string) string {
	return inject.URL(path, inject.Options{IgnorePath: p.cfg.Root, AddRootSlash: true})
}

func (p *Pipeline) injectIndex(ctx context.Context, kind inject.Kind, files []string) error {
	p.indexMu.Lock()
	defer p.indexMu.Unlock()

	if err := inject.InjectFile(ctx, p.sm, p.cfg.Index, kind, files, p.injectOptions()); err != nil {
		return err
	}
	p.markGenerated(p.cfg.Index)
	return nil
}

func (p *Pipeline) markGenerated(paths ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, path := range paths {
		p.generated[fileset.Unixify(path)] = true
	}
}

// Generated reports whether path is written by the pipeline itself
func (p *Pipeline) Generated(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generated[fileset.Unixify(path)]
}

// prime records paths with the reloader so their first change after
// startup reloads browsers.
func (p *Pipeline) prime(ctx context.Context, paths ...string) {
	for _, path := range paths {
		p.reloader.Changed(ctx, p.url(path))
	}
}

// Scripts injects a script tag for every script into the index page
func (p *Pipeline) Scripts(ctx context.Context) error {
	files, err := p.expand(p.cfg.Files.Scripts...)
	if err != nil {
		return err
	}
	if err := p.injectIndex(ctx, inject.JS, files); err != nil {
		return err
	}
	p.prime(ctx, files...)
	p.prime(ctx, p.cfg.Index)
	return nil
}

// PrependImports heads every stylesheet with imports of the style variables
func (p *Pipeline) PrependImports(ctx context.Context) error {
	variables, err := p.expand(p.cfg.Styles.Variables)
	if err != nil {
		return err
	}
	files, err := p.expand(p.cfg.Files.Styles...)
	if err != nil {
		return err
	}
	return styles.PrependImports(ctx, files, styles.ImportBlock(variables), p.sm)
}

// BuildBootstrap compiles bootstrap when the project configures it
func (p *Pipeline) BuildBootstrap(ctx context.Context) error {
	err := styles.BuildBootstrap(ctx, p.cfg, p.compiler, p.sm)
	if errors.Is(err, styles.ErrNoBootstrap) {
		zerolog.Ctx(ctx).Debug().Msg("no bootstrap configured, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	p.markGenerated(p.cfg.Styles.Bootstrap.Output)
	return nil
}

// Styles compiles every stylesheet and injects the library and compiled css
// into the index page. Stylesheets that do not compile are still injected so
// they appear once fixed.
func (p *Pipeline) Styles(ctx context.Context) error {
	files, err := p.expand(p.cfg.Files.Styles...)
	if err != nil {
		return err
	}
	compiled, err := p.styles.CompileAll(ctx, files)
	if err != nil {
		return err
	}
	if broken := len(files) - len(compiled); broken > 0 {
		log.FromContextOrDiscard(ctx).Warningf("%d of %d stylesheets did not compile", broken, len(files))
	}

	css := inject.AsCSS(files)
	p.markGenerated(css...)

	lib, err := p.expand(p.cfg.Files.LibCSS...)
	if err != nil {
		return err
	}
	if err := p.injectIndex(ctx, inject.CSS, append(lib, css...)); err != nil {
		return err
	}
	p.prime(ctx, css...)
	return nil
}

// Templates renders every page template
func (p *Pipeline) Templates(ctx context.Context) error {
	files, err := p.expand(p.cfg.Files.Templates...)
	if err != nil {
		return err
	}
	out, err := p.renderer.RenderAll(ctx, files)
	if err != nil {
		return err
	}
	p.markGenerated(out...)
	p.prime(ctx, out...)
	return nil
}

// 🌐 Serve runs the static server and the LiveReload server until ctx is
// done or either fails.
func (p *Pipeline) Serve(ctx context.Context) error {
	static := server.NewHandler(ctx, server.Options{
		Root:   p.sm.Abs(p.cfg.Root),
		Hidden: p.cfg.Server.Hidden == nil || *p.cfg.Server.Hidden,
	})

	log.FromContextOrDiscard(ctx).Infof("Server starting at localhost:%d...", p.cfg.Server.Port)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, fmt.Sprintf(":%d", p.cfg.Server.Port), static, nil)
	})
	g.Go(func() error {
		return p.live.ListenAndServe(ctx, fmt.Sprintf(":%d", p.cfg.Server.LiveReloadPort))
	})
	return g.Wait()
}

// WatchFilter drops the paths listed in watch.ignore
func (p *Pipeline) WatchFilter() watch.Filter {
	ignore := p.cfg.Watch.Ignore
	return func(path string) bool {
		return !fileset.Match(ignore, path)
	}
}

// Handlers returns the watch handlers of the dev loop: the structure guard
// first, then one handler per asset kind.
func (p *Pipeline) Handlers() []watch.Handler {
	structure := watch.GlobFilter(p.cfg.Watch.StructureGlobs)
	return []watch.Handler{
		watch.Only(func(path string) bool {
			return structure(path) && !p.Generated(path) && !strings.HasSuffix(path, ".tmp")
		}, watch.StructureGuard()),
		watch.Only(watch.GlobFilter(p.cfg.Files.Scripts), p.reloadModified),
		watch.Only(watch.GlobFilter(p.cfg.Files.Styles), p.recompileStyles),
		watch.Only(watch.GlobFilter(p.cfg.Files.Templates), p.rerenderTemplates),
		watch.Only(watch.GlobFilter([]string{p.cfg.Index}), p.reloadModified),
	}
}

func modified(events []watch.ChangeEvent) []string {
	var out []string
	for _, ev := range events {
		if ev.Type == watch.EventTypeModified {
			out = append(out, ev.Path)
		}
	}
	return out
}

func (p *Pipeline) reloadModified(ctx context.Context, events []watch.ChangeEvent) error {
	for _, path := range modified(events) {
		p.reloader.Changed(ctx, p.url(path))
	}
	return nil
}

func (p *Pipeline) recompileStyles(ctx context.Context, events []watch.ChangeEvent) error {
	for _, path := range modified(events) {
		out, ok, err := p.styles.CompileFile(ctx, path)
		if err != nil {
			return err
		}
		if ok {
			p.reloader.Changed(ctx, p.url(out))
		}
	}
	return nil
}

func (p *Pipeline) rerenderTemplates(ctx context.Context, events []watch.ChangeEvent) error {
	for _, path := range modified(events) {
		out, err := p.renderer.RenderFile(ctx, path)
		if err != nil {
			return err
		}
		p.reloader.Changed(ctx, p.url(out))
	}
	return nil
}

// 👀 Watch rebuilds and reloads on changes until ctx is done or the
// directory structure changes.
func (p *Pipeline) Watch(ctx context.Context) error {
	w, err := watch.New(p.sm.Abs("."), p.cfg.DebounceDuration())
	if err != nil {
		return err
	}
	defer w.Close()

	w.AddFilter(p.WatchFilter())
	for _, h := range p.Handlers() {
		w.AddHandler(h)
	}

	log.FromContextOrDiscard(ctx).Info("Watching for changes...")

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Dev serves and watches together; a structure change stops both
func (p *Pipeline) Dev(ctx context.Context) error {
	log.FromContextOrDiscard(ctx).Header(fmt.Sprintf("dev server for %s", p.cfg))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Serve(ctx) })
	g.Go(func() error {
		defer cancel()
		return p.Watch(ctx)
	})
	return g.Wait()
}

// 🧹 Clean removes the distribution directory
func (p *Pipeline) Clean(ctx context.Context) error {
	return p.builder.Clean(ctx, p.cfg.Build.CleanDir)
}

// CopyAssets copies static assets into the distribution directory
func (p *Pipeline) CopyAssets(ctx context.Context) error {
	n, err := p.builder.CopyAssets(ctx, p.cfg.Build.AssetsSrc, p.cfg.Build.AssetsDest)
	if err != nil {
		return err
	}
	log.FromContextOrDiscard(ctx).Successf("Copied %d assets to %s", n, p.cfg.Build.AssetsDest)
	return nil
}

// 📦 Build bundles the production scripts and prints what was written
func (p *Pipeline) Build(ctx context.Context) error {
	l := log.FromContextOrDiscard(ctx)
	l.Header("production build")

	if _, err := p.builder.Build(ctx); err != nil {
		return err
	}
	l.LogNewline()
	return build.Summary(p.out, p.sm.ListFiles(ctx))
}

// PreCommit lints the configured scripts
func (p *Pipeline) PreCommit(ctx context.Context) error {
	files, err := p.expand(p.cfg.Lint.Files...)
	if err != nil {
		return err
	}
	return lint.PreCommit(ctx, p.checker, files, p.out)
}
