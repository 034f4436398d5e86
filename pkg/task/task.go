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

package task

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/assetrc/pkg/log"
)

var (
	// ErrUnknownTask is returned for a task or dependency that was never added
	ErrUnknownTask = errors.Base("unknown task")

	// ErrCycle is returned when tasks depend on each other in a loop
	ErrCycle = errors.Base("task dependency cycle")
)

// Func is the body of a task
type Func func(ctx context.Context) error

// 📋 Task is a named unit of work with dependencies
type Task struct {
	Name        string
	Description string
	Deps        []string // run concurrently before Run
	Run         Func     // nil for tasks that only group their deps
}

// 🗂️ Registry holds the tasks of a project
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Add registers t. Names must be unique.
func (r *Registry) Add(t Task) error {
	if t.Name == "" {
		return errors.New("task name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.Name]; ok {
		return errors.Errorf("task %q already registered", t.Name)
	}
	r.tasks[t.Name] = t
	return nil
}

// MustAdd is like Add but panics on error
func (r *Registry) MustAdd(t Task) {
	if err := r.Add(t); err != nil {
		panic(err)
	}
}

// Tasks returns every task sorted by name
func (r *Registry) Tasks() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// check walks the graph below name and reports missing tasks and cycles
func (r *Registry) check(name string, path []string, done map[string]bool) error {
	for i, p := range path {
		if p == name {
			return errors.Errorf("%w: %s", ErrCycle, strings.Join(append(path[i:], name), " -> "))
		}
	}
	if done[name] {
		return nil
	}

	t, ok := r.tasks[name]
	if !ok {
		if len(path) > 0 {
			return errors.Errorf("%w %q (needed by %q)", ErrUnknownTask, name, path[len(path)-1])
		}
		return errors.Errorf("%w %q", ErrUnknownTask, name)
	}

	for _, dep := range t.Deps {
		if err := r.check(dep, append(path, name), done); err != nil {
			return err
		}
	}
	done[name] = true
	return nil
}

type result struct {
	once sync.Once
	err  error
}

type run struct {
	tasks   map[string]Task
	mu      sync.Mutex
	results map[string]*result
}

func (x *run) result(name string) *result {
	x.mu.Lock()
	defer x.mu.Unlock()
	res, ok := x.results[name]
	if !ok {
		res = &result{}
		x.results[name] = res
	}
	return res
}

func (x *run) exec(ctx context.Context, name string) error {
	res := x.result(name)
	res.once.Do(func() {
		t := x.tasks[name]

		g, gctx := errgroup.WithContext(ctx)
		for _, dep := range t.Deps {
			dep := dep
			g.Go(func() error {
				return x.exec(gctx, dep)
			})
		}
		if err := g.Wait(); err != nil {
			res.err = err
			return
		}
		if err := ctx.Err(); err != nil {
			res.err = err
			return
		}

		l := log.FromContextOrDiscard(ctx)
		l.StartTask(ctx, log.TaskOperation{Name: t.Name, Deps: t.Deps})
		defer l.EndTask(ctx, t.Name)

		if t.Run == nil {
			return
		}
		zerolog.Ctx(ctx).Debug().Str("task", t.Name).Msg("running task")
		if err := t.Run(ctx); err != nil {
			res.err = errors.Errorf("task %s: %w", t.Name, err)
		}
	})
	return res.err
}

// ▶️ Run runs name after its dependencies. Within one call every task runs
// at most once, however many tasks depend on it.
func (r *Registry) Run(ctx context.Context, name string) error {
	r.mu.RLock()
	tasks := make(map[string]Task, len(r.tasks))
	for k, v := range r.tasks {
		tasks[k] = v
	}
	r.mu.RUnlock()

	if err := (&Registry{tasks: tasks}).check(name, nil, map[string]bool{}); err != nil {
		return err
	}

	x := &run{tasks: tasks, results: make(map[string]*result)}
	return x.exec(ctx, name)
}
