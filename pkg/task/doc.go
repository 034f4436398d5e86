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

/*
Package task runs named tasks after their dependencies.

A Registry holds tasks by name. Registry.Run checks the graph below the
requested task for missing names and cycles, then runs it: the dependencies
of each task run concurrently and the task itself runs once they all
succeed. A task reached through several paths runs only once per Run.

🔍 Example:

	reg := task.NewRegistry()
	reg.MustAdd(task.Task{Name: "clean", Run: clean})
	reg.MustAdd(task.Task{Name: "build", Deps: []string{"clean"}, Run: build})

	err := reg.Run(ctx, "build")
*/
package task
