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
Package watch reports file changes in a project tree.

A Watcher adds every directory below its root to fsnotify, merges the events
for each path and hands them to its handlers in batches once the tree has
been quiet for the debounce delay. Filters see paths relative to the root in
unix form, so the same glob lists used for file sets can select what is
reported.

StructureGuard stops the dev loop when files appear or disappear.
*/
package watch
