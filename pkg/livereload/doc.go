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
Package livereload pushes reloads to browsers over the LiveReload protocol.

🔄 Flow:
 1. The browser loads /livereload.js and opens a websocket to /livereload
 2. It sends a hello listing protocol 7; the server answers with its own hello
 3. Server.Reload sends {"command":"reload","path":...,"liveCSS":...} to every
    browser that finished the handshake

Reloader sits between the pipeline and the server and decides what kind of
reload a changed file needs.
*/
package livereload
