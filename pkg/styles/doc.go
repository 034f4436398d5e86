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
Package styles builds the project's stylesheets.

🔄 Flow:
 1. BuildBootstrap compiles bootstrap with the project variables spliced in
 2. PrependImports heads every stylesheet with imports of the variable files
 3. Pipeline.CompileFile compiles, prefixes and writes each stylesheet as css

Stylesheets that fail to compile are skipped and logged so a watch loop keeps
running while a file is half edited.
*/
package styles
