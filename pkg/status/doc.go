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
Package status writes pipeline outputs and tracks what each write did.

🎯 Purpose:
- Writes generated files (compiled css, injected html, bundles) atomically
- Leaves files alone when the new content matches what is on disk
- Records every file as new, modified, unchanged or deleted
- Reports changes through the context logger

🔄 Flow:
1. A pipeline step produces content for a path
2. Manager.WriteFile compares it with the file on disk
3. Changed content is written through a temp file and a rename
4. The outcome is tracked and printed

🔍 Example:

	sm := status.New(cfg.Dir())

	st, err := sm.WriteFile(ctx, "style", "src/css/app.css", css)

	for _, info := range sm.ListFiles(ctx) {
		fmt.Println(info.Path, info.Status)
	}
*/
package status
