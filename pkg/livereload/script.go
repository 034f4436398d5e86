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

package livereload

import (
	"net/http"
)

// script is a minimal protocol 7 client. Pages include it with
// <script src="//localhost:35729/livereload.js"></script>.
const script = `(function () {
  var src = document.currentScript && document.currentScript.src;
  var host = src ? new URL(src).host : location.hostname + ":35729";
  var ws = new WebSocket("ws://" + host + "/livereload");
  ws.onopen = function () {
    ws.send(JSON.stringify({command: "hello", protocols: ["http://livereload.com/protocols/official-7"]}));
  };
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.command !== "reload") return;
    if (msg.liveCSS) {
      var links = document.querySelectorAll('link[rel="stylesheet"]');
      for (var i = 0; i < links.length; i++) {
        var href = links[i].href.replace(/[?&]livereload=\d+/, "");
        links[i].href = href + (href.indexOf("?") < 0 ? "?" : "&") + "livereload=" + Date.now();
      }
      return;
    }
    location.reload();
  };
})();
`

func serveScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(script))
}
