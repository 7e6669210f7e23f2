// Package agent renders the self-contained capture script that runs inside a
// foreign page. The script carries only the scope-limited capture token; the
// user's primary session credential never reaches the foreign page.
package agent

import (
	"strings"
	"text/template"
)

// Params configure one rendered script.
type Params struct {
	Token       string
	SubmitURL   string // absolute URL of the capture submit endpoint
	CaptureKind string // defaults to generic_product when empty
}

// The script extracts best-effort candidate fields with page heuristics and
// always attaches the raw document, so a page with no recognizable structure
// still produces a usable capture. The overlay is cosmetic.
const scriptTemplate = `(function () {
  "use strict";
  var TOKEN = "{{.Token | js}}";
  var SUBMIT_URL = "{{.SubmitURL | js}}";
  var KIND = "{{.CaptureKind | js}}";

  function meta(name) {
    var el = document.querySelector('meta[property="' + name + '"], meta[name="' + name + '"]');
    return el ? el.getAttribute("content") : null;
  }

  function overlay(text, ok) {
    var el = document.createElement("div");
    el.textContent = text;
    el.style.cssText = "position:fixed;top:16px;right:16px;z-index:2147483647;" +
      "padding:10px 14px;border-radius:6px;font:13px sans-serif;color:#fff;" +
      "cursor:pointer;background:" + (ok ? "#2e7d32" : "#c62828");
    el.onclick = function () { el.remove(); };
    document.body.appendChild(el);
    setTimeout(function () { el.remove(); }, 8000);
  }

  var content = "";
  try {
    content = document.documentElement.outerHTML;
    if (content.length > 512 * 1024) {
      content = content.slice(0, 512 * 1024);
    }
  } catch (e) {
    content = document.title || "";
  }

  fetch(SUBMIT_URL, {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({
      token: TOKEN,
      source_url: location.href,
      captured_content: content,
      capture_kind: KIND,
      hints: {
        title: meta("og:title") || document.title || null,
        brand: meta("og:brand") || meta("product:brand") || null,
        price: meta("og:price:amount") || null,
        image: meta("og:image") || null
      }
    })
  }).then(function (res) {
    if (res.ok) {
      overlay("Captured. Switch back to your collection tab", true);
    } else if (res.status === 401) {
      overlay("Capture token expired. Regenerate it in settings", false);
    } else {
      overlay("Capture failed (" + res.status + ")", false);
    }
  }).catch(function () {
    overlay("Capture failed. Could not reach the server", false);
  });
})();
`

var tmpl = template.Must(template.New("agent").Parse(scriptTemplate))

// Script renders the injectable capture script for the given parameters.
func Script(p Params) (string, error) {
	if p.CaptureKind == "" {
		p.CaptureKind = "generic_product"
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}
