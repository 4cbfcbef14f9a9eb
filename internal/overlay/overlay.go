// Package overlay embeds the page rendered into the video branch.
package overlay

import (
	_ "embed"
	"encoding/base64"
	"net/http"
)

//go:embed index.html
var page []byte

const dataURIPrefix = "data:text/html;base64,"

// Page returns the embedded overlay document.
func Page() []byte {
	return page
}

// DataURI returns the overlay page as a self-contained data URI suitable
// for the renderer's location property.
func DataURI() string {
	return EncodeDataURI(page)
}

// EncodeDataURI encodes an HTML document as a base64 data URI.
func EncodeDataURI(html []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(html)
}

// Handler serves the overlay page for previewing in a browser.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}
