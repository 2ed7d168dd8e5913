// ABOUTME: Embeds the chat page assets into the binary using go:embed
// ABOUTME: Provides the HTML page and stylesheet served by the public routes

package gateway

import _ "embed"

//go:embed assets/index.html
var indexHTML []byte

//go:embed assets/styles.css
var stylesCSS []byte
