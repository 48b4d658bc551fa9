// Package docs embeds the hand-maintained OpenAPI description served at
// /swagger/doc.json.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
