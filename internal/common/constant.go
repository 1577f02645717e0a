// Package common contains shared constants and sentinel errors used across
// the DPN node server components.
package common

// AuthorizationHeaderName is the HTTP header that carries the API token.
const AuthorizationHeaderName = "Authorization"

// TokenKeywords are the accepted schemes in the Authorization header,
// e.g. "Token eyJ..." or "Bearer eyJ...".
var TokenKeywords = []string{"Token", "Bearer"}

// PageSize is the fixed number of results returned per list page.
const PageSize = 20
