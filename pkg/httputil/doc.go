// Package httputil provides the response helpers shared by the stringart
// HTTP handlers.
//
// # Errors
//
// Handlers return plain Go errors. [WriteError] maps the code of a
// [errors.Error] to an HTTP status and writes a JSON body:
//
//	{"error": {"code": "INVALID_IMAGE", "message": "unrecognized image"}}
//
// Unknown errors become 500 responses whose message does not leak internal
// details. Context errors map to 499 (client closed request) and 504.
//
// # JSON
//
// [WriteJSON] encodes any value with the given status and sets the
// content type. [DecodeJSON] decodes a request body strictly: unknown fields
// are rejected with INVALID_INPUT.
//
// [errors.Error]: github.com/matzehuels/stringart/pkg/errors.Error
package httputil
