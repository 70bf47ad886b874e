// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// user and social login services and map service errors onto status codes
// and stable envelope codes (see errors.go).
package api
