// Package handler implements the HTTP surface of the vocabulary backend.
//
// VocabularyHandler maps routes onto VocabularyService. Successful reads
// return JSON records, writes that return no record answer
// {"status":"ok"}, and errors use the {error, details} structure:
// ErrNotFound becomes 404, ErrDuplicateCharacter 409, malformed bodies and
// non-numeric ids 400.
//
// The middleware in this package (Recover, CORS, Logger, Auth) is composed
// with Chain. Auth accepts the shared token in X-API-Token or as a bearer
// Authorization header, and lets OPTIONS preflight requests through.
package handler
