// Package amc is a thin client for the theatre catalog API. It returns the raw
// catalog shapes as explicit structs; all matching and filtering belongs to the
// caller. Rate-limit, auth, and not-found failures surface as distinguishable
// sentinel errors.
package amc
