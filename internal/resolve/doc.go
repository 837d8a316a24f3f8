// Package resolve maps free-text theatre and movie names onto stable local
// identities: theatres through a cache/store/catalog lookup chain, movie
// titles through fuzzy matching over the per-run catalog snapshot.
package resolve
