// Package match scores free-text names against catalog display names using a
// normalized edit distance. Callers pick the strictness: theatre resolution
// uses a loose threshold with a substring fallback, title resolution uses a
// threshold generous enough to admit subtitle and special-edition variants.
package match
