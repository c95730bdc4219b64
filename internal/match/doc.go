// Package match turns raw stream names into lineup assignments: it
// normalizes names on both sides, scores every stream against every lineup
// entry, and resolves the winners down to at most one stream per channel.
// The package is pure; callers own logging and persistence.
package match
