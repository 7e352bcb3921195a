// Package tempdir maps short caller-chosen ids to cache directories below the
// system temp root.
//
// Ids are validated before any path is built: only 1-20 characters of
// [A-Za-z0-9_] are accepted, so an id can never contain a separator or "..".
// The resulting path is checked to be a direct child of the root regardless.
package tempdir
