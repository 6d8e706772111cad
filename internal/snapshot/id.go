// Package snapshot owns snapshot identity, the reference-image store, and
// the structural-similarity comparator.
package snapshot

// Identifier derives the snapshot identifier for a (story, theme, browser)
// triple: base story ID, then a theme suffix (omitted for the legacy
// theme), then a browser suffix (omitted for the primary engine).
//
// The derivation is injective over the triple as long as theme names and
// engine names are disjoint sets containing no "--": distinct triples never
// collide, so two tasks can never be assigned the same stored reference.
// Config validation rejects names appearing in both sets.
func Identifier(storyID, theme, legacyTheme, browser, primaryBrowser string) string {
	id := storyID
	if theme != legacyTheme {
		id += "--" + theme
	}
	if browser != primaryBrowser {
		id += "--" + browser
	}
	return id
}
