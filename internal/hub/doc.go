// Package hub wires the primitive document store to the typed storages of
// the identity and token packages.
//
// One Hub is opened at process start and closed at shutdown; everything
// that needs persistence receives it as an explicit dependency. Each
// accessor (Users, Profiles, Tokens, ...) returns a fresh lightweight view
// over the shared handle, so views are cheap and interchangeable.
package hub
