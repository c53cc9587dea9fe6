// Package main hosts the learningcenter CLI entrypoint and command graph.
//
// The Cobra command tree drives the publishing store the way a view would:
// it dispatches store actions, waits for them to settle, then renders the
// resulting state as tables or JSON. Errors recorded by the store are
// printed as status lines and turn into a non-zero exit.
//
// Keep this package lean. Behaviour belongs in the internal packages; this
// layer only parses flags and formats output.
package main
