package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONList wraps items in the same keyed envelope the API accepts for
// list responses, plus a count, so output can be piped back into fixtures.
func writeJSONList[T any](cmd *cobra.Command, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return writeJSON(cmd, map[string]any{
		key:     items,
		"count": len(items),
	})
}
