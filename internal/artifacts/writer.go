package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteStartupOrder writes the startup order as an indented JSON array to the
// given path. An empty order is written as an empty array, not null.
func WriteStartupOrder(path string, order []string) error {
	if order == nil {
		order = []string{}
	}
	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode startup order: %v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write startup order to %s: %v", path, err)
	}
	return nil
}

// WriteDOT writes Graphviz DOT source to the given path.
func WriteDOT(path, dot string) error {
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("failed to write graph to %s: %v", path, err)
	}
	return nil
}

// WriteSVG writes rendered SVG bytes to the given path.
func WriteSVG(path string, svg []byte) error {
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return fmt.Errorf("failed to write rendered graph to %s: %v", path, err)
	}
	return nil
}
