package main

import (
	"fmt"
	"sort"
)

// Run executes the platforms command.
func (c *PlatformsCmd) Run(deps *Dependencies) error {
	platforms := deps.Registry.List()
	if len(platforms) == 0 {
		fmt.Fprintln(deps.Stdout, "No platforms registered.")
		return nil
	}

	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
