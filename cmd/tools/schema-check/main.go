// cmd/tools/schema-check/main.go
//
// Validates a model artifact / feature configuration pair without starting
// anything else. Run it after retraining, before shipping new artifacts.
package main

import (
	"flag"
	"fmt"
	"os"

	"attrition-advisor/internal/schema"
)

func main() {
	artifact := flag.String("model", "configs/model/model.json", "path to the model artifact")
	features := flag.String("features", "configs/model/features.json", "path to the feature configuration")
	flag.Parse()

	s, err := schema.Load(*artifact, *features)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: model version %s\n", s.Version)
	fmt.Printf("  fields:  %d\n", len(s.Fields))
	fmt.Printf("  columns: %d\n", s.ColumnCount())

	for _, f := range s.Fields {
		switch {
		case f.Default != nil:
			fmt.Printf("  - %-24s default %s\n", f.Name, f.Default.String())
		case f.Required:
			fmt.Printf("  - %-24s required, no default\n", f.Name)
		default:
			fmt.Printf("  - %-24s optional\n", f.Name)
		}
	}
}
