// cmd/tools/catalog-check/main.go
//
// catalog-check validates a catalog artifact before it is shipped to the
// service: schema conformance, embedding presence and uniform dimension.
package main

import (
	"flag"
	"fmt"
	"os"

	"storefinder/internal/catalog"
	"storefinder/internal/common/config"
)

func main() {
	path := flag.String("path", "", "Path to the catalog artifact (overrides -config)")
	configPath := flag.String("config", "", "Service config file to read catalog.path from")
	verbose := flag.Bool("v", false, "Print per-category store counts")
	flag.Parse()

	artifact := *path
	if artifact == "" && *configPath != "" {
		cfg, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		artifact = cfg.Catalog.Path
	}
	if artifact == "" {
		artifact = "data/catalog.json"
	}

	cat, err := catalog.Load(artifact)
	if err != nil {
		fmt.Printf("Catalog validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Catalog validation passed. Found %d stores across %d categories (embedding dimension %d).\n",
		cat.Len(), len(cat.Categories()), cat.Dimension())

	if *verbose {
		counts := make(map[string]int)
		for _, store := range cat.Stores() {
			counts[store.Category]++
		}
		for _, category := range cat.Categories() {
			fmt.Printf("  %-20s %d\n", category, counts[category])
		}
	}
}
