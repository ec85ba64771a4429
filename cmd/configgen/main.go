package main

import (
	"flag"
	"log"

	"github.com/max8938/FinalCallATC/internal/config"
)

func main() {
	kind := flag.String("kind", "bridge", "config kind: bridge|sim")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to per-kind path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if _, err := config.Template(*kind); err != nil {
		log.Fatal(err)
	}

	if *validate {
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		cfg, err := config.LoadBridge(path)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s config at %s (channel=%s capacity=%d)", *kind, path, cfg.ChannelName, cfg.Capacity)
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}

func defaultPath(kind string) string {
	if kind == "sim" {
		return "cmd/bridgesim/config.toml"
	}
	return "cmd/af4bridge/config.toml"
}
