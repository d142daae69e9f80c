package main

import (
	"errors"
	"flag"
)

type cliConfig struct {
	ManifestPath string
	ScoresPath   string
	Synthetic    bool
	Recompute    bool
	Reindex      bool
}

func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig
	fs := flag.NewFlagSet("gradebook_seed", flag.ContinueOnError)
	fs.StringVar(&cfg.ManifestPath, "manifest", "", "Path to the course manifest YAML")
	fs.StringVar(&cfg.ScoresPath, "scores", "", "Optional CSV of raw scores (student_id,item_id,earned,possible)")
	fs.BoolVar(&cfg.Synthetic, "synthetic", false, "Generate staircase scores: student i earns every item with index below i")
	fs.BoolVar(&cfg.Recompute, "recompute", true, "Recompute course grades after loading")
	fs.BoolVar(&cfg.Reindex, "reindex", false, "Bulk index computed grades into Elasticsearch (requires ES_ADDRESSES)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.ManifestPath == "" {
		return cfg, errors.New("-manifest is required")
	}
	if cfg.ScoresPath != "" && cfg.Synthetic {
		return cfg, errors.New("-scores and -synthetic are mutually exclusive")
	}
	return cfg, nil
}
