package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/tagstats/pkg/tagstats"
	"github.com/cognicore/tagstats/pkg/tagstats/config"
	"github.com/cognicore/tagstats/pkg/tagstats/loader"
	"github.com/cognicore/tagstats/pkg/tagstats/store"
	"github.com/cognicore/tagstats/pkg/tagstats/store/sqlite"
)

type summary struct {
	RunID     string   `json:"run_id"`
	Questions int      `json:"questions"`
	Datasets  int      `json:"datasets"`
	Files     []string `json:"files"`
}

func main() {
	var (
		input   = flag.String("input", "", "Path to the question extract CSV (required)")
		yearly  = flag.String("yearly", "", "Optional: path to the yearly views CSV")
		cfgPath = flag.String("config", "", "Optional: YAML config file (defaults used otherwise)")
		out     = flag.String("out", "out", "Output directory for chart datasets")
		dbPath  = flag.String("db", "", "Optional: SQLite file to snapshot run aggregates into")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	ctx := context.Background()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	questions, err := loader.LoadQuestions(*input)
	if err != nil {
		log.Fatalf("load questions: %v", err)
	}

	var yearlyViews []loader.YearlyViews
	if *yearly != "" {
		yearlyViews, err = loader.LoadYearlyViews(*yearly)
		if err != nil {
			log.Fatalf("load yearly views: %v", err)
		}
	}

	var snap store.Store
	if *dbPath != "" {
		snap, err = sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open snapshot db: %v", err)
		}
	}

	engine := tagstats.New(tagstats.Options{Config: cfg, Store: snap})
	defer engine.Close()

	rep, err := engine.Run(ctx, questions, yearlyViews)
	if err != nil {
		log.Fatalf("run analysis: %v", err)
	}

	files, err := rep.WriteCSV(*out)
	if err != nil {
		log.Fatalf("write datasets: %v", err)
	}

	result := summary{
		RunID:     rep.RunID,
		Questions: rep.Questions,
		Datasets:  len(rep.Datasets),
		Files:     files,
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("marshal summary: %v", err)
	}
	fmt.Println(string(encoded))
}
