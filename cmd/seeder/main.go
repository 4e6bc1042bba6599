// cmd/seeder/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/unclebandit/adcraft/internal/config"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/repository"
	"github.com/unclebandit/adcraft/internal/service"
)

// The seeder creates the tables for the configured storage and imports a
// JSON array of campaign results into the history.
func main() {
	cfgPath := os.Getenv("ADCRAFT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	driver, dsn := cfg.DSN()
	if driver == "" {
		log.Fatal("❌ seeding needs sqlite or postgres storage")
	}
	store, err := repository.OpenStorage(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	fmt.Printf("Migrated: %s\n", driver)

	seedFile := "seed/history.json"
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}

	content, err := os.ReadFile(seedFile)
	if err != nil {
		log.Fatalf("failed to read %s: %v", seedFile, err)
	}

	history := service.NewHistoryStore(store.KV, nil)
	n, err := seedHistory(history, content)
	if err != nil {
		log.Fatalf("failed to seed %s: %v", seedFile, err)
	}
	fmt.Printf("Seeded: %s (%d entries)\n", seedFile, n)

	fmt.Println("Database seeding completed successfully!")
}

// seedHistory records the results in content, given newest first, so they
// keep that order in the history. Entries already present are skipped.
func seedHistory(history *service.HistoryStore, content []byte) (int, error) {
	var entries []*model.CampaignResult
	if err := json.Unmarshal(content, &entries); err != nil {
		return 0, err
	}

	seeded := 0
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e == nil || e.ID == "" {
			return seeded, fmt.Errorf("entry %d has no id", i)
		}
		if _, exists := history.Get(e.ID); exists {
			continue
		}
		if err := history.Record(e); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
