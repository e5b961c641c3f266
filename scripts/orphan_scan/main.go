// Command orphan_scan lists objects in the document and cover buckets that no
// database record references anymore. With -delete it removes them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ispkai/docrepo-api/internal/repository"
	"github.com/ispkai/docrepo-api/pkg/config"
	"github.com/ispkai/docrepo-api/pkg/database"
	"github.com/ispkai/docrepo-api/pkg/storage"
)

func main() {
	var (
		remove  bool
		timeout time.Duration
	)

	flag.BoolVar(&remove, "delete", false, "Delete orphaned objects instead of only listing them")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall scan timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	store, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to init object store: %v", err)
	}

	documents := repository.NewDocumentRepository(db)
	referenced, err := documents.AllFileKeys(ctx)
	if err != nil {
		log.Fatalf("failed to load referenced keys: %v", err)
	}

	known := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		known[key] = struct{}{}
	}

	total := 0
	for _, bucket := range []string{store.DocumentsBucket(), store.CoversBucket()} {
		keys, err := store.ListKeys(ctx, bucket)
		if err != nil {
			log.Fatalf("failed to list bucket %s: %v", bucket, err)
		}

		for _, key := range keys {
			if _, ok := known[key]; ok {
				continue
			}
			total++
			if !remove {
				fmt.Printf("orphan\t%s\t%s\n", bucket, key)
				continue
			}
			if err := store.Remove(ctx, bucket, key); err != nil {
				log.Printf("failed to delete %s/%s: %v", bucket, key, err)
				continue
			}
			fmt.Printf("deleted\t%s\t%s\n", bucket, key)
		}
	}

	fmt.Printf("scan complete: %d orphaned object(s)\n", total)
}
