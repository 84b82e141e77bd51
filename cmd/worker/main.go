package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/schiefeling-archiv/archiv-backend/config"
	docrepo "github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
	"github.com/schiefeling-archiv/archiv-backend/internal/filestore"
	"github.com/schiefeling-archiv/archiv-backend/internal/maintenance"
)

// Maintenance worker. By default it runs the storage orphan sweep once and
// prints the findings; with -schedule it stays up and sweeps on the configured
// cron expression.
func main() {
	scheduled := flag.Bool("schedule", false, "run on the configured cron schedule instead of once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}
	store, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, opts...)
	if err != nil {
		log.Fatalf("create firestore client: %v", err)
	}
	defer store.Close()

	files, err := filestore.NewGCS(ctx, cfg.Storage.Bucket, cfg.Firebase.CredentialsPath)
	if err != nil {
		log.Fatalf("create file store: %v", err)
	}
	defer files.Close()

	sweeper := maintenance.NewOrphanSweeper(files, docrepo.NewFirestoreRepo(store))

	if *scheduled {
		spec := cfg.App.OrphanSweepSchedule
		if spec == "" {
			log.Fatal("ORPHAN_SWEEP_SCHEDULE is empty, nothing to schedule")
		}
		c, err := sweeper.Schedule(spec)
		if err != nil {
			log.Fatalf("schedule sweep: %v", err)
		}
		defer c.Stop()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		return
	}

	orphans, err := sweeper.Sweep(ctx)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	if len(orphans) == 0 {
		fmt.Println("no orphaned objects")
		return
	}
	fmt.Printf("%d orphaned object(s):\n", len(orphans))
	for _, name := range orphans {
		fmt.Println(" ", name)
	}
}
