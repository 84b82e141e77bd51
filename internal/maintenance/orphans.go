package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
	"github.com/schiefeling-archiv/archiv-backend/internal/filestore"
)

// ObjectLister lists stored object names under a prefix.
type ObjectLister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// DocumentLister is the slice of the document store the sweep needs.
type DocumentLister interface {
	List(ctx context.Context, q repository.ListQuery) ([]domain.Document, error)
}

const sweepPrefix = "historical-documents/"

// OrphanSweeper finds stored files no document record points to. Uploads write
// the file before the record, so a crash in between leaves such objects
// behind. The sweep only reports them; deletion stays a manual decision.
type OrphanSweeper struct {
	objects ObjectLister
	docs    DocumentLister
}

func NewOrphanSweeper(objects ObjectLister, docs DocumentLister) *OrphanSweeper {
	return &OrphanSweeper{objects: objects, docs: docs}
}

// Sweep returns the object names without a referencing document record.
func (s *OrphanSweeper) Sweep(ctx context.Context) ([]string, error) {
	names, err := s.objects.List(ctx, sweepPrefix)
	if err != nil {
		return nil, fmt.Errorf("list stored objects: %w", err)
	}

	docs, err := s.docs.List(ctx, repository.ListQuery{})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	referenced := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		for _, u := range []string{d.FileURL, d.ImageURL} {
			if u == "" {
				continue
			}
			path, err := filestore.ObjectPathFromURL(u)
			if err != nil {
				log.Printf("document %s has unparsable file url: %v", d.ID, err)
				continue
			}
			referenced[path] = struct{}{}
		}
	}

	var orphans []string
	for _, name := range names {
		if _, ok := referenced[name]; !ok {
			orphans = append(orphans, name)
		}
	}
	return orphans, nil
}

// Schedule runs the sweep on the given cron spec and logs findings.
func (s *OrphanSweeper) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		orphans, err := s.Sweep(ctx)
		if err != nil {
			log.Printf("orphan sweep failed: %v", err)
			return
		}
		if len(orphans) == 0 {
			log.Println("orphan sweep: no orphaned objects")
			return
		}
		log.Printf("orphan sweep: %d orphaned object(s)", len(orphans))
		for _, name := range orphans {
			log.Printf("orphaned object: %s", name)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule orphan sweep: %w", err)
	}

	c.Start()
	log.Printf("orphan sweep scheduled (%s)", spec)
	return c, nil
}
