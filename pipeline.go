package spritegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/spritegen/crc32"
	"github.com/bodgit/spritegen/manifest"
	"github.com/pkg/errors"
)

// EntityError records why a single entity's sprite was not written. It never
// stops the rest of a batch.
type EntityError struct {
	Entity Entity
	Err    error
}

func (e *EntityError) Error() string {
	return e.Entity.Key() + ": " + e.Err.Error()
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// Report summarises a call to Generate.
type Report struct {
	Written   int
	Unchanged int
	Failures  []*EntityError
}

type batch struct {
	dir string

	mu       sync.Mutex
	previous *manifest.DB
	current  *manifest.DB
	report   Report
}

func (b *batch) unchanged(e Entity, crc uint32) bool {
	b.mu.Lock()
	old, ok := b.previous.Get(e.Key())
	b.mu.Unlock()
	if !ok || old != crc {
		return false
	}

	onDisk, err := crcFile(filepath.Join(b.dir, e.Path()))
	return err == nil && onDisk == crc
}

func (b *batch) record(e Entity, crc uint32, written bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current.Set(e.Key(), crc)
	if written {
		b.report.Written++
	} else {
		b.report.Unchanged++
	}
}

func (g *Generator) findEntities(ctx context.Context, kind Kind) (<-chan Entity, <-chan error, error) {
	out := make(chan Entity)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- g.db.Each(ctx, kind, func(e Entity) error {
			select {
			case out <- e:
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "generation cancelled")
			}
			return nil
		})
	}()
	return out, errc, nil
}

func (g *Generator) entityWorker(b *batch, in <-chan Entity) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for e := range in {
			data, err := g.Render(e)
			if err != nil {
				errc <- &EntityError{e, err}
				continue
			}

			crc := crc32.Checksum(data)
			if b.unchanged(e, crc) {
				g.logger.Printf("Unchanged \"%s\"\n", e.Key())
				b.record(e, crc, false)
				continue
			}

			if err := writeFileAtomic(filepath.Join(b.dir, e.Path()), data); err != nil {
				errc <- &EntityError{e, err}
				continue
			}
			b.record(e, crc, true)
		}
	}()
	return errc, nil
}

func (g *Generator) wait(b *batch, cancel context.CancelFunc, errs ...<-chan error) error {
	var fatal error
	for err := range mergeErrors(errs...) {
		if err == nil {
			continue
		}
		var ee *EntityError
		if errors.As(err, &ee) {
			g.logger.Printf("Failed \"%s\": %v\n", ee.Entity.Key(), ee.Err)
			b.report.Failures = append(b.report.Failures, ee)
			continue
		}
		if fatal == nil {
			fatal = err
			cancel()
		}
	}
	return fatal
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Generate writes the sprite of every entity of the given kind, or of every
// kind if kind is zero, beneath path. Each sprite lands in a subdirectory
// named after its kind and is written atomically. Sprites whose content
// matches both the manifest from a previous run and the file on disk are
// left alone.
//
// A failure to render or write one entity is recorded in the report and the
// batch carries on. Cancelling ctx stops new entities from being started;
// those already in progress are finished and the manifest is still written.
func (g *Generator) Generate(ctx context.Context, path string, kind Kind) (*Report, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	previous, err := readManifest(dir)
	if err != nil {
		g.logger.Printf("Ignoring manifest in \"%s\": %v\n", dir, err)
		previous = manifest.New()
	}

	b := &batch{
		dir:      dir,
		previous: previous,
		current:  manifest.New(),
	}

	// Entries for kinds not part of this run are carried over
	for _, k := range previous.Keys() {
		if crc, _ := previous.Get(k); kind != 0 && !strings.HasPrefix(k, kind.String()+"/") {
			b.current.Set(k, crc)
		}
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	entities, errc, err := g.findEntities(ctx, kind)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < g.workers; i++ {
		errc, err := g.entityWorker(b, entities)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	fatal := g.wait(b, cancelFunc, errcList...)

	if err := writeManifest(dir, b.current); err != nil && fatal == nil {
		fatal = errors.Wrap(err, "writing manifest")
	}

	return &b.report, fatal
}
