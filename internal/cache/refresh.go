package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fogsmith/internal/catalog"
	"fogsmith/internal/transform"
)

// Refresher drives the per-entity refresh pipelines. Each pipeline is an
// independent fetch -> transform -> write unit; one pipeline failing never
// prevents the others from completing.
type Refresher struct {
	store   *Store
	catalog *catalog.Client
	icons   []string
	log     *zap.Logger
	now     func() time.Time

	// mu is the single-decision gate: concurrent callers must not each
	// conclude the cache is stale and trigger redundant upstream passes.
	mu sync.Mutex
}

// NewRefresher creates a refresher over the store and catalog client. icons
// is the environment-provided seed list for the icon-names artifact.
func NewRefresher(store *Store, client *catalog.Client, icons []string, log *zap.Logger) *Refresher {
	return &Refresher{
		store:   store,
		catalog: client,
		icons:   icons,
		log:     log,
		now:     time.Now,
	}
}

// CheckFiles evaluates every artifact against the current freshness boundary
// and refreshes the stale ones. The returned error joins the failures of the
// individual pipelines; artifacts whose pipeline succeeded are refreshed
// regardless.
func (r *Refresher) CheckFiles(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var stale []Kind
	for _, kind := range Kinds {
		mod, err := r.store.ModTime(kind)
		if err == nil && Fresh(mod, now) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			// An unreadable artifact counts as stale; its pipeline will
			// rewrite it or fail on its own.
			r.log.Warn("artifact unreadable, treating as stale",
				zap.String("entity", string(kind)), zap.Error(err))
		}
		stale = append(stale, kind)
	}
	if len(stale) == 0 {
		return nil
	}

	r.log.Info("refreshing stale artifacts", zap.Int("count", len(stale)))
	return r.refresh(ctx, stale)
}

// Refresh unconditionally regenerates every artifact.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refresh(ctx, Kinds)
}

func (r *Refresher) refresh(ctx context.Context, kinds []Kind) error {
	pipelines := map[Kind]func(context.Context) error{
		KindSurvivors:     r.refreshSurvivors,
		KindKillers:       r.refreshKillers,
		KindItemsAddons:   r.refreshItemsAddons,
		KindSurvivorPerks: r.refreshPerks,
		KindIconNames:     r.refreshIcons,
	}

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	for _, kind := range kinds {
		run := pipelines[kind]
		wg.Add(1)
		go func(kind Kind) {
			defer wg.Done()
			if err := run(ctx); err != nil {
				r.log.Error("refresh failed", zap.String("entity", string(kind)), zap.Error(err))
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
				return
			}
			r.log.Info("artifact refreshed", zap.String("entity", string(kind)))
		}(kind)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (r *Refresher) refreshSurvivors(ctx context.Context) error {
	chars, err := r.catalog.Characters(ctx, "survivor")
	if err != nil {
		return err
	}
	return r.store.Write(KindSurvivors, transform.Survivors(chars))
}

// refreshKillers fans out to the characters and power-items endpoints, then
// joins each killer's power by id.
func (r *Refresher) refreshKillers(ctx context.Context) error {
	var (
		chars  []transform.Character
		powers map[string]transform.CatalogItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chars, err = r.catalog.Characters(gctx, "killer")
		return err
	})
	g.Go(func() error {
		var err error
		powers, err = r.catalog.ItemsByID(gctx, "", "power", "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return r.store.Write(KindKillers, transform.Killers(chars, powers))
}

func (r *Refresher) refreshItemsAddons(ctx context.Context) error {
	var items, addons []transform.CatalogItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = r.catalog.Items(gctx, "survivor", "", "")
		return err
	})
	g.Go(func() error {
		var err error
		addons, err = r.catalog.Addons(gctx, "survivor", "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	merged := transform.MergeItemsAddons(transform.GroupByItemType(items), transform.GroupByItemType(addons))
	return r.store.Write(KindItemsAddons, merged)
}

func (r *Refresher) refreshPerks(ctx context.Context) error {
	perks, err := r.catalog.Perks(ctx, "survivor")
	if err != nil {
		return err
	}
	return r.store.Write(KindSurvivorPerks, transform.Perks(perks))
}

// refreshIcons writes the environment-provided seed list; nothing to fetch.
func (r *Refresher) refreshIcons(context.Context) error {
	return r.store.WriteLines(KindIconNames, r.icons)
}
