package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/sirupsen/logrus"
)

// DrawStore is the durable backing of a DrawArchive
type DrawStore interface {
	LoadDraws(ctx context.Context) ([]models.Draw, error)
	UpsertDraws(ctx context.Context, draws []models.Draw) error
	LatestSequenceNumber(ctx context.Context) (int, error)
}

// archiveSnapshot is never modified after being published
type archiveSnapshot struct {
	draws []models.Draw
	index map[int]int
}

func newArchiveSnapshot(draws []models.Draw) *archiveSnapshot {
	index := make(map[int]int, len(draws))
	for i, draw := range draws {
		index[draw.SequenceNumber] = i
	}
	return &archiveSnapshot{draws: draws, index: index}
}

// DrawArchive is the local, deduplicated history of draws sorted newest first.
// Readers always see a complete snapshot; writes go to the store before the
// new snapshot is published.
type DrawArchive struct {
	store    DrawStore
	snapshot atomic.Pointer[archiveSnapshot]
	writeMu  sync.Mutex

	observersMu    sync.Mutex
	observers      map[int]func([]models.Draw)
	nextObserverID int

	logger *logrus.Entry
}

// NewDrawArchive creates an empty archive over store. Call Load to populate it.
func NewDrawArchive(store DrawStore) *DrawArchive {
	archive := &DrawArchive{
		store:     store,
		observers: make(map[int]func([]models.Draw)),
		logger:    logrus.WithField("component", "DrawArchive"),
	}
	archive.snapshot.Store(newArchiveSnapshot(nil))
	return archive
}

// Load replaces the in-memory view with the store's contents. On failure the
// previous view stays available and a StorageUnavailable error is returned.
func (a *DrawArchive) Load(ctx context.Context) error {
	a.writeMu.Lock()

	draws, err := a.store.LoadDraws(ctx)
	if err != nil {
		a.writeMu.Unlock()
		a.logger.WithError(err).Warn("Failed to load draws, keeping previous archive view")
		return asStorageError(err, "Load")
	}

	valid := make([]models.Draw, 0, len(draws))
	skipped := 0
	for _, draw := range draws {
		if err := draw.Validate(); err != nil {
			skipped++
			a.logger.WithError(err).WithField("concourse", draw.SequenceNumber).Warn("Skipping malformed stored draw")
			continue
		}
		valid = append(valid, draw.Normalized())
	}

	merged := mergeDraws(nil, dedupeBatch(valid))
	a.snapshot.Store(newArchiveSnapshot(merged))
	a.writeMu.Unlock()

	a.logger.WithFields(logrus.Fields{
		"draws":   len(merged),
		"skipped": skipped,
		"latest":  a.LatestSequenceNumber(),
	}).Info("Archive loaded")

	a.notify(merged)
	return nil
}

// LatestSequenceNumber returns the highest contest held, or 0 when empty
func (a *DrawArchive) LatestSequenceNumber() int {
	draws := a.snapshot.Load().draws
	if len(draws) == 0 {
		return 0
	}
	return draws[0].SequenceNumber
}

// All returns the archive newest first. The slice is a copy; later merges do not affect it.
func (a *DrawArchive) All() []models.Draw {
	draws := a.snapshot.Load().draws
	out := make([]models.Draw, len(draws))
	copy(out, draws)
	return out
}

// Recent returns at most n of the newest draws
func (a *DrawArchive) Recent(n int) []models.Draw {
	draws := a.snapshot.Load().draws
	if n < 0 || n > len(draws) {
		n = len(draws)
	}
	out := make([]models.Draw, n)
	copy(out, draws[:n])
	return out
}

// Get looks up a draw by contest number
func (a *DrawArchive) Get(sequenceNumber int) (models.Draw, bool) {
	snap := a.snapshot.Load()
	i, ok := snap.index[sequenceNumber]
	if !ok {
		return models.Draw{}, false
	}
	return snap.draws[i], true
}

// Size is the number of archived draws
func (a *DrawArchive) Size() int {
	return len(a.snapshot.Load().draws)
}

// MergeUpsert inserts new draws and replaces draws with the same contest number.
// Within a batch the last draw for a contest wins. The batch is validated as a
// whole, then written to the store, and only then made visible to readers.
func (a *DrawArchive) MergeUpsert(ctx context.Context, draws []models.Draw) error {
	if len(draws) == 0 {
		return nil
	}

	for _, draw := range draws {
		if err := draw.Validate(); err != nil {
			return err
		}
	}

	batch := dedupeBatch(draws)

	a.writeMu.Lock()
	current := a.snapshot.Load()

	changed := make([]models.Draw, 0, len(batch))
	for _, draw := range batch {
		if i, ok := current.index[draw.SequenceNumber]; ok && current.draws[i].Equal(draw) {
			continue
		}
		changed = append(changed, draw)
	}
	if len(changed) == 0 {
		a.writeMu.Unlock()
		return nil
	}

	if err := a.store.UpsertDraws(ctx, changed); err != nil {
		a.writeMu.Unlock()
		a.logger.WithError(err).WithField("batch_size", len(changed)).Error("Store rejected merge, archive unchanged")
		return asStorageError(err, "MergeUpsert")
	}

	merged := mergeDraws(current.draws, changed)
	a.snapshot.Store(newArchiveSnapshot(merged))
	a.writeMu.Unlock()

	a.logger.WithFields(logrus.Fields{
		"merged": len(changed),
		"total":  len(merged),
		"latest": merged[0].SequenceNumber,
	}).Info("Merged draws into archive")

	a.notify(merged)
	return nil
}

// Subscribe registers fn to run after every published change. fn receives the
// new snapshot and must not modify it. The returned func removes the subscription.
func (a *DrawArchive) Subscribe(fn func([]models.Draw)) func() {
	a.observersMu.Lock()
	defer a.observersMu.Unlock()

	id := a.nextObserverID
	a.nextObserverID++
	a.observers[id] = fn

	return func() {
		a.observersMu.Lock()
		defer a.observersMu.Unlock()
		delete(a.observers, id)
	}
}

func (a *DrawArchive) notify(draws []models.Draw) {
	a.observersMu.Lock()
	observers := make([]func([]models.Draw), 0, len(a.observers))
	for _, fn := range a.observers {
		observers = append(observers, fn)
	}
	a.observersMu.Unlock()

	for _, fn := range observers {
		fn(draws)
	}
}

// dedupeBatch normalizes draws and keeps the last occurrence of each contest
func dedupeBatch(draws []models.Draw) []models.Draw {
	position := make(map[int]int, len(draws))
	out := make([]models.Draw, 0, len(draws))
	for _, draw := range draws {
		draw = draw.Normalized()
		if i, ok := position[draw.SequenceNumber]; ok {
			out[i] = draw
			continue
		}
		position[draw.SequenceNumber] = len(out)
		out = append(out, draw)
	}
	return out
}

// mergeDraws returns a new slice holding existing overlaid with updates, newest first.
// existing is not modified.
func mergeDraws(existing, updates []models.Draw) []models.Draw {
	bySequence := make(map[int]models.Draw, len(existing)+len(updates))
	for _, draw := range existing {
		bySequence[draw.SequenceNumber] = draw
	}
	for _, draw := range updates {
		bySequence[draw.SequenceNumber] = draw
	}

	merged := make([]models.Draw, 0, len(bySequence))
	for _, draw := range bySequence {
		merged = append(merged, draw)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].SequenceNumber > merged[j].SequenceNumber
	})
	return merged
}

func asStorageError(err error, operation string) error {
	if shared.CategoryOf(err) != "" {
		return err
	}
	return shared.NewStorageUnavailableError("DrawArchive", operation, err)
}
