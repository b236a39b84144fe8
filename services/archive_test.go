package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveLoadOrdersNewestFirst(t *testing.T) {
	store := newMemoryStore(testDraw(3), testDraw(1), testDraw(2))
	archive := NewDrawArchive(store)

	require.NoError(t, archive.Load(context.Background()))

	assert.Equal(t, []int{3, 2, 1}, sequenceNumbers(archive.All()))
	assert.Equal(t, 3, archive.LatestSequenceNumber())
	assert.Equal(t, 3, archive.Size())
}

func TestArchiveLoadSkipsMalformedStoredDraws(t *testing.T) {
	short := testDraw(4)
	short.Numbers = short.Numbers[:10]
	outOfRange := testDraw(5)
	outOfRange.Numbers = append([]int(nil), outOfRange.Numbers...)
	outOfRange.Numbers[0] = 40
	store := newMemoryStore(testDraw(1), testDraw(2), testDraw(3), short, outOfRange)
	archive := NewDrawArchive(store)

	require.NoError(t, archive.Load(context.Background()))

	assert.Equal(t, []int{3, 2, 1}, sequenceNumbers(archive.All()))
	assert.Equal(t, 3, archive.LatestSequenceNumber())
	for _, draw := range archive.All() {
		assert.NoError(t, draw.Validate())
	}
}

func TestArchiveEmpty(t *testing.T) {
	archive := NewDrawArchive(newMemoryStore())

	assert.Zero(t, archive.LatestSequenceNumber())
	assert.Empty(t, archive.All())
	assert.Empty(t, archive.Recent(10))
	_, ok := archive.Get(1)
	assert.False(t, ok)
}

func TestArchiveLoadFailureKeepsPreviousView(t *testing.T) {
	store := newMemoryStore(testDraws(1, 5)...)
	archive := NewDrawArchive(store)
	require.NoError(t, archive.Load(context.Background()))

	store.setFailing(true)
	err := archive.Load(context.Background())

	assert.True(t, shared.IsStorageUnavailable(err))
	assert.Equal(t, 5, archive.Size())
	assert.Equal(t, 5, archive.LatestSequenceNumber())
}

func TestArchiveMergeUpsertReplacesBySequenceNumber(t *testing.T) {
	store := newMemoryStore()
	archive := NewDrawArchive(store)
	ctx := context.Background()

	require.NoError(t, archive.MergeUpsert(ctx, testDraws(1, 3)))

	replacement := drawWithNumbers(2, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)
	require.NoError(t, archive.MergeUpsert(ctx, []models.Draw{replacement, testDraw(4)}))

	assert.Equal(t, []int{4, 3, 2, 1}, sequenceNumbers(archive.All()))
	got, ok := archive.Get(2)
	require.True(t, ok)
	assert.Equal(t, replacement.Numbers, got.Numbers)
}

func TestArchiveMergeUpsertLastInBatchWins(t *testing.T) {
	archive := NewDrawArchive(newMemoryStore())
	first := drawWithNumbers(7, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)
	second := drawWithNumbers(7, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25)

	require.NoError(t, archive.MergeUpsert(context.Background(), []models.Draw{first, second}))

	assert.Equal(t, 1, archive.Size())
	got, _ := archive.Get(7)
	assert.Equal(t, second.Numbers, got.Numbers)
}

func TestArchiveMergeUpsertIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	archive := NewDrawArchive(store)
	ctx := context.Background()
	batch := testDraws(1, 10)

	require.NoError(t, archive.MergeUpsert(ctx, batch))
	before := archive.All()
	upserts, _ := store.stats()

	require.NoError(t, archive.MergeUpsert(ctx, batch))

	assert.Equal(t, before, archive.All())
	again, _ := store.stats()
	assert.Equal(t, upserts, again, "unchanged draws should not be written again")
}

func TestArchiveMergeUpsertRejectsInvalidBatchWhole(t *testing.T) {
	store := newMemoryStore()
	archive := NewDrawArchive(store)
	bad := testDraw(9)
	bad.Numbers = bad.Numbers[:14]

	err := archive.MergeUpsert(context.Background(), []models.Draw{testDraw(8), bad})

	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, archive.Size())
	upserts, _ := store.stats()
	assert.Zero(t, upserts)
}

func TestArchiveStoreFailureLeavesArchiveUnchanged(t *testing.T) {
	store := newMemoryStore()
	archive := NewDrawArchive(store)
	ctx := context.Background()
	require.NoError(t, archive.MergeUpsert(ctx, testDraws(1, 3)))

	notified := 0
	archive.Subscribe(func([]models.Draw) { notified++ })

	store.setFailing(true)
	err := archive.MergeUpsert(ctx, testDraws(4, 6))

	assert.True(t, shared.IsStorageUnavailable(err))
	assert.Equal(t, []int{3, 2, 1}, sequenceNumbers(archive.All()))
	assert.Zero(t, notified)
}

func TestArchiveSnapshotsAreIsolated(t *testing.T) {
	archive := NewDrawArchive(newMemoryStore())
	ctx := context.Background()
	require.NoError(t, archive.MergeUpsert(ctx, testDraws(1, 3)))

	snapshot := archive.All()
	snapshot[0] = testDraw(99)

	require.NoError(t, archive.MergeUpsert(ctx, testDraws(4, 5)))

	assert.Equal(t, []int{99, 2, 1}, sequenceNumbers(snapshot))
	assert.Equal(t, []int{5, 4, 3, 2, 1}, sequenceNumbers(archive.All()))
}

func TestArchiveRecent(t *testing.T) {
	archive := NewDrawArchive(newMemoryStore())
	require.NoError(t, archive.MergeUpsert(context.Background(), testDraws(1, 5)))

	assert.Equal(t, []int{5, 4}, sequenceNumbers(archive.Recent(2)))
	assert.Len(t, archive.Recent(50), 5)
	assert.Len(t, archive.Recent(-1), 5)
	assert.Empty(t, archive.Recent(0))
}

func TestArchiveSubscribeAndUnsubscribe(t *testing.T) {
	archive := NewDrawArchive(newMemoryStore())
	ctx := context.Background()

	var seen [][]int
	unsubscribe := archive.Subscribe(func(draws []models.Draw) {
		seen = append(seen, sequenceNumbers(draws))
	})

	require.NoError(t, archive.MergeUpsert(ctx, testDraws(1, 2)))
	require.NoError(t, archive.MergeUpsert(ctx, testDraws(1, 2)))
	unsubscribe()
	require.NoError(t, archive.MergeUpsert(ctx, testDraws(3, 3)))

	assert.Equal(t, [][]int{{2, 1}}, seen)
}

func TestArchiveConcurrentReadersSeeCompleteSnapshots(t *testing.T) {
	archive := NewDrawArchive(newMemoryStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			draws := archive.All()
			// Batches are merged ten at a time, so a reader never sees a partial one
			if len(draws)%10 != 0 {
				t.Errorf("observed partial snapshot of %d draws", len(draws))
				return
			}
			if !sort.SliceIsSorted(draws, func(i, j int) bool {
				return draws[i].SequenceNumber > draws[j].SequenceNumber
			}) {
				t.Errorf("observed unsorted snapshot")
				return
			}
		}
	}()

	for batch := 0; batch < 20; batch++ {
		require.NoError(t, archive.MergeUpsert(ctx, testDraws(batch*10+1, batch*10+10)))
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 200, archive.Size())
}

func TestArchiveMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sequence numbers stay unique and sorted after any merges", prop.ForAll(
		func(batches [][]int) bool {
			archive := NewDrawArchive(newMemoryStore())
			expected := make(map[int]bool)
			for _, batch := range batches {
				draws := make([]models.Draw, 0, len(batch))
				for _, seq := range batch {
					draws = append(draws, testDraw(seq))
					expected[seq] = true
				}
				if err := archive.MergeUpsert(context.Background(), draws); err != nil {
					return false
				}
			}

			all := archive.All()
			if len(all) != len(expected) {
				return false
			}
			for i := 1; i < len(all); i++ {
				if all[i-1].SequenceNumber <= all[i].SequenceNumber {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.SliceOf(gen.IntRange(1, 500))),
	))

	properties.Property("merging the same batch twice equals merging it once", prop.ForAll(
		func(seqs []int) bool {
			draws := make([]models.Draw, 0, len(seqs))
			for _, seq := range seqs {
				draws = append(draws, testDraw(seq))
			}

			once := NewDrawArchive(newMemoryStore())
			twice := NewDrawArchive(newMemoryStore())
			if once.MergeUpsert(context.Background(), draws) != nil {
				return false
			}
			for i := 0; i < 2; i++ {
				if twice.MergeUpsert(context.Background(), draws) != nil {
					return false
				}
			}

			a, b := once.All(), twice.All()
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !a[i].Equal(b[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 5000)),
	))

	properties.TestingRun(t)
}
