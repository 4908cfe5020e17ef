package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vesting-engine/bitcoin"
	"github.com/warp/vesting-engine/factory"
	"github.com/warp/vesting-engine/generic"
	"github.com/warp/vesting-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func builderRecord(t *testing.T) generic.SchemeRecord {
	doc, ok := bitcoin.PresetJSON(bitcoin.PresetBuilder)
	require.True(t, ok)
	return generic.SchemeRecord{ID: bitcoin.PresetBuilder, Name: "Builder", ConfigJSON: doc, Preset: true}
}

// =============================================================================
// SCHEME STORE TESTS
// =============================================================================

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Create(ctx, builderRecord(t)))

	rec, err := store.Get(ctx, bitcoin.PresetBuilder)
	require.NoError(t, err)
	assert.Equal(t, "Builder", rec.Name)
	assert.True(t, rec.Preset)
	assert.Equal(t, 1, rec.Version)
	assert.False(t, rec.CreatedAt.IsZero())

	// The stored document still parses into the same scheme
	scheme, err := factory.NewSchemeFactory().ParseScheme(rec.ConfigJSON)
	require.NoError(t, err)
	assert.Equal(t, 5, scheme.MaxAnnualGrantYears)
}

func TestStore_Create_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Create(ctx, builderRecord(t)))
	err := store.Create(ctx, builderRecord(t))
	assert.ErrorIs(t, err, generic.ErrDuplicateScheme)
}

func TestStore_Save_BumpsVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := builderRecord(t)
	require.NoError(t, store.Save(ctx, rec))
	rec.Name = "Builder v2"
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "Builder v2", got.Name)
}

func TestStore_Save_InvalidJSON(t *testing.T) {
	err := newTestStore(t).Save(context.Background(), generic.SchemeRecord{ID: "x", ConfigJSON: "{not json"})
	assert.ErrorIs(t, err, generic.ErrInvalidScheme)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := newTestStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, generic.ErrSchemeNotFound)
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, p := range bitcoin.Presets() {
		doc, _ := bitcoin.PresetJSON(p.ID)
		require.NoError(t, store.Create(ctx, generic.SchemeRecord{ID: p.ID, Name: p.Name, ConfigJSON: doc, Preset: true}))
	}

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, bitcoin.PresetBuilder, recs[0].ID)

	require.NoError(t, store.Delete(ctx, bitcoin.PresetBuilder))
	assert.ErrorIs(t, store.Delete(ctx, bitcoin.PresetBuilder), generic.ErrSchemeNotFound)

	recs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	require.NoError(t, store.Reset(ctx))
	recs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
