package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vesting-engine/generic"
	"github.com/warp/vesting-engine/generic/store"
)

func TestMemory_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.Create(ctx, generic.SchemeRecord{ID: "builder", Name: "Builder", ConfigJSON: "{}"}))

	rec, err := mem.Get(ctx, "builder")
	require.NoError(t, err)
	assert.Equal(t, "Builder", rec.Name)
	assert.Equal(t, 1, rec.Version)
	assert.False(t, rec.CreatedAt.IsZero())

	require.NoError(t, mem.Delete(ctx, "builder"))
	_, err = mem.Get(ctx, "builder")
	assert.ErrorIs(t, err, generic.ErrSchemeNotFound)
	assert.ErrorIs(t, mem.Delete(ctx, "builder"), generic.ErrSchemeNotFound)
}

func TestMemory_Create_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.Create(ctx, generic.SchemeRecord{ID: "a"}))
	assert.ErrorIs(t, mem.Create(ctx, generic.SchemeRecord{ID: "a"}), generic.ErrDuplicateScheme)
}

func TestMemory_Save_BumpsVersion(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.Save(ctx, generic.SchemeRecord{ID: "a", Name: "v1"}))
	require.NoError(t, mem.Save(ctx, generic.SchemeRecord{ID: "a", Name: "v2"}))

	rec, err := mem.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
	assert.Equal(t, "v2", rec.Name)
}

func TestMemory_List_SortedByID(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	for _, id := range []generic.SchemeID{"slow", "builder", "front"} {
		require.NoError(t, mem.Create(ctx, generic.SchemeRecord{ID: id}))
	}

	recs, err := mem.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, generic.SchemeID("builder"), recs[0].ID)
	assert.Equal(t, generic.SchemeID("slow"), recs[2].ID)
}
