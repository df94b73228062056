package catalog_test

import (
	"context"
	"testing"

	"github.com/chadillac/order-tracker/internal/catalog"
	"github.com/chadillac/order-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Entries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	vc := testutil.NewFakeViewCache()
	service := catalog.NewService(db, vc, testutil.SilentLogger())
	ctx := context.Background()

	t.Run("add and list", func(t *testing.T) {
		_, err := service.AddEntry(ctx, "Design")
		require.NoError(t, err)
		_, err = service.AddEntry(ctx, "Research")
		require.NoError(t, err)

		entries, err := service.ListEntries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := service.AddEntry(ctx, " ")
		assert.ErrorIs(t, err, catalog.ErrEmptyName)
	})

	t.Run("mutations clear the view cache", func(t *testing.T) {
		before := vc.Clears
		_, err := service.AddEntry(ctx, "Development")
		require.NoError(t, err)
		assert.Equal(t, before+1, vc.Clears)
	})
}

func TestService_Fields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := catalog.NewService(db, nil, testutil.SilentLogger())
	ctx := context.Background()

	t.Run("add and list", func(t *testing.T) {
		_, err := service.AddField(ctx, "Referral")
		require.NoError(t, err)

		fields, err := service.ListFields(ctx)
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "Referral", fields[0].Name)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := service.AddField(ctx, "")
		assert.ErrorIs(t, err, catalog.ErrEmptyName)
	})
}
