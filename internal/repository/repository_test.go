package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tabman-backend/internal/store"
	"tabman-backend/internal/store/memory"
	appErrors "tabman-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository() (Repository, *memory.Store) {
	mem := memory.New()
	repo := NewWithRetryConfig(mem, RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	})
	return repo, mem
}

func TestSaveAndGetTab(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		saved, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "some notes")
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)

		got, err := repo.GetTab(ctx, saved.ID)
		require.NoError(t, err)

		assert.Equal(t, saved.ID, got.ID)
		assert.Equal(t, "https://a.com", got.URL)
		assert.Equal(t, "Alpha", got.Title)
		assert.Equal(t, "some notes", got.Notes)
		assert.False(t, got.Archived)
		assert.Empty(t, got.Tags)
	})

	t.Run("EmptyURLRejectedBeforeStore", func(t *testing.T) {
		_, err := repo.SaveTab(ctx, "", "title", "")
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetTab(ctx, "missing-id")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})
}

func TestListTabs(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	first, err := repo.SaveTab(ctx, "https://first.com", "First", "")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := repo.SaveTab(ctx, "https://second.com", "Second", "")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	third, err := repo.SaveTab(ctx, "https://third.com", "Third", "")
	require.NoError(t, err)

	_, err = repo.SetArchived(ctx, second.ID, true)
	require.NoError(t, err)

	t.Run("ActiveNewestFirst", func(t *testing.T) {
		active, err := repo.ListTabs(ctx, false)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, third.ID, active[0].ID)
		assert.Equal(t, first.ID, active[1].ID)
	})

	t.Run("Archived", func(t *testing.T) {
		archived, err := repo.ListTabs(ctx, true)
		require.NoError(t, err)
		require.Len(t, archived, 1)
		assert.Equal(t, second.ID, archived[0].ID)
	})

	t.Run("EmptyResultIsNotAnError", func(t *testing.T) {
		empty, _ := newTestRepository()
		tabs, err := empty.ListTabs(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, tabs)
	})
}

func TestSetArchived(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	tab, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "notes")
	require.NoError(t, err)
	require.NoError(t, repo.AttachTag(ctx, tab.ID, "work"))

	t.Run("RoundTripPreservesEverythingElse", func(t *testing.T) {
		archived, err := repo.SetArchived(ctx, tab.ID, true)
		require.NoError(t, err)
		assert.True(t, archived.Archived)

		restored, err := repo.SetArchived(ctx, tab.ID, false)
		require.NoError(t, err)
		assert.False(t, restored.Archived)

		got, err := repo.GetTab(ctx, tab.ID)
		require.NoError(t, err)
		assert.Equal(t, tab.URL, got.URL)
		assert.Equal(t, tab.Title, got.Title)
		assert.Equal(t, tab.Notes, got.Notes)
		assert.Equal(t, []string{"work"}, got.Tags)
	})

	t.Run("SettingSameValueIsNoOp", func(t *testing.T) {
		before, err := repo.GetTab(ctx, tab.ID)
		require.NoError(t, err)

		after, err := repo.SetArchived(ctx, tab.ID, before.Archived)
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.SetArchived(ctx, "missing-id", true)
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})
}

func TestAttachTag(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	tab, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "")
	require.NoError(t, err)

	t.Run("AttachIsIdempotent", func(t *testing.T) {
		require.NoError(t, repo.AttachTag(ctx, tab.ID, "work"))
		require.NoError(t, repo.AttachTag(ctx, tab.ID, "work"))

		assocs, err := repo.AllAssociations(ctx)
		require.NoError(t, err)
		require.Len(t, assocs, 1)
		assert.Equal(t, tab.ID, assocs[0].TabID)
		assert.Equal(t, "work", assocs[0].TagName)
	})

	t.Run("TagCreatedOnFirstUse", func(t *testing.T) {
		tags, err := repo.ListTags(ctx)
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "work", tags[0].Name)
	})

	t.Run("ExistingTagReused", func(t *testing.T) {
		other, err := repo.SaveTab(ctx, "https://b.com", "Beta", "")
		require.NoError(t, err)
		require.NoError(t, repo.AttachTag(ctx, other.ID, "work"))

		tags, err := repo.ListTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 1)
	})

	t.Run("TabNotFound", func(t *testing.T) {
		err := repo.AttachTag(ctx, "missing-id", "work")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})

	t.Run("EmptyTagName", func(t *testing.T) {
		err := repo.AttachTag(ctx, tab.ID, "")
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestTagNameNormalization(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	tab, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "")
	require.NoError(t, err)
	require.NoError(t, repo.AttachTag(ctx, tab.ID, "  work  "))

	t.Run("AssociationStoresTrimmedName", func(t *testing.T) {
		got, err := repo.GetTab(ctx, tab.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"work"}, got.Tags)
	})

	t.Run("TagEntityAndAssociationAgree", func(t *testing.T) {
		tags, err := repo.ListTags(ctx)
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "work", tags[0].Name)
	})

	t.Run("TagIndexFindsTheTab", func(t *testing.T) {
		tabs, err := repo.TabsByTag(ctx, "work")
		require.NoError(t, err)
		require.Len(t, tabs, 1)
		assert.Equal(t, tab.ID, tabs[0].ID)
	})

	t.Run("PaddedAndTrimmedFormsAreOneAssociation", func(t *testing.T) {
		require.NoError(t, repo.AttachTag(ctx, tab.ID, "work"))

		assocs, err := repo.AllAssociations(ctx)
		require.NoError(t, err)
		assert.Len(t, assocs, 1)
	})

	t.Run("DetachAcceptsPaddedName", func(t *testing.T) {
		require.NoError(t, repo.DetachTag(ctx, tab.ID, " work "))

		got, err := repo.GetTab(ctx, tab.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Tags)
	})
}

func TestDetachTag(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	tab, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "")
	require.NoError(t, err)
	require.NoError(t, repo.AttachTag(ctx, tab.ID, "work"))
	require.NoError(t, repo.AttachTag(ctx, tab.ID, "news"))

	t.Run("RemovesOnlyTheAssociation", func(t *testing.T) {
		require.NoError(t, repo.DetachTag(ctx, tab.ID, "work"))

		got, err := repo.GetTab(ctx, tab.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"news"}, got.Tags)

		// The tag entity itself survives.
		tags, err := repo.ListTags(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(tags))
		for _, tag := range tags {
			names = append(names, tag.Name)
		}
		assert.Contains(t, names, "work")
	})

	t.Run("NotAttachedDistinguishedFromMissingTab", func(t *testing.T) {
		err := repo.DetachTag(ctx, tab.ID, "never-attached")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
		assert.Equal(t, "tab_tag", appErrors.ResourceOf(err))

		err = repo.DetachTag(ctx, "missing-id", "work")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
		assert.Equal(t, "tab", appErrors.ResourceOf(err))
	})

	t.Run("DoesNotMutateOtherAssociations", func(t *testing.T) {
		got, err := repo.GetTab(ctx, tab.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"news"}, got.Tags)
	})
}

func TestDeleteTab(t *testing.T) {
	ctx := context.Background()

	t.Run("CascadeRemovesAllAssociations", func(t *testing.T) {
		repo, _ := newTestRepository()

		tab, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "")
		require.NoError(t, err)
		for _, tag := range []string{"work", "news", "golang"} {
			require.NoError(t, repo.AttachTag(ctx, tab.ID, tag))
		}

		require.NoError(t, repo.DeleteTab(ctx, tab.ID))

		_, err = repo.GetTab(ctx, tab.ID)
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))

		assocs, err := repo.AllAssociations(ctx)
		require.NoError(t, err)
		assert.Empty(t, assocs)

		// Tags survive orphaning.
		tags, err := repo.ListTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 3)
	})

	t.Run("RetriesUnprocessedBatchItems", func(t *testing.T) {
		repo, mem := newTestRepository()

		tab, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "")
		require.NoError(t, err)
		for _, tag := range []string{"work", "news", "golang"} {
			require.NoError(t, repo.AttachTag(ctx, tab.ID, tag))
		}

		mem.FailBatchWriteOnce(2)
		require.NoError(t, repo.DeleteTab(ctx, tab.ID))
		assert.Equal(t, 2, mem.BatchWriteCalls())

		assocs, err := repo.AllAssociations(ctx)
		require.NoError(t, err)
		assert.Empty(t, assocs)

		_, err = repo.GetTab(ctx, tab.ID)
		assert.True(t, appErrors.IsNotFound(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, _ := newTestRepository()
		err := repo.DeleteTab(ctx, "missing-id")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})
}

func TestTabsByTag(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	first, err := repo.SaveTab(ctx, "https://a.com", "Alpha", "")
	require.NoError(t, err)
	second, err := repo.SaveTab(ctx, "https://b.com", "Beta", "")
	require.NoError(t, err)
	third, err := repo.SaveTab(ctx, "https://c.com", "Gamma", "")
	require.NoError(t, err)

	require.NoError(t, repo.AttachTag(ctx, first.ID, "work"))
	require.NoError(t, repo.AttachTag(ctx, second.ID, "work"))
	require.NoError(t, repo.AttachTag(ctx, third.ID, "news"))

	t.Run("ResolvesExactlyTheTaggedTabs", func(t *testing.T) {
		tabs, err := repo.TabsByTag(ctx, "work")
		require.NoError(t, err)

		ids := make([]string, 0, len(tabs))
		for _, tab := range tabs {
			ids = append(ids, tab.ID)
		}
		assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	})

	t.Run("UnknownTagReturnsNothing", func(t *testing.T) {
		tabs, err := repo.TabsByTag(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, tabs)
	})
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("StoreErrorSurfacesAsStorage", func(t *testing.T) {
		repo, mem := newTestRepository()
		mem.SetError("Query", errors.New("backend unavailable"))

		_, err := repo.ListTabs(ctx, false)
		require.Error(t, err)
		assert.True(t, appErrors.IsStorage(err))
	})

	t.Run("MalformedRecordDecodesToStorage", func(t *testing.T) {
		repo, mem := newTestRepository()

		// A tab item missing its URL is rejected at the decode boundary
		// instead of propagating a loosely-typed record upward.
		bogus := store.Item{
			store.AttrPK: &types.AttributeValueMemberS{Value: "tab"},
			store.AttrSK: &types.AttributeValueMemberS{Value: "broken-tab"},
			"EntityType": &types.AttributeValueMemberS{Value: "tab"},
		}
		require.NoError(t, mem.PutItem(ctx, bogus))

		_, err := repo.GetTab(ctx, "broken-tab")
		require.Error(t, err)
		assert.True(t, appErrors.IsStorage(err))
	})
}
