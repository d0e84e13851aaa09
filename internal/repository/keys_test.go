package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyEncoding(t *testing.T) {
	t.Run("TabKey", func(t *testing.T) {
		key := tabKey("abc-123")
		assert.Equal(t, "tab", key.PartitionKey)
		assert.Equal(t, "abc-123", key.SortKey)
	})

	t.Run("TagKey", func(t *testing.T) {
		key := tagKey("work")
		assert.Equal(t, "tag", key.PartitionKey)
		assert.Equal(t, "work", key.SortKey)
	})

	t.Run("TabTagKeyIsDeterministic", func(t *testing.T) {
		a := tabTagKey("tab-1", "work")
		b := tabTagKey("tab-1", "work")
		assert.Equal(t, a, b)
		assert.Equal(t, "tab_tag", a.PartitionKey)
		assert.Equal(t, "tab-1#work", a.SortKey)
	})

	t.Run("TabTagSortPrefixMatchesOnlyThatTab", func(t *testing.T) {
		prefix := tabTagSortPrefix("tab-1")
		assert.Equal(t, "tab-1#", prefix)

		// A tab id sharing a prefix must not collide.
		other := tabTagKey("tab-12", "work")
		assert.NotEqual(t, prefix, other.SortKey[:len(prefix)])
	})
}

func TestTimeLayoutOrdering(t *testing.T) {
	// Lexicographic order of encoded timestamps must match chronological
	// order, including sub-second differences.
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	earlier := base.Format(timeLayout)
	later := base.Add(500 * time.Nanosecond).Format(timeLayout)
	muchLater := base.Add(2 * time.Hour).Format(timeLayout)

	assert.Less(t, earlier, later)
	assert.Less(t, later, muchLater)
	assert.Len(t, earlier, len(later))
}
