package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItems_NilAndEmpty(t *testing.T) {
	assert.Empty(t, Items(nil))
	assert.Empty(t, Items(map[string]any{}))

	raw, err := DecodeJSON([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, Items(raw))

	raw, err = DecodeJSON([]byte("  "))
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestItems_KeyBecomesID(t *testing.T) {
	raw, err := DecodeJSON([]byte(`{
		"-Nb2": {"name": "Blue Chair", "price": 80},
		"-Na1": {"id": "own-id", "name": "Red Chair", "price": "120"}
	}`))
	require.NoError(t, err)

	items := Items(raw)
	require.Len(t, items, 2)

	assert.Equal(t, "own-id", items[0].ID)
	assert.Equal(t, "Red Chair", items[0].Name)
	assert.Equal(t, "120", items[0].Price)

	assert.Equal(t, "-Nb2", items[1].ID)
	assert.Equal(t, "80", items[1].Price)
}

func TestItems_ArrayUsesPositionalIndex(t *testing.T) {
	raw, err := DecodeJSON([]byte(`[null, {"name": "a"}, {"name": "b"}]`))
	require.NoError(t, err)

	items := Items(raw)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}

func TestItems_IntegerKeysFirst(t *testing.T) {
	raw := map[string]any{
		"b":  map[string]any{"name": "b"},
		"10": map[string]any{"name": "ten"},
		"2":  map[string]any{"name": "two"},
		"a":  map[string]any{"name": "a"},
	}
	items := Items(raw)
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"two", "ten", "a", "b"}, names)
}

func TestItems_SkipKeysAndNonObjects(t *testing.T) {
	raw := map[string]any{
		"settings": map[string]any{"adminWhatsapp": "919000000000"},
		"e1":       map[string]any{"title": "Fair", "date": "25 Aug 2025", "location": "Gobi"},
		"junk":     "not a record",
	}
	items := Items(raw, "settings")
	require.Len(t, items, 1)
	assert.Equal(t, "e1", items[0].ID)
	assert.Equal(t, "Fair", items[0].Title)
	assert.True(t, items[0].HasTitle)
	assert.False(t, items[0].HasName)
}

func TestItems_FieldPresence(t *testing.T) {
	items := Items(map[string]any{
		"x": map[string]any{"name": "", "category": nil, "rating": 4.0, "timestamp": "1700"},
	})
	require.Len(t, items, 1)
	assert.True(t, items[0].HasName)
	assert.False(t, items[0].HasCategory)
	assert.Equal(t, 4.0, items[0].Rating)
	assert.Equal(t, 1700.0, items[0].Timestamp)
}

func TestDecodeYAML(t *testing.T) {
	raw, err := DecodeYAML([]byte(`
p1:
  name: Red Chair
  category: Furniture
  price: 120
p2:
  name: Blue Chair
  price: "80"
`))
	require.NoError(t, err)

	items := Items(raw)
	require.Len(t, items, 2)
	assert.Equal(t, "120", items[0].Price)
	assert.Equal(t, "Furniture", items[0].Category)
	assert.Equal(t, "80", items[1].Price)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON([]byte("{"))
	assert.Error(t, err)
}

func TestCategoriesAndBanners(t *testing.T) {
	cats := Categories(map[string]any{
		"c1": map[string]any{"title": "Plumbing", "group": "Home"},
		"c2": map[string]any{"title": "Tailor"},
	})
	require.Len(t, cats, 2)
	assert.Equal(t, "Home", cats[0].Group)
	assert.Equal(t, "", cats[1].Group)

	banners := Banners([]any{"https://img/1.png", map[string]any{"image": "https://img/2.png"}, map[string]any{}})
	require.Len(t, banners, 2)
	assert.Equal(t, "https://img/1.png", banners[0].URL)
	assert.Equal(t, "1", banners[1].ID)
}

func TestString(t *testing.T) {
	assert.Equal(t, "919000000000", String("919000000000"))
	assert.Equal(t, "919000000000", String(919000000000.0))
	assert.Equal(t, "", String(nil))
}
