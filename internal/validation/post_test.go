package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeta() Meta {
	return Meta{
		Slug:   "props-vs-state",
		Title:  "Props vs State in React",
		Date:   time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
		Author: "mara",
		Tags:   []string{"react", "javascript"},
	}
}

func TestValidateMetaOK(t *testing.T) {
	assert.Empty(t, ValidateMeta(validMeta()))

	// Tags are optional.
	m := validMeta()
	m.Tags = nil
	assert.Empty(t, ValidateMeta(m))
}

func TestValidateMetaRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Meta)
		want   string
	}{
		{"missing slug", func(m *Meta) { m.Slug = "" }, "slug is required"},
		{"missing title", func(m *Meta) { m.Title = "" }, "title is required"},
		{"missing date", func(m *Meta) { m.Date = time.Time{} }, "date is required"},
		{"missing author", func(m *Meta) { m.Author = "" }, "author is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMeta()
			tt.mutate(&m)
			assert.Contains(t, ValidateMeta(m), tt.want)
		})
	}
}

func TestValidateMetaSlugShape(t *testing.T) {
	bad := []string{"Props-Vs-State", "props vs state", "props_vs_state", "-props", "props-", "props--state", "props/vs"}
	for _, slug := range bad {
		m := validMeta()
		m.Slug = slug
		msgs := ValidateMeta(m)
		require.NotEmpty(t, msgs, slug)
		assert.Contains(t, msgs[0], "not URL-safe", slug)
	}

	good := []string{"a", "props-vs-state", "react-18", "101-tips"}
	for _, slug := range good {
		m := validMeta()
		m.Slug = slug
		assert.Empty(t, ValidateMeta(m), slug)
	}
}

func TestValidateMetaDuplicateTags(t *testing.T) {
	m := validMeta()
	m.Tags = []string{"react", "react"}
	assert.Contains(t, ValidateMeta(m), "tags contain duplicates")
}

func TestDecodeMeta(t *testing.T) {
	raw := map[string]any{
		"slug":   "hooks-intro",
		"title":  "An Intro to Hooks",
		"date":   "2024-05-02",
		"author": "sam",
		"tags":   []any{"react", "hooks"},
		"series": "react-basics",
	}

	m, err := DecodeMeta(raw)
	require.NoError(t, err)

	assert.Equal(t, "hooks-intro", m.Slug)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), m.Date)
	assert.Equal(t, []string{"react", "hooks"}, m.Tags)
	assert.Equal(t, "react-basics", m.Extra["series"])
}

func TestDecodeMetaBadDate(t *testing.T) {
	_, err := DecodeMeta(map[string]any{"date": "yesterday"})
	require.Error(t, err)

	_, err = DecodeMeta(map[string]any{"date": 20240502})
	require.Error(t, err)
}

func TestDecodeMetaBadTags(t *testing.T) {
	_, err := DecodeMeta(map[string]any{"tags": "react"})
	require.Error(t, err)

	_, err = DecodeMeta(map[string]any{"tags": []any{"react", 7}})
	require.Error(t, err)
}

func TestMetaRoundTrip(t *testing.T) {
	m := validMeta()
	m.Description = "Understanding data flow."
	m.Extra = map[string]any{"series": "react-basics"}

	encoded, err := EncodeMeta(m)
	require.NoError(t, err)

	decoded, err := ParseMeta(encoded)
	require.NoError(t, err)

	assert.Equal(t, m.Slug, decoded.Slug)
	assert.Equal(t, m.Title, decoded.Title)
	assert.True(t, m.Date.Equal(decoded.Date))
	assert.Equal(t, m.Author, decoded.Author)
	assert.ElementsMatch(t, m.Tags, decoded.Tags)
	assert.Equal(t, m.Description, decoded.Description)
	assert.Equal(t, "react-basics", decoded.Extra["series"])
}

func TestMetaRoundTripTimestamp(t *testing.T) {
	m := validMeta()
	m.Date = time.Date(2024, 3, 18, 9, 30, 0, 0, time.UTC)

	encoded, err := EncodeMeta(m)
	require.NoError(t, err)

	decoded, err := ParseMeta(encoded)
	require.NoError(t, err)
	assert.True(t, m.Date.Equal(decoded.Date))
}
