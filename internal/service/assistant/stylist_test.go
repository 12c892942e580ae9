package assistant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/internal/service/assistant"
)

var woolItems = []catalog.Product{{SKU: "KNT-001", Name: "Chunky Sweater", Material: "Wool"}}

func TestParseStylistNumberedLines(t *testing.T) {
	raw := "Here are some ideas:\n" +
		"1. Tuck in the front - keeps the silhouette clean\n" +
		"2) Try a **button-down** collar underneath — adds structure\n" +
		"3. Go tonal\n" +
		"4. Extra tip - ignored"

	got := assistant.ParseStylistSuggestions(raw, woolItems)
	require.Len(t, got, 3)
	assert.Equal(t, assistant.StylistSuggestion{Text: "Tuck in the front", Reasoning: "keeps the silhouette clean"}, got[0])
	assert.Equal(t, assistant.StylistSuggestion{Text: "Try a button-down collar underneath", Reasoning: "adds structure"}, got[1])
	assert.Equal(t, "Go tonal", got[2].Text)
	assert.Contains(t, got[2].Reasoning, "wool")
}

func TestParseStylistSplitsOnFirstSeparatorOnly(t *testing.T) {
	got := assistant.ParseStylistSuggestions("1. Layer a t-shirt - adds depth - and warmth", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Layer a t-shirt", got[0].Text)
	assert.Equal(t, "adds depth - and warmth", got[0].Reasoning)
}

func TestParseStylistSentenceFallback(t *testing.T) {
	raw := "Short one. Pair the sweater with dark denim for contrast! " +
		"Would loafers work with a relaxed look? Add gold jewellery to lift the neutral palette. " +
		"A fourth sentence that is long enough to count."

	got := assistant.ParseStylistSuggestions(raw, woolItems)
	require.Len(t, got, 3)
	assert.Equal(t, "Pair the sweater with dark denim for contrast!", got[0].Text)
	assert.Equal(t, "Would loafers work with a relaxed look?", got[1].Text)
	assert.Equal(t, "Add gold jewellery to lift the neutral palette.", got[2].Text)
	for _, s := range got {
		assert.Contains(t, s.Reasoning, "wool")
	}
}

func TestParseStylistGenericFallback(t *testing.T) {
	for _, raw := range []string{"", "Too short. Nope!"} {
		got := assistant.ParseStylistSuggestions(raw, nil)
		assert.Equal(t, []assistant.StylistSuggestion{assistant.GenericStylistSuggestion}, got, "raw=%q", raw)
		assert.Equal(t, "Layer your pieces for depth and versatility", got[0].Text)
	}
}
