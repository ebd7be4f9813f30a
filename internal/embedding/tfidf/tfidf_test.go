package tfidf

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRejectsEmptyCorpus(t *testing.T) {
	v := New()
	assert.Error(t, v.Fit(nil))
	assert.Error(t, v.Fit([]string{"", "..."}))
	assert.False(t, v.Fitted())
}

func TestFeaturesUnigramsAndBigrams(t *testing.T) {
	got := features("Refund policy applies")
	assert.Equal(t, []string{
		"refund", "policy", "applies",
		"refund policy", "policy applies",
	}, got)
}

func TestFeaturesSkipsShortTokens(t *testing.T) {
	// Single-character tokens are not terms.
	got := features("a refund")
	assert.Equal(t, []string{"refund"}, got)
}

func TestFitTransformShape(t *testing.T) {
	v := New()
	corpus := []string{
		"refund policy manager approval",
		"cancellation requires manager approval",
	}

	m, err := v.FitTransform(corpus)
	require.NoError(t, err)
	assert.Equal(t, len(corpus), m.Rows)
	assert.Equal(t, v.NumFeatures(), m.Cols)

	// Rows are L2-normalized.
	for i := 0; i < m.Rows; i++ {
		assert.InDelta(t, 1.0, m.RowNorm(i), 1e-9, "row %d", i)
	}
}

func TestTransformOutOfVocabularyIsZero(t *testing.T) {
	v := New()
	_, err := v.FitTransform([]string{"refund policy"})
	require.NoError(t, err)

	vec := v.Transform("weather forecast sunny")
	assert.Empty(t, vec)
	assert.Zero(t, vec.Norm())
}

func TestTransformRanksSharedTermsHigher(t *testing.T) {
	v := New()
	m, err := v.FitTransform([]string{
		"refund policy customers may request refund within days",
		"shipping times vary by region and carrier",
	})
	require.NoError(t, err)

	q := v.Transform("refund request")
	scores := m.CosineSimilarities(q)
	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], scores[1])
	assert.Greater(t, scores[0], 0.05)
	assert.LessOrEqual(t, scores[1], 1e-9)
}

func TestIDFWeightsRarerTermsHigher(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{
		"alpha common",
		"beta common",
		"gamma common",
	}))

	// "common" appears in every document, the names in one each.
	common := v.idf[v.index["common"]]
	alpha := v.idf[v.index["alpha"]]
	assert.Greater(t, alpha, common)
	assert.InDelta(t, math.Log(4.0/4.0)+1, common, 1e-12)
	assert.InDelta(t, math.Log(4.0/2.0)+1, alpha, 1e-12)
}

func TestJSONRoundTripPreservesProjection(t *testing.T) {
	v := New()
	_, err := v.FitTransform([]string{
		"refund policy customers may request refund",
		"cancellation requires manager approval",
	})
	require.NoError(t, err)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	restored := New()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.True(t, restored.Fitted())
	assert.Equal(t, v.NumFeatures(), restored.NumFeatures())

	want := v.Transform("refund cancellation")
	got := restored.Transform("refund cancellation")
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.InDelta(t, w, got[i], 1e-12)
	}
}

func TestUnmarshalRejectsMismatchedModel(t *testing.T) {
	restored := New()
	err := json.Unmarshal([]byte(`{"terms":["a b","ab"],"idf":[1.0]}`), restored)
	assert.Error(t, err)
}
