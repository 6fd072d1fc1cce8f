// pkg/vocabulary/vocabulary_test.go
package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocabulary.json")
		content := `{
			"version": "test",
			"products": [{"name": "tea", "hsnCode": "0902"}],
			"countries": [{"name": "India", "region": "Asia"}],
			"importTriggers": ["import"],
			"exportTriggers": ["export"]
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		voc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "test", voc.Version)
		assert.Len(t, voc.Products, 1)
		assert.Len(t, voc.Countries, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocabulary.json")
		require.NoError(t, os.WriteFile(path, []byte("not-json"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("empty tables rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocabulary.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"x"}`), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestNormalizeCountry(t *testing.T) {
	voc := Default()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "India", expected: "India"},
		{input: "india", expected: "India"},
		{input: "usa", expected: "United States"},
		{input: "Britain", expected: "United Kingdom"},
		{input: " eu ", expected: "European Union"},
		{input: "Atlantis", expected: "Atlantis"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, voc.NormalizeCountry(tt.input))
	}
}

func TestRegionOf(t *testing.T) {
	voc := Default()

	assert.Equal(t, "Asia", voc.RegionOf("India"))
	assert.Equal(t, "Americas", voc.RegionOf("United States"))
	assert.Equal(t, "", voc.RegionOf("Atlantis"))
}

func TestProductByName(t *testing.T) {
	voc := Default()

	p, ok := voc.ProductByName("tea")
	require.True(t, ok)
	assert.Equal(t, "0902", p.HSNCode)

	p, ok = voc.ProductByName("medicines")
	require.True(t, ok)
	assert.Equal(t, "pharmaceuticals", p.Name)

	_, ok = voc.ProductByName("unobtainium")
	assert.False(t, ok)
}

func TestProductByHSN(t *testing.T) {
	voc := Default()

	p, ok := voc.ProductByHSN("8414")
	require.True(t, ok)
	assert.Equal(t, "gas compressors", p.Name)

	_, ok = voc.ProductByHSN("9999")
	assert.False(t, ok)
}
