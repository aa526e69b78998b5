package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundles(t *testing.T) {
	a, b, err := loadBundles(context.Background(), "testdata/blender_a.json", "testdata/blender_b.json")
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example/dp/A1", a.URL)
	assert.Equal(t, []string{"Brand", "Capacity", "Price", "Wattage"}, a.Specifications().Keys())
	require.Len(t, a.Reviews, 2)
	assert.Equal(t, "Ice is no problem", a.Reviews[0].Title)

	assert.Equal(t, []string{"Wattage", "Price", "Capacity", "Color"}, b.Specifications().Keys())
	assert.InDelta(t, 4.2, b.RatingSummary.Average, 0.001)
}

func TestLoadBundles_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"details": {"specifications": []}}`), 0o644))

	tests := []struct {
		name    string
		a, b    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "nope.json"), "testdata/blender_b.json", "read bundle"},
		{"specifications not an object", "testdata/blender_a.json", bad, "decode bundle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadBundles(context.Background(), tt.a, tt.b)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadBundle_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loadBundle(ctx, "testdata/blender_a.json")
	assert.ErrorIs(t, err, context.Canceled)
}
