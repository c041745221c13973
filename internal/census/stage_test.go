package census

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
	"github.com/lvmt-matsim/ile-de-france/internal/spatial"
)

type mapConfig map[string]any

func (m mapConfig) Get(key string) any { return m[key] }
func (m mapConfig) IsSet(key string) bool {
	_, ok := m[key]
	return ok
}

func writeFixtures(t *testing.T, codes string) mapConfig {
	t.Helper()
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "census.csv")
	codesPath := filepath.Join(dir, "codes.csv")
	require.NoError(t, os.WriteFile(rawPath, []byte(rawBody), 0o644))
	require.NoError(t, os.WriteFile(codesPath, []byte(codes), 0o644))
	return mapConfig{
		"census.raw_path":    rawPath,
		"spatial.codes_path": codesPath,
	}
}

func newRunner(cfg mapConfig) *pipeline.Runner {
	reg := pipeline.NewRegistry(RawStage{}, spatial.Stage{}, &Stage{})
	return pipeline.NewRunner(reg, cfg)
}

func TestStage_Pipeline(t *testing.T) {
	cfg := writeFixtures(t, "CODE_IRIS;DEPCOM;DEP\n751010101;75101;75\n920040000;92004;92\n")

	v, err := newRunner(cfg).Run(context.Background(), StageName)
	require.NoError(t, err)

	table, ok := v.(*Table)
	require.True(t, ok)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.HouseholdCount())
	assert.Equal(t, 2, table.Persons[0].HouseholdSize)
}

func TestStage_UnknownCodeFailsPipeline(t *testing.T) {
	cfg := writeFixtures(t, "CODE_IRIS;DEPCOM;DEP\n751010101;75101;75\n")

	r := newRunner(cfg)
	_, err := r.Run(context.Background(), StageName)
	require.Error(t, err)

	var unknown *UnknownCodesError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"92004"}, unknown.Codes)
	assert.False(t, r.Cached(StageName))
	assert.True(t, r.Cached(RawStageName))
}

func TestRawStage_RequiresPath(t *testing.T) {
	_, err := newRunner(mapConfig{}).Run(context.Background(), RawStageName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census.raw_path is not set")
}
