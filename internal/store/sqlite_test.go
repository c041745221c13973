package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

func TestSQLite_SavePersonsStoresRows(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.StartRun(ctx, model.RunInputs{})
	require.NoError(t, err)
	_, err = s.SavePersons(ctx, run.ID, testPersons())
	require.NoError(t, err)

	n, err := s.CountPersons(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var sex, commute *string
	var couple bool
	err = s.db.QueryRowContext(ctx,
		`SELECT sex, commute_mode, couple FROM census_persons WHERE run_id = ? AND person_id = 1`, run.ID,
	).Scan(&sex, &commute, &couple)
	require.NoError(t, err)
	assert.Nil(t, sex)
	assert.Nil(t, commute)
	assert.False(t, couple)
}

func TestSQLite_SavePersonsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	n, err := s.SavePersons(context.Background(), "run", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestNewSQLite_BadPath(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
}
