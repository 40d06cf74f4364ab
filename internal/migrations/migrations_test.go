package migrations

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_ArePairedAndEmbedded(t *testing.T) {
	names, err := fs.Glob(MigrationFiles, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %s", n)
		}
	}
	require.Equal(t, ups, downs)

	up, err := fs.ReadFile(MigrationFiles, "000001_create_orders_table.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS orders")
	require.Contains(t, string(up), "ingest_seq")
}

type fakeMigrator struct {
	version    uint
	dirty      bool
	versionErr error
	forceErr   error
	upErr      error

	forced []int
	ups    int
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = append(f.forced, version)
	if f.forceErr != nil {
		return f.forceErr
	}
	f.dirty = false
	return nil
}

func (f *fakeMigrator) Up() error {
	f.ups++
	if f.upErr != nil {
		return f.upErr
	}
	f.version = 1
	f.versionErr = nil
	return nil
}

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		m           *fakeMigrator
		autoMigrate bool
		wantErr     string
		wantForced  []int
		wantUps     int
	}{
		{
			name:        "fresh database is migrated",
			m:           &fakeMigrator{versionErr: migrate.ErrNilVersion},
			autoMigrate: true,
			wantUps:     1,
		},
		{
			name:        "up to date",
			m:           &fakeMigrator{version: 1, upErr: migrate.ErrNoChange},
			autoMigrate: true,
			wantUps:     1,
		},
		{
			name:        "dirty version is forced before up",
			m:           &fakeMigrator{version: 1, dirty: true, upErr: migrate.ErrNoChange},
			autoMigrate: true,
			wantForced:  []int{1},
			wantUps:     1,
		},
		{
			name:        "dirty version is recovered even without auto migrate",
			m:           &fakeMigrator{version: 1, dirty: true},
			autoMigrate: false,
			wantForced:  []int{1},
		},
		{
			name:        "force failure stops startup",
			m:           &fakeMigrator{version: 1, dirty: true, forceErr: errors.New("lock timeout")},
			autoMigrate: true,
			wantErr:     "failed to recover dirty migration state at version 1: lock timeout",
			wantForced:  []int{1},
		},
		{
			name:        "version failure stops startup",
			m:           &fakeMigrator{versionErr: errors.New("connection reset")},
			autoMigrate: true,
			wantErr:     "failed to get current migration version",
		},
		{
			name:        "up failure is reported",
			m:           &fakeMigrator{upErr: errors.New("syntax error")},
			autoMigrate: true,
			wantErr:     "failed to run migrations: syntax error",
			wantUps:     1,
		},
		{
			name:        "auto migrate disabled skips up",
			m:           &fakeMigrator{versionErr: migrate.ErrNilVersion},
			autoMigrate: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := apply(tc.m, tc.autoMigrate)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.wantForced, tc.m.forced)
			require.Equal(t, tc.wantUps, tc.m.ups)
		})
	}
}
