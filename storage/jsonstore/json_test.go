package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poundbot/guildbot/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, dir string) *JSON {
	t.Helper()
	j := NewJSON(dir)
	require.NoError(t, j.Init())
	return j
}

func TestJSON_UpsertPersists(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	j := newStore(t, dir)
	require.NoError(t, j.Upsert(types.Guild{ServerID: "100", Name: "Foo", LeaderID: "1", RoleID: "r1"}))
	require.NoError(t, j.Upsert(types.Guild{ServerID: "100", Name: "Bar", LeaderID: "2", RoleID: "r2"}))
	require.NoError(t, j.Upsert(types.Guild{ServerID: "200", Name: "Baz", LeaderID: "3", RoleID: "r3"}))
	require.NoError(t, j.Upsert(types.Guild{ServerID: "100", Name: "Foo", LeaderID: "4", RoleID: "r1"}))

	reloaded := newStore(t, dir)
	all, err := reloaded.All()
	require.NoError(t, err)

	r := types.NewRegistry(all)
	assert.Len(t, r, 2)
	assert.Equal(t, []string{"Bar", "Foo"}, r["100"].Names())
	assert.Equal(t, "4", r["100"]["Foo"].LeaderID)
	assert.Equal(t, "r3", r["200"]["Baz"].RoleID)
}

func TestJSON_Remove(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	j := newStore(t, dir)
	require.NoError(t, j.Upsert(types.Guild{ServerID: "100", Name: "Foo", LeaderID: "1", RoleID: "r1"}))
	require.NoError(t, j.Upsert(types.Guild{ServerID: "100", Name: "Bar", LeaderID: "2", RoleID: "r2"}))

	require.NoError(t, j.Remove("100", "Foo"))
	require.NoError(t, j.Remove("100", "Bar"))
	require.NoError(t, j.Remove("100", "Never"))

	_, err := os.Stat(filepath.Join(dir, guildsCollection, "100.json"))
	assert.True(t, os.IsNotExist(err), "empty server file should be removed")

	all, err := newStore(t, dir).All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJSON_RemoveServer(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	j := newStore(t, dir)
	require.NoError(t, j.Upsert(types.Guild{ServerID: "100", Name: "Foo", LeaderID: "1", RoleID: "r1"}))
	require.NoError(t, j.Upsert(types.Guild{ServerID: "200", Name: "Bar", LeaderID: "2", RoleID: "r2"}))

	require.NoError(t, j.RemoveServer("100"))
	require.NoError(t, j.RemoveServer("300"))

	all, err := newStore(t, dir).All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bar", all[0].Name)
}

func TestJSON_SchemaVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "same major", version: "1.4.0"},
		{name: "newer major", version: "2.0.0", wantErr: true},
		{name: "garbage", version: "one", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(dir, metaCollection), os.ModePerm))
			require.NoError(t, os.WriteFile(
				filepath.Join(dir, metaCollection, schemaResource+".json"),
				[]byte(`{"version":"`+tt.version+`"}`),
				0644,
			))

			err := NewJSON(dir).Init()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
