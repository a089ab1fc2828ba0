package metadata

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	appID    = PackageID("app 0.1.0 (path+file:///ws/app)")
	appGenID = PackageID("app_gen 0.1.0 (path+file:///ws/app_gen)")
	serdeID  = PackageID("serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)")
)

func decodeFixture(t *testing.T) *Workspace {
	t.Helper()
	f, err := os.Open("testdata/metadata.json")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	ws, err := Decode(f)
	require.NoError(t, err)
	return ws
}

func TestDecode(t *testing.T) {
	ws := decodeFixture(t)

	assert.Equal(t, "/ws", ws.Root)
	assert.Equal(t, []PackageID{appID, appGenID}, ws.Members)
	require.Len(t, ws.Packages, 3)

	app, ok := ws.Package(appID)
	require.True(t, ok)
	assert.Equal(t, "app", app.Name)
	assert.Equal(t, "/ws/app", app.Dir())
	assert.NotNil(t, app.Metadata)
	assert.Equal(t, []Dependency{
		{ID: serdeID, DevOnly: false},
		{ID: appGenID, DevOnly: true},
	}, app.Dependencies)

	gen, ok := ws.Package(appGenID)
	require.True(t, ok)
	assert.Nil(t, gen.Metadata, "a null metadata table is dropped")
	assert.True(t, gen.HasBinary("app_gen"))
	assert.False(t, app.HasBinary("app"), "library targets are not binaries")

	// A build+dev link is not dev-only.
	assert.Equal(t, []Dependency{{ID: serdeID, DevOnly: false}}, gen.Dependencies)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, err := Decode(strings.NewReader("{"))
		assert.ErrorContains(t, err, "decode cargo metadata")
	})
	t.Run("missing workspace root", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"packages": []}`))
		assert.ErrorContains(t, err, "missing workspace_root")
	})
	t.Run("no resolve section", func(t *testing.T) {
		ws, err := Decode(strings.NewReader(`{"packages": [{"id": "a", "name": "a", "manifest_path": "/w/a/Cargo.toml"}], "workspace_members": ["a"], "workspace_root": "/w", "resolve": null}`))
		require.NoError(t, err)
		a, _ := ws.Package("a")
		assert.Empty(t, a.Dependencies)
	})
}

func TestWorkspace_Queries(t *testing.T) {
	ws := decodeFixture(t)

	p, ok := ws.MemberByName("app_gen")
	require.True(t, ok)
	assert.Equal(t, appGenID, p.ID)
	_, ok = ws.MemberByName("serde")
	assert.False(t, ok, "non-members cannot be selected by name")

	assert.ElementsMatch(t, []Dependency{
		{ID: appID, DevOnly: false},
		{ID: appGenID, DevOnly: false},
	}, ws.Dependents(serdeID))
	assert.Equal(t, []Dependency{{ID: appID, DevOnly: true}}, ws.Dependents(appGenID))
	assert.Empty(t, ws.Dependents(appID))
}

func TestDependsCache(t *testing.T) {
	a := &Package{ID: "a", Dependencies: []Dependency{{ID: "b"}}}
	b := &Package{ID: "b", Dependencies: []Dependency{{ID: "c", DevOnly: true}}}
	c := &Package{ID: "c", Dependencies: []Dependency{{ID: "a", DevOnly: true}}}
	d := &Package{ID: "d"}
	ws := NewWorkspace("/w", []PackageID{"a", "b", "c", "d"}, []*Package{a, b, c, d})

	cache := ws.NewDependsCache()
	assert.True(t, cache.DependsOn("a", "b"))
	assert.True(t, cache.DependsOn("a", "c"), "dev links are followed")
	assert.True(t, cache.DependsOn("c", "b"))
	assert.False(t, cache.DependsOn("d", "a"))
	assert.False(t, cache.DependsOn("a", "d"))
	// Second query hits the memoised closure.
	assert.True(t, cache.DependsOn("a", "c"))
}

func TestCargoProvider_SpawnFailure(t *testing.T) {
	p := &CargoProvider{CargoPath: "/definitely/not/a/cargo/binary"}
	_, err := p.Fetch(context.Background())
	assert.ErrorContains(t, err, "failed to execute `cargo metadata`")
}
