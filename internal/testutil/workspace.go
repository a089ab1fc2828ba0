package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cargopx/internal/metadata"
	"gopkg.in/yaml.v3"
)

// WorkspaceSpec is the YAML shape of a workspace fixture:
//
//	root: /ws
//	packages:
//	  - name: api
//	    deps: [api_types]
//	    px: {generator: api_gen, verifier: api_check}
//	  - name: api_gen
//	    bins: [api_gen]
type WorkspaceSpec struct {
	Root     string        `yaml:"root"`
	Packages []PackageSpec `yaml:"packages"`
}

// PackageSpec describes one package of a fixture. Package ids are the names.
type PackageSpec struct {
	Name string `yaml:"name"`
	// External packages are part of the graph but not workspace members.
	External bool     `yaml:"external"`
	Path     string   `yaml:"path"`
	Bins     []string `yaml:"bins"`
	Deps     []string `yaml:"deps"`
	DevDeps  []string `yaml:"dev_deps"`
	Px       *PxSpec  `yaml:"px"`
	// RawMetadata replaces the generated metadata table verbatim.
	RawMetadata string `yaml:"raw_metadata"`
}

// PxSpec is the codegen configuration of a fixture package.
type PxSpec struct {
	Generator     string   `yaml:"generator"`
	GeneratorArgs []string `yaml:"generator_args"`
	Verifier      string   `yaml:"verifier"`
	VerifierArgs  []string `yaml:"verifier_args"`
}

// DecodeWorkspaceSpec decodes a YAML fixture, defaulting the root to /ws.
func DecodeWorkspaceSpec(t *testing.T, doc string) *WorkspaceSpec {
	t.Helper()

	var spec WorkspaceSpec
	require.NoError(t, yaml.Unmarshal([]byte(doc), &spec), "invalid workspace fixture")
	if spec.Root == "" {
		spec.Root = "/ws"
	}
	return &spec
}

// ParseWorkspaceYAML builds a metadata.Workspace from a YAML fixture.
func ParseWorkspaceYAML(t *testing.T, doc string) *metadata.Workspace {
	t.Helper()
	return DecodeWorkspaceSpec(t, doc).Workspace(t)
}

// LoadWorkspaceSpec reads a YAML fixture from disk. A non-empty root replaces
// the one declared in the fixture.
func LoadWorkspaceSpec(t *testing.T, path, root string) *WorkspaceSpec {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	spec := DecodeWorkspaceSpec(t, string(data))
	if root != "" {
		spec.Root = root
	}
	return spec
}

// Workspace builds the metadata.Workspace described by the fixture.
func (s *WorkspaceSpec) Workspace(t *testing.T) *metadata.Workspace {
	t.Helper()

	var members []metadata.PackageID
	packages := make([]*metadata.Package, 0, len(s.Packages))
	for _, ps := range s.Packages {
		pkg := &metadata.Package{
			ID:           metadata.PackageID(ps.Name),
			Name:         ps.Name,
			ManifestPath: s.manifestPath(ps),
			Targets:      ps.targets(),
		}
		for _, dep := range ps.Deps {
			pkg.Dependencies = append(pkg.Dependencies, metadata.Dependency{ID: metadata.PackageID(dep)})
		}
		for _, dep := range ps.DevDeps {
			pkg.Dependencies = append(pkg.Dependencies, metadata.Dependency{ID: metadata.PackageID(dep), DevOnly: true})
		}
		pkg.Metadata = ps.metadata(t)
		packages = append(packages, pkg)
		if !ps.External {
			members = append(members, pkg.ID)
		}
	}
	return metadata.NewWorkspace(s.Root, members, packages)
}

// CargoMetadata renders the fixture as `cargo metadata --format-version 1`
// output.
func (s *WorkspaceSpec) CargoMetadata(t *testing.T) []byte {
	t.Helper()

	type target struct {
		Name string   `json:"name"`
		Kind []string `json:"kind"`
	}
	type pkg struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Version      string          `json:"version"`
		ManifestPath string          `json:"manifest_path"`
		Targets      []target        `json:"targets"`
		Metadata     json.RawMessage `json:"metadata"`
	}
	type depKind struct {
		Kind *string `json:"kind"`
	}
	type dep struct {
		Name     string    `json:"name"`
		Pkg      string    `json:"pkg"`
		DepKinds []depKind `json:"dep_kinds"`
	}
	type node struct {
		ID   string `json:"id"`
		Deps []dep  `json:"deps"`
	}

	dev := "dev"
	out := struct {
		Packages         []pkg    `json:"packages"`
		WorkspaceMembers []string `json:"workspace_members"`
		WorkspaceRoot    string   `json:"workspace_root"`
		Resolve          struct {
			Nodes []node `json:"nodes"`
		} `json:"resolve"`
	}{WorkspaceRoot: s.Root, WorkspaceMembers: []string{}}

	for _, ps := range s.Packages {
		p := pkg{
			ID:           ps.Name,
			Name:         ps.Name,
			Version:      "0.1.0",
			ManifestPath: s.manifestPath(ps),
			Metadata:     ps.metadata(t),
		}
		for _, tg := range ps.targets() {
			p.Targets = append(p.Targets, target{Name: tg.Name, Kind: tg.Kind})
		}
		if p.Metadata == nil {
			p.Metadata = json.RawMessage("null")
		}
		out.Packages = append(out.Packages, p)
		if !ps.External {
			out.WorkspaceMembers = append(out.WorkspaceMembers, ps.Name)
		}

		n := node{ID: ps.Name, Deps: []dep{}}
		for _, d := range ps.Deps {
			n.Deps = append(n.Deps, dep{Name: d, Pkg: d, DepKinds: []depKind{{}}})
		}
		for _, d := range ps.DevDeps {
			n.Deps = append(n.Deps, dep{Name: d, Pkg: d, DepKinds: []depKind{{Kind: &dev}}})
		}
		out.Resolve.Nodes = append(out.Resolve.Nodes, n)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	require.NoError(t, err)
	return data
}

func (s *WorkspaceSpec) manifestPath(ps PackageSpec) string {
	dir := ps.Path
	if dir == "" {
		dir = ps.Name
	}
	return filepath.Join(s.Root, dir, "Cargo.toml")
}

func (ps PackageSpec) targets() []metadata.Target {
	targets := []metadata.Target{{Name: ps.Name, Kind: []string{"lib"}}}
	for _, bin := range ps.Bins {
		targets = append(targets, metadata.Target{Name: bin, Kind: []string{"bin"}})
	}
	return targets
}

func (ps PackageSpec) metadata(t *testing.T) json.RawMessage {
	t.Helper()
	switch {
	case ps.RawMetadata != "":
		return json.RawMessage(ps.RawMetadata)
	case ps.Px != nil:
		return pxMetadata(t, ps.Px)
	}
	return nil
}

func pxMetadata(t *testing.T, px *PxSpec) json.RawMessage {
	t.Helper()
	gen := map[string]any{
		"generator_type": "cargo_workspace_binary",
		"generator_name": px.Generator,
	}
	if px.GeneratorArgs != nil {
		gen["generator_args"] = px.GeneratorArgs
	}
	cfg := map[string]any{"generate": gen}
	if px.Verifier != "" {
		ver := map[string]any{
			"verifier_type": "cargo_workspace_binary",
			"verifier_name": px.Verifier,
		}
		if px.VerifierArgs != nil {
			ver["verifier_args"] = px.VerifierArgs
		}
		cfg["verify"] = ver
	}
	data, err := json.Marshal(map[string]any{"px": cfg})
	require.NoError(t, err)
	return data
}

// StaticProvider is a metadata.Provider returning a fixed workspace.
type StaticProvider struct {
	Workspace *metadata.Workspace
	Err       error
	Calls     int
}

// Fetch implements metadata.Provider.
func (p *StaticProvider) Fetch(ctx context.Context) (*metadata.Workspace, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Workspace, nil
}
