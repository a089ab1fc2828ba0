package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/vk/cargopx/internal/ctxlog"
)

// Provider fetches the package graph of the current workspace.
type Provider interface {
	Fetch(ctx context.Context) (*Workspace, error)
}

// CargoProvider runs `cargo metadata` and decodes its JSON output.
type CargoProvider struct {
	CargoPath string
	// Dir is the directory cargo is invoked from. Empty means the current one.
	Dir string
}

// Fetch implements Provider.
func (p *CargoProvider) Fetch(ctx context.Context) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)

	cmd := exec.CommandContext(ctx, p.CargoPath, "metadata", "--format-version", "1")
	cmd.Dir = p.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running cargo metadata.", "cargo", p.CargoPath, "dir", p.Dir)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("failed to execute `cargo metadata`: %w\n%s", err, msg)
		}
		return nil, fmt.Errorf("failed to execute `cargo metadata`: %w", err)
	}

	ws, err := Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to build a package graph starting from the output of `cargo metadata`: %w", err)
	}
	logger.Debug("Package graph decoded.", "packages", len(ws.Packages), "members", len(ws.Members))
	return ws, nil
}

type cargoMetadata struct {
	Packages         []cargoPackage `json:"packages"`
	WorkspaceMembers []string       `json:"workspace_members"`
	WorkspaceRoot    string         `json:"workspace_root"`
	Resolve          *cargoResolve  `json:"resolve"`
}

type cargoPackage struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ManifestPath string          `json:"manifest_path"`
	Targets      []cargoTarget   `json:"targets"`
	Metadata     json.RawMessage `json:"metadata"`
}

type cargoTarget struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

type cargoResolve struct {
	Nodes []cargoNode `json:"nodes"`
}

type cargoNode struct {
	ID   string         `json:"id"`
	Deps []cargoNodeDep `json:"deps"`
}

type cargoNodeDep struct {
	Pkg      string         `json:"pkg"`
	DepKinds []cargoDepKind `json:"dep_kinds"`
}

type cargoDepKind struct {
	Kind *string `json:"kind"`
}

// devOnly reports whether every recorded kind of the link is "dev". Links
// without kind information predate dep_kinds and count as normal.
func (d cargoNodeDep) devOnly() bool {
	if len(d.DepKinds) == 0 {
		return false
	}
	for _, k := range d.DepKinds {
		if k.Kind == nil || *k.Kind != "dev" {
			return false
		}
	}
	return true
}

// Decode parses the output of `cargo metadata --format-version 1`.
func Decode(r io.Reader) (*Workspace, error) {
	var raw cargoMetadata
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode cargo metadata: %w", err)
	}
	if raw.WorkspaceRoot == "" {
		return nil, fmt.Errorf("decode cargo metadata: missing workspace_root")
	}

	deps := make(map[string][]Dependency)
	if raw.Resolve != nil {
		for _, node := range raw.Resolve.Nodes {
			for _, d := range node.Deps {
				deps[node.ID] = append(deps[node.ID], Dependency{ID: PackageID(d.Pkg), DevOnly: d.devOnly()})
			}
		}
	}

	packages := make([]*Package, 0, len(raw.Packages))
	for _, p := range raw.Packages {
		pkg := &Package{
			ID:           PackageID(p.ID),
			Name:         p.Name,
			ManifestPath: p.ManifestPath,
			Dependencies: deps[p.ID],
		}
		for _, t := range p.Targets {
			pkg.Targets = append(pkg.Targets, Target{Name: t.Name, Kind: t.Kind})
		}
		if len(p.Metadata) > 0 && !bytes.Equal(bytes.TrimSpace(p.Metadata), []byte("null")) {
			pkg.Metadata = p.Metadata
		}
		packages = append(packages, pkg)
	}

	members := make([]PackageID, 0, len(raw.WorkspaceMembers))
	for _, id := range raw.WorkspaceMembers {
		members = append(members, PackageID(id))
	}
	return NewWorkspace(raw.WorkspaceRoot, members, packages), nil
}
