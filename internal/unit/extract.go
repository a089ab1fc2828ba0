package unit

import (
	"context"
	"errors"

	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/vk/cargopx/internal/metadata"
)

// Extract returns the codegen units declared by the workspace members.
//
// Every member is checked independently: when any of them is misconfigured
// the returned error joins one error per problem and no units are returned.
func Extract(ctx context.Context, ws *metadata.Workspace) ([]CodegenUnit, error) {
	logger := ctxlog.FromContext(ctx)

	var units []CodegenUnit
	var errs []error
	for _, pkg := range ws.MemberPackages() {
		cfg, err := parseConfig(pkg.Metadata)
		if err != nil {
			errs = append(errs, malformedConfig(pkg.Name, err))
			continue
		}
		if cfg == nil {
			continue
		}

		u, err := newUnit(ws, pkg, cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug("Found codegen unit.", "package", pkg.Name, "generator", u.Generator.Binary.Name)
		units = append(units, u)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return units, nil
}

func newUnit(ws *metadata.Workspace, pkg *metadata.Package, cfg *pxConfig) (CodegenUnit, error) {
	gen, ok := findBinary(ws, pkg.ID, cfg.Generate.GeneratorName)
	if !ok {
		return CodegenUnit{}, missingBinary("generator", cfg.Generate.GeneratorName, pkg.Name)
	}
	u := CodegenUnit{
		PackageID:    pkg.ID,
		PackageName:  pkg.Name,
		ManifestPath: pkg.ManifestPath,
		Generator:    Invocation{Binary: gen, Args: cfg.Generate.GeneratorArgs},
	}

	if cfg.Verify != nil {
		ver, ok := findBinary(ws, pkg.ID, cfg.Verify.VerifierName)
		if !ok {
			return CodegenUnit{}, missingBinary("verifier", cfg.Verify.VerifierName, pkg.Name)
		}
		u.Verifier = &Invocation{Binary: ver, Args: cfg.Verify.VerifierArgs}
	}
	return u, nil
}

// findBinary looks for a binary target called name among the workspace
// members other than self. The last matching member wins.
func findBinary(ws *metadata.Workspace, self metadata.PackageID, name string) (BinaryRef, bool) {
	var ref BinaryRef
	found := false
	for _, member := range ws.MemberPackages() {
		if member.ID == self {
			continue
		}
		if member.HasBinary(name) {
			ref = BinaryRef{Name: name, PackageID: member.ID, PackageName: member.Name}
			found = true
		}
	}
	return ref, found
}
