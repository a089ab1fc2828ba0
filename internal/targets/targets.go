// Package targets narrows a codegen plan down to the packages a cargo
// invocation is about.
//
// Only the `-p`/`--package` selector and the working directory are
// considered. Selectors naming anything other than a workspace member make
// the scope fall back to the whole workspace.
package targets

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/vk/cargopx/internal/metadata"
)

// PackageFilters extracts the values of every `-p`/`--package` flag from the
// arguments following the cargo verb. Scanning stops at `--`.
func PackageFilters(args []string) []string {
	var specs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return specs
		case arg == "-p" || arg == "--package":
			if i+1 < len(args) {
				specs = append(specs, args[i+1])
				i++
			}
		case strings.HasPrefix(arg, "--package="):
			specs = append(specs, strings.TrimPrefix(arg, "--package="))
		case strings.HasPrefix(arg, "-p") && len(arg) > 2:
			specs = append(specs, strings.TrimPrefix(arg[2:], "="))
		}
	}
	return specs
}

// Determine returns the packages targeted by the invocation. An empty result
// means every package is in scope.
func Determine(ctx context.Context, args []string, workingDir string, ws *metadata.Workspace) []metadata.PackageID {
	logger := ctxlog.FromContext(ctx)

	specs := PackageFilters(args)
	if len(specs) == 0 {
		logger.Debug("No package specs provided, determining the target based on the working directory.", "dir", workingDir)
		if id, ok := implicitTarget(workingDir, ws); ok {
			return []metadata.PackageID{id}
		}
		return nil
	}
	logger.Debug("Extracted package specs.", "targets", specs)

	ids := make([]metadata.PackageID, 0, len(specs))
	for _, spec := range specs {
		p, ok := ws.MemberByName(spec)
		if !ok {
			logger.Debug("Package spec does not match a workspace member, targeting everything.", "package", spec)
			return nil
		}
		ids = append(ids, p.ID)
	}
	return ids
}

// implicitTarget picks the member whose manifest directory is the closest
// ancestor of workingDir.
func implicitTarget(workingDir string, ws *metadata.Workspace) (metadata.PackageID, bool) {
	wd := relativeTo(ws.Root, workingDir)

	var (
		best      *metadata.Package
		bestDepth int
	)
	for _, p := range ws.MemberPackages() {
		depth, ok := suffixDepth(wd, relativeTo(ws.Root, p.Dir()))
		if !ok {
			continue
		}
		if best == nil || depth < bestDepth || (depth == bestDepth && p.Name < best.Name) {
			best, bestDepth = p, depth
		}
	}
	if best == nil {
		return "", false
	}
	return best.ID, true
}

// relativeTo strips root from path, leaving path untouched when it lives
// outside root.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Clean(path)
	}
	return rel
}

// suffixDepth reports whether prefix is an ancestor of (or equal to) path and
// how many components remain once it is stripped.
func suffixDepth(path, prefix string) (int, bool) {
	p, pre := components(path), components(prefix)
	if len(pre) > len(p) {
		return 0, false
	}
	for i := range pre {
		if p[i] != pre[i] {
			return 0, false
		}
	}
	return len(p) - len(pre), true
}

func components(path string) []string {
	var out []string
	for _, c := range strings.Split(filepath.ToSlash(path), "/") {
		if c != "" && c != "." {
			out = append(out, c)
		}
	}
	if filepath.IsAbs(path) {
		out = append([]string{"/"}, out...)
	}
	return out
}
