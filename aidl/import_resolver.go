package aidl

import (
	"path/filepath"
	"slices"
	"strings"
)

// ImportResolver finds the source file declaring a class, looking first in
// the import directories and then among the files given on the command line.
type ImportResolver struct {
	io          IODelegate
	importPaths []string
	inputFiles  []string
}

func NewImportResolver(io IODelegate, importPaths, inputFiles []string) *ImportResolver {
	return &ImportResolver{io: io, importPaths: importPaths, inputFiles: inputFiles}
}

// FindImportFile returns the file for canonicalName, or "" when there is
// none. A class found under more than one import directory is an error.
func (r *ImportResolver) FindImportFile(canonicalName string) (string, error) {
	relative := filepath.Join(strings.Split(canonicalName, ".")...) + ".aidl"

	var found []string
	seen := map[string]bool{}
	for _, dir := range r.importPaths {
		candidate := filepath.Join(dir, relative)
		if !r.io.FileExists(candidate) {
			continue
		}
		key := candidate
		if abs, err := r.io.AbsPath(candidate); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		found = append(found, candidate)
	}

	switch len(found) {
	case 0:
	case 1:
		return found[0], nil
	default:
		slices.Sort(found)
		return "", &Diagnostic{Message: "Duplicate files found for " + canonicalName + " from:\n" + strings.Join(found, "\n")}
	}

	for _, file := range r.inputFiles {
		if strings.HasSuffix(filepath.ToSlash(file), filepath.ToSlash(relative)) {
			return file, nil
		}
	}
	return "", nil
}
