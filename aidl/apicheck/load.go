package apicheck

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhamidi/aidl/aidl"
	"go.uber.org/multierr"
)

// Files expands paths into .aidl files. A directory stands for every .aidl
// file below it.
func Files(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".aidl") {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}

// Load loads one version of an API in structured mode. The files can import
// each other. Every file is loaded even when some fail.
func Load(io aidl.IODelegate, files []string, opts ...aidl.LoadOption) ([]aidl.DefinedType, error) {
	loadOpts := append([]aidl.LoadOption{}, opts...)
	loadOpts = append(loadOpts, aidl.WithStructured(true), aidl.WithInputFiles(files...))

	var types []aidl.DefinedType
	var errs error
	for _, file := range files {
		log.Debugf("loading %s", file)
		result, err := aidl.LoadAndValidate(io, file, loadOpts...)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		types = append(types, result.Type)
	}
	return types, errs
}
