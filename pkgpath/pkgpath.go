// Package pkgpath discovers directories inside an installed package tree.
//
// It only finds directories. Registering them with the platform's native
// library loader is left to the caller.
package pkgpath

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigFile is the CMake package config shipped with the native libraries.
const DefaultConfigFile = "OpenVINOConfig.cmake"

// LibPathsEnv lists library directories for installer-based setups.
const LibPathsEnv = "OPENVINO_LIB_PATHS"

// errFound stops the walk once a match is found.
var errFound = errors.New("found")

// FindConfigDir walks root and returns the first directory containing a file
// named filename. It returns "" when there is none.
func FindConfigDir(root, filename string) (string, error) {
	if filename == "" {
		filename = DefaultConfigFile
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, a missing root is reported.
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == filename {
			found = filepath.Dir(path)
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}
	return found, nil
}

// LibraryDirs returns the native library directories of the package at root,
// in the order a pip install, a conda install and an installer setup use:
// root/libs, root/../../../Library/bin, then the entries of envValue
// (separated by the OS list separator) resolved against root. Only existing
// directories are returned.
func LibraryDirs(root, envValue string) []string {
	if dir := filepath.Join(root, "libs"); isDir(dir) {
		return []string{dir}
	}
	if dir := filepath.Join(root, "..", "..", "..", "Library", "bin"); isDir(dir) {
		return []string{filepath.Clean(dir)}
	}

	var dirs []string
	for _, entry := range filepath.SplitList(envValue) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(root, entry)
		}
		if isDir(entry) {
			dirs = append(dirs, filepath.Clean(entry))
		}
	}
	return dirs
}

// LibraryDirsFromEnv is LibraryDirs with the value of LibPathsEnv.
func LibraryDirsFromEnv(root string) []string {
	return LibraryDirs(root, os.Getenv(LibPathsEnv))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
