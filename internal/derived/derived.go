// Package derived purges Xcode DerivedData folders left behind by Flutter's
// iOS Runner project.
package derived

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPrefix is the folder prefix Xcode uses for the Flutter Runner workspace
const DefaultPrefix = "Runner-"

// Result summarises a cleanup pass
type Result struct {
	Missing bool // the DerivedData directory does not exist
	Matched int
	Removed int
	Failed  int
}

// DefaultDir returns ~/Library/Developer/Xcode/DerivedData, or "" when the
// home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Developer", "Xcode", "DerivedData")
}

// Clean removes every subdirectory of dir whose name starts with prefix.
//
// It never fails: an unreadable or absent dir is reported as Missing, and a
// folder that cannot be removed only bumps Failed. Nothing is logged here;
// callers print the summary.
func Clean(dir, prefix string) Result {
	var res Result

	entries, err := os.ReadDir(dir)
	if err != nil {
		res.Missing = true
		return res
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		res.Matched++
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			res.Failed++
			continue
		}
		res.Removed++
	}

	return res
}
