package tempdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Prefix is prepended to the id to form the directory name
const Prefix = "fc_"

// MaxIDLength is the longest accepted id
const MaxIDLength = 20

// ErrInvalidID is returned for ids that are empty, too long, contain characters
// outside [A-Za-z0-9_] or would leave the temp root
var ErrInvalidID = errors.New("invalid temp directory id: must be 1-20 characters of [A-Za-z0-9_]")

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,20}$`)

// ToTempSubdir returns the cache directory for id below the system temp root:
// <os.TempDir()>/fc_<id>. It does not create the directory.
func ToTempSubdir(id string) (string, error) {
	return ToSubdir(os.TempDir(), id)
}

// ToSubdir is ToTempSubdir with an explicit root
func ToSubdir(root, id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	root = filepath.Clean(root)
	result := filepath.Join(root, Prefix+id)
	if filepath.Dir(result) != root {
		return "", fmt.Errorf("%w: %q resolves outside %s", ErrInvalidID, id, root)
	}
	return result, nil
}
