// Package checks provides the registry and implementation of all checks
// supported by the sigsmoke engine. This file implements the file_exists
// check, which verifies that the files behind a source declaration are
// present and carry a minimum amount of content.
package checks

import (
	"fmt"
	"strings"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// fileExistsCheck verifies that every file of the source exists and, when
// min_size is set, has at least that many bytes. For optional grouped
// sources, missing members are tolerated as long as at least one exists.
func fileExistsCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "file_exists" {
		return false, fmt.Errorf("invalid check type for fileExistsCheck: %s", check.Type)
	}

	paths := src.Paths
	if src.Path != "" {
		paths = []string{src.Path}
	}

	var problems []string
	found := 0

	for _, p := range paths {
		if !tree.Exists(p) {
			if src.Optional {
				continue
			}
			problems = append(problems, fmt.Sprintf("%s not found", p))
			continue
		}
		found++

		if check.MinSize > 0 {
			size, err := tree.Size(p)
			if err != nil {
				problems = append(problems, err.Error())
				continue
			}
			if size < check.MinSize {
				problems = append(problems, fmt.Sprintf("%s appears to be empty or too small (%d bytes)", p, size))
			}
		}
	}

	if found == 0 {
		return false, fmt.Errorf("source '%s': no files found", src.ID)
	}

	if len(problems) > 0 {
		return false, fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return true, nil
}

func init() {
	MustRegisterCheck("file_exists", fileExistsCheck)
}
