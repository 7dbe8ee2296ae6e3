// Package checks provides the registry and implementation of all checks
// supported by the sigsmoke engine. This file implements the literal text
// checks: contains (all/any with an allow_missing tolerance), not_contains,
// and regex. These carry the bulk of the shipped suites, since smoke testing
// an Apps Script tree is mostly substring presence.
package checks

import (
	"fmt"
	"regexp"
	"strings"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// containsCheck verifies literal presence in the resolved source text.
// Every entry of 'all' must be present, minus up to allow_missing tolerated
// absences; at least one entry of 'any' must be present when set.
func containsCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "contains" {
		return false, fmt.Errorf("invalid check type for containsCheck: %s", check.Type)
	}

	content, err := tree.Resolve(src)
	if err != nil {
		return false, err
	}

	var missing []string
	for _, literal := range check.All {
		if !strings.Contains(content, literal) {
			missing = append(missing, literal)
		}
	}

	if len(missing) > check.AllowMissing {
		return false, fmt.Errorf("missing: %s", strings.Join(missing, ", "))
	}

	if len(check.Any) > 0 {
		found := false
		for _, literal := range check.Any {
			if strings.Contains(content, literal) {
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Errorf("none of the alternatives present: %s", strings.Join(check.Any, ", "))
		}
	}

	return true, nil
}

// notContainsCheck verifies that none of the listed literals appear in the
// resolved source text.
func notContainsCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "not_contains" {
		return false, fmt.Errorf("invalid check type for notContainsCheck: %s", check.Type)
	}

	content, err := tree.Resolve(src)
	if err != nil {
		return false, err
	}

	var present []string
	for _, literal := range check.All {
		if strings.Contains(content, literal) {
			present = append(present, literal)
		}
	}

	if len(present) > 0 {
		return false, fmt.Errorf("forbidden content present: %s", strings.Join(present, ", "))
	}

	return true, nil
}

// regexCheck verifies that the source text matches the configured pattern.
func regexCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "regex" {
		return false, fmt.Errorf("invalid check type for regexCheck: %s", check.Type)
	}

	content, err := tree.Resolve(src)
	if err != nil {
		return false, err
	}

	re, err := regexp.Compile(check.Regex)
	if err != nil {
		return false, fmt.Errorf("invalid regex pattern %s: %w", check.Regex, err)
	}

	if !re.MatchString(content) {
		return false, fmt.Errorf("pattern not matched: %s", check.Regex)
	}

	return true, nil
}

// init registers all content-related checks
func init() {
	MustRegisterCheck("contains", containsCheck)
	MustRegisterCheck("not_contains", notContainsCheck)
	MustRegisterCheck("regex", regexCheck)
}
