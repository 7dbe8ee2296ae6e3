// Package checks provides the registry and implementation of all checks
// supported by the sigsmoke engine. This file implements the json_keys
// check, used against JSON configuration files such as appsscript.json:
// required key paths must be present, and a named array may be required to
// contain specific members (the OAuth scope assertions). Malformed JSON is
// an ordinary check failure, never a crash.
package checks

import (
	"encoding/json"
	"fmt"
	"strings"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// jsonKeysCheck parses the source as JSON and verifies key presence and
// array membership requirements.
func jsonKeysCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "json_keys" {
		return false, fmt.Errorf("invalid check type for jsonKeysCheck: %s", check.Type)
	}

	content, err := tree.Resolve(src)
	if err != nil {
		return false, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return false, fmt.Errorf("source '%s' is not valid JSON: %w", src.ID, err)
	}

	var missing []string
	for _, key := range check.Keys {
		if _, ok := lookupPath(doc, key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Errorf("missing configuration keys: %s", strings.Join(missing, ", "))
	}

	if check.ArrayContains != nil {
		value, ok := lookupPath(doc, check.ArrayContains.Key)
		if !ok {
			return false, fmt.Errorf("missing configuration key: %s", check.ArrayContains.Key)
		}

		arr, ok := value.([]interface{})
		if !ok {
			return false, fmt.Errorf("key '%s' is not an array", check.ArrayContains.Key)
		}

		var absent []string
		for _, want := range check.ArrayContains.Values {
			found := false
			for _, item := range arr {
				if s, ok := item.(string); ok && s == want {
					found = true
					break
				}
			}
			if !found {
				absent = append(absent, want)
			}
		}
		if len(absent) > 0 {
			return false, fmt.Errorf("array '%s' is missing required values: %s",
				check.ArrayContains.Key, strings.Join(absent, ", "))
		}
	}

	return true, nil
}

// lookupPath navigates a dotted key path through nested JSON objects.
func lookupPath(doc map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = doc

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func init() {
	MustRegisterCheck("json_keys", jsonKeysCheck)
}
