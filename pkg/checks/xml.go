// Package checks provides the registry and implementation of all checks
// supported by the sigsmoke engine. This file implements the xpath check for
// XML and XHTML sources, backed by xmlquery. Useful for trees that carry XML
// manifests or sidecar documents next to the HTML front-end files.
package checks

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// xpathCheck parses the source as XML and verifies the XPath expression
// selects at least min_count nodes (default 1).
func xpathCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "xpath" {
		return false, fmt.Errorf("invalid check type for xpathCheck: %s", check.Type)
	}

	content, err := tree.Resolve(src)
	if err != nil {
		return false, err
	}

	doc, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return false, fmt.Errorf("failed to parse XML from source '%s': %w", src.ID, err)
	}

	nodes, err := xmlquery.QueryAll(doc, check.XPath)
	if err != nil {
		return false, fmt.Errorf("invalid xpath expression '%s': %w", check.XPath, err)
	}

	minCount := check.MinCount
	if minCount == 0 {
		minCount = 1
	}

	if len(nodes) < minCount {
		return false, fmt.Errorf("xpath '%s' selected %d node(s), want at least %d",
			check.XPath, len(nodes), minCount)
	}

	return true, nil
}

func init() {
	MustRegisterCheck("xpath", xpathCheck)
}
