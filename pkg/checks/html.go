// Package checks provides the registry and implementation of all checks
// supported by the sigsmoke engine. This file implements the css_selector
// check, which parses an HTML source with goquery and asserts that a CSS
// selector matches. It covers the structural assertions against Index.html
// that plain substring matching is too brittle for (class lists, nesting).
package checks

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// cssSelectorCheck parses the source as HTML and verifies the selector
// matches at least min_count nodes (default 1).
func cssSelectorCheck(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error) {
	if check.Type != "css_selector" {
		return false, fmt.Errorf("invalid check type for cssSelectorCheck: %s", check.Type)
	}

	content, err := tree.Resolve(src)
	if err != nil {
		return false, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return false, fmt.Errorf("failed to parse HTML from source '%s': %w", src.ID, err)
	}

	minCount := check.MinCount
	if minCount == 0 {
		minCount = 1
	}

	matched := doc.Find(check.Selector).Length()
	if matched < minCount {
		return false, fmt.Errorf("selector '%s' matched %d node(s), want at least %d",
			check.Selector, matched, minCount)
	}

	return true, nil
}

func init() {
	MustRegisterCheck("css_selector", cssSelectorCheck)
}
