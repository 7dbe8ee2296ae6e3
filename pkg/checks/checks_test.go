package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// fixture builds a tree with the given files and a suite declaring one
// single-path source per file (source id = file name without extension).
func fixture(t *testing.T, files map[string]string) (*source.Tree, *suite.Suite) {
	t.Helper()
	dir := t.TempDir()
	s := &suite.Suite{Metadata: suite.Metadata{ID: "fixture", Title: "Fixture", SchemaVersion: "1.0"}}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
		id := name[:len(name)-len(filepath.Ext(name))]
		s.Sources = append(s.Sources, suite.Source{ID: id, Path: name})
	}
	tree, err := source.NewTree(dir)
	require.NoError(t, err)
	return tree, s
}

func TestContainsCheckAll(t *testing.T) {
	tree, s := fixture(t, map[string]string{
		"Code.gs": "function doGet() {}\nfunction include(name) {}",
	})
	src := s.FindSource("Code")

	ok, err := containsCheck(tree, src, &suite.Check{
		Type: "contains", Source: "Code",
		All: []string{"function doGet(", "function include("},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContainsCheckReportsMissing(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Code.gs": "function doGet() {}"})
	src := s.FindSource("Code")

	ok, err := containsCheck(tree, src, &suite.Check{
		Type: "contains", Source: "Code",
		All: []string{"function doGet(", "function updateAluno(", "function deleteAluno("},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "function updateAluno(")
	assert.Contains(t, err.Error(), "function deleteAluno(")
}

func TestContainsCheckAllowMissing(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Js.html": "setTimeout(render, 100); await load();"})
	src := s.FindSource("Js")

	check := &suite.Check{
		Type: "contains", Source: "Js",
		All:          []string{"setTimeout", "await", "debounce", "CacheService"},
		AllowMissing: 2,
	}
	ok, err := containsCheck(tree, src, check)
	require.NoError(t, err)
	assert.True(t, ok)

	check.AllowMissing = 1
	ok, err = containsCheck(tree, src, check)
	assert.False(t, ok)
	require.Error(t, err)
}

func TestContainsCheckAny(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Js.html": "Gemini report generation"})
	src := s.FindSource("Js")

	ok, err := containsCheck(tree, src, &suite.Check{
		Type: "contains", Source: "Js",
		Any: []string{"OpenAI", "Gemini"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = containsCheck(tree, src, &suite.Check{
		Type: "contains", Source: "Js",
		Any: []string{"OpenAI", "Claude"},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the alternatives present")
}

func TestContainsCheckMissingFile(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Code.gs": "x"})
	s.Sources = append(s.Sources, suite.Source{ID: "ghost", Path: "Ghost.gs"})

	ok, err := containsCheck(tree, s.FindSource("ghost"), &suite.Check{
		Type: "contains", Source: "ghost", All: []string{"x"},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNotContainsCheck(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Code.gs": "var apiKey = PropertiesService.get()"})
	src := s.FindSource("Code")

	ok, err := notContainsCheck(tree, src, &suite.Check{
		Type: "not_contains", Source: "Code", All: []string{"AIzaSy"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = notContainsCheck(tree, src, &suite.Check{
		Type: "not_contains", Source: "Code", All: []string{"PropertiesService"},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden content present")
}

func TestRegexCheck(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Code.gs": "function doGet(e) {}"})
	src := s.FindSource("Code")

	ok, err := regexCheck(tree, src, &suite.Check{
		Type: "regex", Source: "Code", Regex: `function\s+doGet\(`,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = regexCheck(tree, src, &suite.Check{
		Type: "regex", Source: "Code", Regex: `function\s+doPost\(`,
	})
	assert.False(t, ok)
	require.Error(t, err)
}

func TestRegexCheckInvalidPattern(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Code.gs": "x"})

	ok, err := regexCheck(tree, s.FindSource("Code"), &suite.Check{
		Type: "regex", Source: "Code", Regex: `([`,
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex pattern")
}

func TestFileExistsCheck(t *testing.T) {
	tree, s := fixture(t, map[string]string{"Index.html": "<html><body>content here</body></html>"})
	src := s.FindSource("Index")

	ok, err := fileExistsCheck(tree, src, &suite.Check{Type: "file_exists", Source: "Index"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fileExistsCheck(tree, src, &suite.Check{Type: "file_exists", Source: "Index", MinSize: 10000})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestFileExistsCheckGroup(t *testing.T) {
	tree, s := fixture(t, map[string]string{"AuthService.gs": "function authenticate() {}"})
	s.Sources = append(s.Sources, suite.Source{
		ID:    "services",
		Paths: []string{"AuthService.gs", "ValidationService.gs"},
	})

	ok, err := fileExistsCheck(tree, s.FindSource("services"), &suite.Check{
		Type: "file_exists", Source: "services", MinSize: 10,
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ValidationService.gs not found")

	// Optional groups tolerate missing members
	s.Sources = append(s.Sources, suite.Source{
		ID:       "services_opt",
		Paths:    []string{"AuthService.gs", "ValidationService.gs"},
		Optional: true,
	})
	ok, err = fileExistsCheck(tree, s.FindSource("services_opt"), &suite.Check{
		Type: "file_exists", Source: "services_opt", MinSize: 10,
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJSONKeysCheck(t *testing.T) {
	tree, s := fixture(t, map[string]string{
		"appsscript.json": `{
			"timeZone": "America/Sao_Paulo",
			"webapp": {"access": "DOMAIN"},
			"oauthScopes": [
				"https://www.googleapis.com/auth/spreadsheets",
				"https://www.googleapis.com/auth/script.external_request"
			]
		}`,
	})
	src := s.FindSource("appsscript")

	ok, err := jsonKeysCheck(tree, src, &suite.Check{
		Type: "json_keys", Source: "appsscript",
		Keys: []string{"timeZone", "webapp", "oauthScopes", "webapp.access"},
		ArrayContains: &suite.ArrayContains{
			Key:    "oauthScopes",
			Values: []string{"https://www.googleapis.com/auth/spreadsheets"},
		},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJSONKeysCheckMissingKey(t *testing.T) {
	tree, s := fixture(t, map[string]string{"appsscript.json": `{"timeZone": "UTC"}`})

	ok, err := jsonKeysCheck(tree, s.FindSource("appsscript"), &suite.Check{
		Type: "json_keys", Source: "appsscript",
		Keys: []string{"timeZone", "webapp", "oauthScopes"},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webapp")
	assert.Contains(t, err.Error(), "oauthScopes")
}

func TestJSONKeysCheckMissingScope(t *testing.T) {
	tree, s := fixture(t, map[string]string{
		"appsscript.json": `{"oauthScopes": ["https://www.googleapis.com/auth/spreadsheets"]}`,
	})

	ok, err := jsonKeysCheck(tree, s.FindSource("appsscript"), &suite.Check{
		Type: "json_keys", Source: "appsscript",
		ArrayContains: &suite.ArrayContains{
			Key:    "oauthScopes",
			Values: []string{"https://www.googleapis.com/auth/script.external_request"},
		},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script.external_request")
}

func TestJSONKeysCheckMalformed(t *testing.T) {
	tree, s := fixture(t, map[string]string{"appsscript.json": `{not json`})

	ok, err := jsonKeysCheck(tree, s.FindSource("appsscript"), &suite.Check{
		Type: "json_keys", Source: "appsscript", Keys: []string{"timeZone"},
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestCSSSelectorCheck(t *testing.T) {
	tree, s := fixture(t, map[string]string{
		"Index.html": `<!DOCTYPE html>
<html lang="pt-BR">
<body>
  <header class="header"><button class="theme-toggle"></button></header>
  <nav class="sidebar">
    <ul class="nav-menu">
      <li><a class="nav-link" data-route="dashboard">Dashboard</a></li>
      <li><a class="nav-link" data-route="alunos">Alunos</a></li>
    </ul>
  </nav>
  <main class="main-content"><div id="page-content"></div></main>
</body>
</html>`,
	})
	src := s.FindSource("Index")

	tests := []struct {
		selector string
		want     bool
	}{
		{"nav.sidebar", true},
		{".nav-menu", true},
		{`[data-route="dashboard"]`, true},
		{"header.header", true},
		{"#page-content", true},
		{".modal", false},
		{`[data-route="kanban"]`, false},
	}

	for _, tc := range tests {
		t.Run(tc.selector, func(t *testing.T) {
			ok, err := cssSelectorCheck(tree, src, &suite.Check{
				Type: "css_selector", Source: "Index", Selector: tc.selector,
			})
			assert.Equal(t, tc.want, ok)
			if tc.want {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "matched 0 node(s)")
			}
		})
	}
}

func TestCSSSelectorCheckMinCount(t *testing.T) {
	tree, s := fixture(t, map[string]string{
		"Index.html": `<ul><li class="nav-link">a</li><li class="nav-link">b</li></ul>`,
	})
	src := s.FindSource("Index")

	ok, err := cssSelectorCheck(tree, src, &suite.Check{
		Type: "css_selector", Source: "Index", Selector: ".nav-link", MinCount: 2,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = cssSelectorCheck(tree, src, &suite.Check{
		Type: "css_selector", Source: "Index", Selector: ".nav-link", MinCount: 3,
	})
	assert.False(t, ok)
}

func TestXPathCheck(t *testing.T) {
	tree, s := fixture(t, map[string]string{
		"manifest.xml": `<?xml version="1.0"?>
<manifest>
  <module name="alunos"/>
  <module name="rotas"/>
</manifest>`,
	})
	src := s.FindSource("manifest")

	ok, err := xpathCheck(tree, src, &suite.Check{
		Type: "xpath", Source: "manifest", XPath: `//module[@name="alunos"]`,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = xpathCheck(tree, src, &suite.Check{
		Type: "xpath", Source: "manifest", XPath: `//module[@name="onibus"]`,
	})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selected 0 node(s)")
}

func TestXPathCheckInvalidExpression(t *testing.T) {
	tree, s := fixture(t, map[string]string{"manifest.xml": `<a/>`})

	ok, err := xpathCheck(tree, s.FindSource("manifest"), &suite.Check{
		Type: "xpath", Source: "manifest", XPath: `//a[`,
	})
	assert.False(t, ok)
	require.Error(t, err)
}
