package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSettings = `# top comment
title = "x"   # trailing

[env]
# the key
API_KEY = "abc"
list = [
  1,
  2,
]

[prompt]
about_user = """
multi
line"""
`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(sampleSettings))
	require.NoError(t, err)
	return doc
}

func TestParseRoundTripsUnchanged(t *testing.T) {
	doc := parseSample(t)
	assert.Equal(t, sampleSettings, string(doc.Bytes()))

	m, err := doc.Map()
	require.NoError(t, err)
	assert.Equal(t, "x", m["title"])
	assert.Equal(t, "multi\nline", m["prompt"].(map[string]any)["about_user"])
}

func TestParseRejectsInvalidTOML(t *testing.T) {
	_, err := Parse([]byte("[env\nA = 1\n"))
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Bytes())
}

func TestGet(t *testing.T) {
	doc := parseSample(t)

	v, ok := doc.Get("env.API_KEY")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = doc.Get("env.MISSING")
	assert.False(t, ok)

	_, ok = doc.Get("title.nested")
	assert.False(t, ok)
}

func TestSetExistingKeyRewritesOnlyThatLine(t *testing.T) {
	doc := parseSample(t)
	require.NoError(t, doc.Set("env.API_KEY", "new"))

	expected := strings.Replace(sampleSettings, `API_KEY = "abc"`, `API_KEY = "new"`, 1)
	assert.Equal(t, expected, string(doc.Bytes()))
}

func TestSetNewKeyAppendsToItsTable(t *testing.T) {
	doc := parseSample(t)
	require.NoError(t, doc.Set("env.NEW", "v"))

	expected := strings.Replace(sampleSettings, "]\n\n[prompt]", "]\nNEW = \"v\"\n\n[prompt]", 1)
	assert.Equal(t, expected, string(doc.Bytes()))

	v, ok := doc.Get("env.NEW")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSetRootKeyLandsBeforeFirstTable(t *testing.T) {
	doc := parseSample(t)
	require.NoError(t, doc.Set("version", int64(2)))

	expected := strings.Replace(sampleSettings, "# trailing\n", "# trailing\nversion = 2\n", 1)
	assert.Equal(t, expected, string(doc.Bytes()))
}

func TestSetCreatesMissingTables(t *testing.T) {
	doc := parseSample(t)
	require.NoError(t, doc.Set("tools.shell.enabled", true))

	assert.True(t, strings.HasPrefix(string(doc.Bytes()), sampleSettings))
	assert.True(t, strings.HasSuffix(string(doc.Bytes()), "\n\n[tools.shell]\nenabled = true\n"))

	v, ok := doc.Get("tools.shell.enabled")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestSetThroughScalarFails(t *testing.T) {
	doc := parseSample(t)
	err := doc.Set("title.sub", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is not a table")
	assert.Equal(t, sampleSettings, string(doc.Bytes()))
}

func TestSetOverTableFails(t *testing.T) {
	doc := parseSample(t)
	err := doc.Set("prompt", "flat")
	require.Error(t, err)
	assert.Equal(t, sampleSettings, string(doc.Bytes()))
}

func TestSetRejectsEmptyKeySegments(t *testing.T) {
	doc := parseSample(t)
	assert.Error(t, doc.Set("env..FOO", "x"))
	assert.Error(t, doc.Set("", "x"))
}

func TestSetDottedKeyTable(t *testing.T) {
	doc, err := Parse([]byte("env.A = \"1\"\n"))
	require.NoError(t, err)

	require.NoError(t, doc.Set("env.B", "2"))
	assert.Equal(t, "env.A = \"1\"\nenv.B = \"2\"\n", string(doc.Bytes()))
}

func TestSetQuotesNonBareKeys(t *testing.T) {
	doc, err := Parse([]byte("[env]\n"))
	require.NoError(t, err)

	require.NoError(t, doc.Set("env.my key", "v"))
	assert.Equal(t, "[env]\n\"my key\" = \"v\"\n", string(doc.Bytes()))

	v, ok := doc.Get("env.my key")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSetExistingKeyKeepsInlineComment(t *testing.T) {
	doc, err := Parse([]byte("[env]\nFOO = \"a\" # keep me\nBAR = \"b\"\n"))
	require.NoError(t, err)

	require.NoError(t, doc.Set("env.FOO", "z"))
	assert.Equal(t, "[env]\nFOO = \"z\" # keep me\nBAR = \"b\"\n", string(doc.Bytes()))

	sample := parseSample(t)
	require.NoError(t, sample.Set("title", "y"))
	assert.Equal(t, strings.Replace(sampleSettings, `title = "x"   # trailing`, `title = "y"   # trailing`, 1), string(sample.Bytes()))
}

func TestSplitValueComment(t *testing.T) {
	tests := []struct {
		raw     string
		value   string
		comment string
	}{
		{`"a"`, `"a"`, ""},
		{`"a" # note`, `"a"`, " # note"},
		{`"a#b"  # note`, `"a#b"`, "  # note"},
		{`'x#y'`, `'x#y'`, ""},
		{"[\n  1, # one\n  2,\n] # tail", "[\n  1, # one\n  2,\n]", " # tail"},
		{"[\n  1, # one\n]", "[\n  1, # one\n]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, comment := splitValueComment(tt.raw)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.comment, comment)
		})
	}
}

func TestSetInsideArrayOfTablesFails(t *testing.T) {
	src := "[[srv]]\nname = \"a\"\n[[srv]]\nname = \"b\"\n"
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	err = doc.Set("srv.name", "z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array of tables")

	assert.Error(t, doc.Set("srv", "flat"))
	assert.False(t, doc.CommentOut("srv.name", "gone"))
	assert.Equal(t, src, string(doc.Bytes()))
}

func TestCommentOutKeepsDottedKey(t *testing.T) {
	doc, err := Parse([]byte("env.FOO = \"a\"\n"))
	require.NoError(t, err)

	require.True(t, doc.CommentOut("env.FOO", "note"))
	assert.Equal(t, "# env.FOO = \"a\" # note\n", string(doc.Bytes()))
}

func TestCommentOut(t *testing.T) {
	doc := parseSample(t)

	require.True(t, doc.CommentOut("env.API_KEY", "deprecated"))
	expected := strings.Replace(sampleSettings, `API_KEY = "abc"`, `# API_KEY = "abc" # deprecated`, 1)
	assert.Equal(t, expected, string(doc.Bytes()))

	_, ok := doc.Get("env.API_KEY")
	assert.False(t, ok)

	// Already gone: nothing changes.
	assert.False(t, doc.CommentOut("env.API_KEY", "deprecated"))
	assert.Equal(t, expected, string(doc.Bytes()))
}

func TestCommentOutMultiLineValue(t *testing.T) {
	doc := parseSample(t)
	require.True(t, doc.CommentOut("env.list", ""))

	_, ok := doc.Get("env.list")
	assert.False(t, ok)
	assert.Contains(t, string(doc.Bytes()), "# list = [\n#   1,\n#   2,\n# ]\n")

	_, err := doc.Map()
	assert.NoError(t, err)
}

func TestFromMap(t *testing.T) {
	doc, err := FromMap(map[string]any{
		"prompt": map[string]any{
			"about_user": "hi",
			"project":    map[string]any{"a": "b"},
		},
		"env": map[string]any{},
	})
	require.NoError(t, err)

	assert.Equal(t, "[env]\n\n[prompt]\nabout_user = \"hi\"\n\n[prompt.project]\na = \"b\"\n", string(doc.Bytes()))

	m, err := doc.Map()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, m["env"])
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in       string
		term     string
		expected []string
	}{
		{`env = 1`, "=", []string{"env"}},
		{`a.b.c = 1`, "=", []string{"a", "b", "c"}},
		{`a . "b.c" = 1`, "=", []string{"a", "b.c"}},
		{`'lit' = 1`, "=", []string{"lit"}},
		{`prompt.project] # c`, "]", []string{"prompt", "project"}},
		{` x ]]`, "]]", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseKey(tt.in, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := parseKey(`"open = 1`, "=")
	assert.Error(t, err)
}
