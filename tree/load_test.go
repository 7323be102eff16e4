package tree

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"toc.json", "toc.yaml"} {
		t.Run(name, func(t *testing.T) {
			tr, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, []string{"Getting Started", "Contributing"}, titles(tr.Roots()))
			contributing := tr.Roots()[1]
			assert.True(t, contributing.IsHeader())
			require.Len(t, contributing.Children, 2)
			assert.Equal(t, "cont/issues.html", contributing.Children[0].Href)
			assert.Equal(t, "1.", contributing.Children[0].Number)
		})
	}
}

func TestLoadScript(t *testing.T) {
	tr, err := Load(filepath.Join("testdata", "toc.js"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Getting Started",
		"Contributing to ygen",
		"Architecture of ygen",
		"The code of ygen",
	}, titles(tr.Roots()))

	contributing := tr.Roots()[1]
	assert.Empty(t, contributing.Href)
	assert.Equal(t, []string{"Issues", "Pull Requests", "Adding new ir nodes"}, titles(contributing.Children))
	assert.Equal(t, "1.", contributing.Children[0].Number)

	arch := tr.Roots()[2]
	assert.Equal(t, []string{"Frontend", "Optimization", "Lowering"}, titles(arch.Children))

	lowering := arch.Children[2]
	assert.Equal(t, "arch/lower.html", lowering.Href)
	assert.Equal(t, []string{"MachineInstr", "MCInstr", "Backends"}, titles(lowering.Children))

	backends := lowering.Children[2]
	assert.Equal(t, 3, backends.Depth)
	assert.Equal(t, []string{"TargetDescr", "Structure", "Implementing an new backend"}, titles(backends.Children))
	assert.Equal(t, "6.3.1.", backends.Children[0].Number)
	assert.Equal(t, 4, backends.Children[0].Depth)
}

func TestDecodeHTMLNestedInsideItem(t *testing.T) {
	html := `<ol class="chapter">
<li class="chapter-item"><a href="a.html">A</a><a class="toggle"><div>❱</div></a>
  <ol class="section"><li class="chapter-item"><a href="a/b.html">B</a></li></ol>
</li>
<li class="spacer"></li>
<li class="chapter-item"><div>Draft</div></li>
</ol>`
	tr, err := Decode(strings.NewReader(html), FormatHTML)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "Draft"}, titles(tr.Roots()))
	assert.Equal(t, []string{"B"}, titles(tr.Roots()[0].Children))
	assert.True(t, tr.Roots()[1].IsHeader())
}

func TestDecodeEmpty(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatHTML, FormatScript} {
		tr, err := Decode(strings.NewReader("  \n"), f)
		require.NoError(t, err)
		assert.Equal(t, 0, tr.Len())
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("var x = 1;"), FormatScript)
	assert.ErrorIs(t, err, errNoInnerHTML)

	_, err = Decode(strings.NewReader("this.innerHTML = '<ol>"), FormatScript)
	assert.Error(t, err)

	_, err = FormatFromPath("toc.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}

func TestScriptUnescapes(t *testing.T) {
	src := `this.innerHTML = '<ol class="chapter"><li class="chapter-item"><a href="x.html">Don\'t panic</a></li></ol>';`
	tr, err := Decode(strings.NewReader(src), FormatScript)
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, "Don't panic", tr.Node(0).Title)
}

func TestItemsRoundTripShape(t *testing.T) {
	tr := sampleTree()
	data, err := tr.MarshalJSON()
	require.NoError(t, err)

	back, err := Decode(strings.NewReader(string(data)), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, tr.Items(), back.Items())
}
