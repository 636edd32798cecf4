package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastebot/internal/langdetect"
	"pastebot/internal/models"
)

type stubDetector struct {
	tag string
}

func (s stubDetector) Detect(models.Sample) string { return s.tag }

func TestShouldExternalizeShortMessages(t *testing.T) {
	d := NewDecider(200, stubDetector{tag: "python"})

	// Below the minimum length nothing qualifies, not even obvious code.
	cases := []string{
		"",
		"short message",
		"def foo():\n    return 1",
		"```\ncode block\n```",
	}
	for _, text := range cases {
		assert.False(t, d.ShouldExternalize(models.NewSample(text)), "text: %q", text)
	}
}

func TestShouldExternalizeLongMessageOverride(t *testing.T) {
	d := NewDecider(200, stubDetector{tag: ""})

	// Over 1000 characters qualifies regardless of code-likeness.
	prose := strings.Repeat("a plain sentence without anything special ", 30)
	require.Greater(t, len([]rune(prose)), 1000)
	assert.True(t, d.ShouldExternalize(models.NewSample(prose)))
}

func TestShouldExternalizeCodeLineRatio(t *testing.T) {
	d := NewDecider(200, stubDetector{tag: ""})

	// Every line is an assignment, so the code-line ratio is 1.0.
	text := strings.Repeat("total = total + increment\n", 10)
	require.GreaterOrEqual(t, len([]rune(text)), 200)
	assert.True(t, d.ShouldExternalize(models.NewSample(text)))
}

func TestShouldExternalizeDetectorFallback(t *testing.T) {
	// Prose above the minimum but below the long-message override, with no
	// code-looking lines: eligibility rides on the detector alone.
	prose := strings.Repeat("nothing remarkable happens around here today ", 6)
	sample := models.NewSample(prose)
	require.GreaterOrEqual(t, sample.Length, 200)
	require.LessOrEqual(t, sample.Length, 1000)

	assert.True(t, NewDecider(200, stubDetector{tag: "yaml"}).ShouldExternalize(sample))
	assert.False(t, NewDecider(200, stubDetector{tag: ""}).ShouldExternalize(sample))
}

func TestShouldExternalizeCountsEachLineOnce(t *testing.T) {
	d := NewDecider(10, stubDetector{tag: ""})

	// A line matching several indicators still counts once; two of eight
	// lines is under the 30% threshold.
	text := "x = call(\n" + // assignment and call-like on one line
		"y = other(\n" +
		strings.Repeat("plain words here without anything\n", 6)
	sample := models.NewSample(text)
	assert.False(t, d.ShouldExternalize(sample))
}

func TestShouldExternalizeWithRealDetector(t *testing.T) {
	catalog, err := langdetect.DefaultCatalog()
	require.NoError(t, err)
	d := NewDecider(200, langdetect.NewDetector(catalog))

	// A ~300 character python snippet is eligible and detected.
	snippet := "def foo():\n    return 1\nimport os\n" +
		"def bar(value):\n    return value * 2\n" +
		"def baz(value):\n    return value + 1\n" +
		"import sys\nimport json\n" +
		"def main():\n    print(foo(), bar(2), baz(3))\n" +
		"result_value = main()\nfinal_total = result_value\n"
	sample := models.NewSample(snippet)
	require.GreaterOrEqual(t, sample.Length, 200)
	assert.True(t, d.ShouldExternalize(sample))
}
