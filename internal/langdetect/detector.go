package langdetect

import (
	"strings"

	"pastebot/internal/models"
)

// Unknown is the tag returned when no profile scores on the text.
const Unknown = ""

// Detector scores message text against a language catalog. Detection is a
// pure function of the text and the catalog: identical input always yields
// the identical tag.
type Detector struct {
	catalog *Catalog
}

// NewDetector creates a detector over the given catalog.
func NewDetector(catalog *Catalog) *Detector {
	return &Detector{catalog: catalog}
}

// Detect returns the best-guess language tag for the sample, or Unknown.
//
// A shebang on the first line short-circuits scoring entirely. Otherwise
// every profile is scored: 10*weight per pattern that matches anywhere in
// the text, plus weight per whole-token keyword occurrence. The highest
// score wins; on a tie the profile listed earlier in the catalog wins.
func (d *Detector) Detect(sample models.Sample) string {
	if strings.TrimSpace(sample.Text) == "" {
		return Unknown
	}

	if tag := shebangLanguage(sample.Lines[0]); tag != Unknown {
		return tag
	}

	best := Unknown
	bestScore := 0
	for _, p := range d.catalog.Profiles {
		score := 0
		for _, re := range p.Patterns {
			if re.MatchString(sample.Text) {
				score += 10 * p.Weight
			}
		}
		for _, re := range p.Keywords {
			score += len(re.FindAllStringIndex(sample.Text, -1)) * p.Weight
		}
		// Strict comparison keeps the first-listed profile on ties.
		if score > bestScore {
			best = p.Name
			bestScore = score
		}
	}
	return best
}

func shebangLanguage(firstLine string) string {
	firstLine = strings.ToLower(firstLine)
	if !strings.HasPrefix(firstLine, "#!") {
		return Unknown
	}
	switch {
	case strings.Contains(firstLine, "python"):
		return "python"
	case strings.Contains(firstLine, "bash"), strings.Contains(firstLine, "sh"):
		return "bash"
	case strings.Contains(firstLine, "node"):
		return "javascript"
	}
	return Unknown
}
