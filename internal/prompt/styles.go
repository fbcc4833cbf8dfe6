package prompt

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kapu/astroweb-go/internal/domain"
)

//go:embed styles.yaml
var stylesYAML []byte

// StyleGuide is the copywriting and visual direction for one theme style.
type StyleGuide struct {
	Style      domain.ThemeStyle `yaml:"style"`
	Tone       string            `yaml:"tone"`
	Palette    string            `yaml:"palette"`
	Typography string            `yaml:"typography"`
	Logo       string            `yaml:"logo"`
}

type styleFile struct {
	Styles []StyleGuide `yaml:"styles"`
}

var (
	stylesOnce sync.Once
	styles     []StyleGuide
	stylesErr  error
)

func loadStyles() ([]StyleGuide, error) {
	stylesOnce.Do(func() {
		var f styleFile
		if err := yaml.Unmarshal(stylesYAML, &f); err != nil {
			stylesErr = fmt.Errorf("decode style guides: %w", err)
			return
		}
		styles = f.Styles
	})
	return styles, stylesErr
}

// StyleGuides returns the guidance for every theme style in picker order.
func StyleGuides() []StyleGuide {
	guides, err := loadStyles()
	if err != nil || len(guides) == 0 {
		return fallbackGuides()
	}
	return guides
}

// GuideFor returns the guidance for style, falling back to the default style.
func GuideFor(style domain.ThemeStyle) StyleGuide {
	guides := StyleGuides()
	for _, g := range guides {
		if g.Style == style {
			return g
		}
	}
	for _, g := range guides {
		if g.Style == domain.DefaultThemeStyle {
			return g
		}
	}
	return StyleGuide{Style: domain.DefaultThemeStyle}
}
