package prompt

import "github.com/kapu/astroweb-go/internal/domain"

type LayoutPromptData struct {
	ThemeStyle domain.ThemeStyle
	Style      StyleGuide
	// Previous is the current layout as JSON when modifying an existing site.
	Previous string
}

type LogoSystemData struct {
	ViewBox string
	Size    int
	Guides  []StyleGuide
}

type LogoUserData struct {
	BrandName      string
	PrimaryColor   string
	SecondaryColor string
	ThemeStyle     domain.ThemeStyle
}
