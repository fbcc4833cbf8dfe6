package prompt

import (
	"encoding/json"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
)

// LayoutInstruction builds the system instruction for a layout generation.
// previous is nil for a fresh site.
func LayoutInstruction(style domain.ThemeStyle, previous *domain.Layout) string {
	data := LayoutPromptData{
		ThemeStyle: style,
		Style:      GuideFor(style),
	}
	if previous != nil {
		if raw, err := json.MarshalIndent(previous, "", "  "); err == nil {
			data.Previous = string(raw)
		}
	}

	if out, err := DefaultPromptBuilder().Render(TemplateLayoutSystem, data); err == nil {
		return out
	}
	return FallbackLayoutInstruction(data)
}

// LogoInstruction returns the system and user messages for a lettermark logo.
func LogoInstruction(brand, primary, secondary string, style domain.ThemeStyle) (system, user string) {
	sys := LogoSystemData{
		ViewBox: constants.LogoConfig.ViewBox,
		Size:    constants.LogoConfig.Size,
		Guides:  StyleGuides(),
	}
	if secondary == "" {
		secondary = "#ffffff"
	}
	usr := LogoUserData{
		BrandName:      brand,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		ThemeStyle:     style,
	}

	pb := DefaultPromptBuilder()
	system, err := pb.Render(TemplateLogoSystem, sys)
	if err != nil {
		system = FallbackLogoSystem(sys)
	}
	user, err = pb.Render(TemplateLogoUser, usr)
	if err != nil {
		user = FallbackLogoUser(usr)
	}
	return system, user
}
