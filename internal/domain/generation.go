package domain

import "time"

// Generation is a persisted layout owned by one identity.
type Generation struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	Prompt     string     `json:"prompt"`
	Layout     Layout     `json:"layout"`
	ShareToken string     `json:"shareId"`
	SiteName   string     `json:"siteName"`
	ThemeStyle ThemeStyle `json:"themeStyle"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Summary drops the layout body for list views.
func (g *Generation) Summary() GenerationSummary {
	if g == nil {
		return GenerationSummary{}
	}
	return GenerationSummary{
		ID:         g.ID,
		Prompt:     g.Prompt,
		ShareToken: g.ShareToken,
		SiteName:   g.SiteName,
		ThemeStyle: g.ThemeStyle,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

type GenerationSummary struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	ShareToken string     `json:"shareId"`
	SiteName   string     `json:"siteName"`
	ThemeStyle ThemeStyle `json:"themeStyle"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// RecordRef identifies a stored generation and its public share handle.
type RecordRef struct {
	ID         string `json:"id"`
	ShareToken string `json:"shareId"`
}

// SharedSite is the unauthenticated view of a shared layout.
type SharedSite struct {
	ShareToken string    `json:"shareId"`
	Prompt     string    `json:"prompt"`
	Layout     Layout    `json:"layout"`
	CreatedAt  time.Time `json:"createdAt"`
}
