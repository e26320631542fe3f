package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Preferences is the remembered style profile of one chat session.
type Preferences struct {
	SessionID      string    `json:"session_id" bson:"_id"`
	Style          string    `json:"style,omitempty" bson:"style,omitempty"`
	Occasion       string    `json:"occasion,omitempty" bson:"occasion,omitempty"`
	Budget         string    `json:"budget,omitempty" bson:"budget,omitempty"`
	Size           string    `json:"size,omitempty" bson:"size,omitempty"`
	FavoriteBrands []string  `json:"favorite_brands,omitempty" bson:"favorite_brands,omitempty"`
	Colors         []string  `json:"colors,omitempty" bson:"colors,omitempty"`
	LastUpdated    time.Time `json:"last_updated" bson:"last_updated"`
}

func (Preferences) CollectionName() string {
	return "preferences"
}

// PreferencesPatch is a partial update. Nil fields are left untouched.
type PreferencesPatch struct {
	Style          *string  `json:"style,omitempty" validate:"omitempty,max=50"`
	Occasion       *string  `json:"occasion,omitempty" validate:"omitempty,max=50"`
	Budget         *string  `json:"budget,omitempty" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	Size           *string  `json:"size,omitempty" validate:"omitempty,max=10"`
	FavoriteBrands []string `json:"favorite_brands,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Colors         []string `json:"colors,omitempty" validate:"omitempty,max=20,dive,max=30"`
}

func (p PreferencesPatch) Empty() bool {
	return p.Style == nil && p.Occasion == nil && p.Budget == nil && p.Size == nil &&
		len(p.FavoriteBrands) == 0 && len(p.Colors) == 0
}

// Apply merges the patch into p. List values are appended without duplicates.
func (p *Preferences) Apply(patch PreferencesPatch, now time.Time) {
	if patch.Style != nil {
		p.Style = *patch.Style
	}
	if patch.Occasion != nil {
		p.Occasion = *patch.Occasion
	}
	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}
	if patch.Size != nil {
		p.Size = *patch.Size
	}
	p.FavoriteBrands = appendUnique(p.FavoriteBrands, patch.FavoriteBrands...)
	p.Colors = appendUnique(p.Colors, patch.Colors...)
	p.LastUpdated = now
}

func (p *Preferences) HasAny() bool {
	return p != nil && (p.Style != "" || p.Occasion != "" || p.Budget != "" || p.Size != "" ||
		len(p.FavoriteBrands) > 0 || len(p.Colors) > 0)
}

// Summary renders the preferences as a short sentence for prompts.
func (p *Preferences) Summary() string {
	if !p.HasAny() {
		return "No preferences saved yet."
	}
	parts := make([]string, 0, 6)
	if p.Style != "" {
		parts = append(parts, "Style: "+p.Style)
	}
	if p.Occasion != "" {
		parts = append(parts, "Occasion: "+p.Occasion)
	}
	if p.Budget != "" {
		parts = append(parts, "Budget: "+p.Budget)
	}
	if p.Size != "" {
		parts = append(parts, "Size: "+p.Size)
	}
	if len(p.FavoriteBrands) > 0 {
		parts = append(parts, fmt.Sprintf("Favorite brands: %s", strings.Join(p.FavoriteBrands, ", ")))
	}
	if len(p.Colors) > 0 {
		parts = append(parts, fmt.Sprintf("Colors: %s", strings.Join(p.Colors, ", ")))
	}
	return strings.Join(parts, " | ")
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.ContainsFunc(dst, func(s string) bool { return strings.EqualFold(s, v) }) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}
