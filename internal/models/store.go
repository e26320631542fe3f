package models

// Store is one e-commerce site the search pipeline can query.
type Store struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"name" json:"name"`
	BaseURL     string `yaml:"base_url" json:"base_url"`
	SearchURL   string `yaml:"search_url" json:"search_url"`
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	Currency    string `yaml:"currency" json:"currency"`
}
