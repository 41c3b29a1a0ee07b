package config

import "time"

type (
	// AIConfig configures the generative content gateway
	AIConfig struct {
		Provider    string         `yaml:"provider"` // gemini or openai
		APIKey      string         `yaml:"api_key"`
		BaseURL     string         `yaml:"base_url"`
		Model       string         `yaml:"model"`
		SearchModel string         `yaml:"search_model"` // used for search grounded calls
		MapsModel   string         `yaml:"maps_model"`   // used for maps grounded calls
		Timeout     time.Duration  `yaml:"timeout"`
		Outreach    OutreachConfig `yaml:"outreach"`
	}

	// OutreachConfig is the sender identity written into outreach emails
	OutreachConfig struct {
		BrandName    string `yaml:"brand_name"`
		Region       string `yaml:"region"`
		ContactEmail string `yaml:"contact_email"`
		ContactPhone string `yaml:"contact_phone"`
	}
)

func (c *AIConfig) setDefaults() {
	if c.Provider == "" {
		c.Provider = "gemini"
	}
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.SearchModel == "" {
		c.SearchModel = c.Model
	}
	if c.MapsModel == "" {
		c.MapsModel = c.Model
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Outreach.BrandName == "" {
		c.Outreach.BrandName = "Lokal"
	}
	if c.Outreach.Region == "" {
		c.Outreach.Region = "East Coast, USA"
	}
}
