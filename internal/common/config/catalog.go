package config

// CatalogConfig controls seed data visibility
type CatalogConfig struct {
	// MockData shows seed businesses and enables demo fallbacks when AI calls fail
	MockData        bool       `yaml:"mock_data"`
	TestBusinessIDs StringList `yaml:"test_business_ids"`
}

// DefaultTestBusinessIDs returns the ids of the seed businesses hidden outside mock mode
func DefaultTestBusinessIDs() StringList {
	return StringList{
		"b1000000-0000-0000-0000-000000000001",
		"b1000000-0000-0000-0000-000000000002",
		"b1000000-0000-0000-0000-000000000003",
		"b1000000-0000-0000-0000-000000000004",
		"b1000000-0000-0000-0000-000000000005",
	}
}

// ExcludedBusinessIDs returns the ids that listings must hide
func (c *CatalogConfig) ExcludedBusinessIDs() []string {
	if c.MockData {
		return nil
	}
	return c.TestBusinessIDs
}
