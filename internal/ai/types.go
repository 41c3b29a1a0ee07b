package ai

type (
	// GeoPoint is a geocoded city
	GeoPoint struct {
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
		City string  `json:"city"`
	}

	// Lead is a prospective partner business suggested by the model
	Lead struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Type          string `json:"type"`
		Location      string `json:"location"`
		ContactStatus string `json:"contactStatus"`
	}

	// EmailDraft is an outreach email with the pages it was grounded on
	EmailDraft struct {
		Text    string  `json:"text"`
		Sources []Chunk `json:"sources"`
	}

	// Place is a maps or web citation returned by a place search
	Place struct {
		Title   string `json:"title"`
		URI     string `json:"uri"`
		Address string `json:"address,omitempty"`
		Source  string `json:"source"` // maps or web
	}

	// DealContent is copy suggested for a new deal
	DealContent struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Discount    string `json:"discount"`
		Code        string `json:"code"`
	}

	// DealSummary is the part of a deal sent for critique
	DealSummary struct {
		BusinessName string `json:"businessName"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		Discount     string `json:"discount"`
	}

	aiDeal struct {
		ID           string `json:"id"`
		BusinessName string `json:"businessName"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		Discount     string `json:"discount"`
		Category     string `json:"category"`
		Distance     string `json:"distance"`
		Code         string `json:"code"`
		Expiry       string `json:"expiry"`
		Website      string `json:"website"`
	}
)

func stringProp(desc string) *Schema {
	return &Schema{Type: TypeString, Description: desc}
}

var (
	geoSchema = &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"lat":  {Type: TypeNumber},
			"lng":  {Type: TypeNumber},
			"city": {Type: TypeString},
		},
		Required: []string{"lat", "lng", "city"},
	}

	dealsSchema = &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"id":           stringProp(""),
				"businessName": stringProp(""),
				"title":        stringProp(""),
				"description":  stringProp(""),
				"discount":     stringProp(""),
				"category":     {Type: TypeString, Enum: []string{"food", "retail", "service"}},
				"distance":     stringProp("e.g., 0.5 miles"),
				"code":         stringProp(""),
				"expiry":       stringProp(""),
				"website":      stringProp("Full URL starting with http"),
			},
			Required: []string{"id", "businessName", "title", "description", "discount", "category", "distance", "code", "expiry", "website"},
		},
	}

	leadsSchema = &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"id":            stringProp(""),
				"name":          stringProp(""),
				"type":          stringProp(""),
				"location":      stringProp(""),
				"contactStatus": {Type: TypeString, Enum: []string{"new", "contacted", "signed_up"}},
			},
			Required: []string{"id", "name", "type", "location"},
		},
	}

	dealContentSchema = &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"title":       stringProp(""),
			"description": stringProp(""),
			"discount":    stringProp(""),
			"code":        stringProp(""),
		},
		Required: []string{"title", "description", "discount", "code"},
	}
)
