package cnst

const (
	AppName = "lokal"
)

// Role is the access level attached to a profile
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleAdmin    Role = "admin"
)

// Category groups businesses and deals
type Category string

const (
	CategoryFood    Category = "food"
	CategoryRetail  Category = "retail"
	CategoryService Category = "service"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryFood, CategoryRetail, CategoryService}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// LeadStatus tracks outreach progress for a prospective business
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusSignedUp  LeadStatus = "signed_up"
)

// Valid reports whether s is a known lead status
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusSignedUp:
		return true
	}
	return false
}

const (
	ContractStatusActive = "active"
	AssignmentRoleOwner  = "owner"
)

const (
	// PointsPerRedemption is granted on every redemption, repeats included
	PointsPerRedemption = 50
	// AssumedBasketValue is the spend per redemption commission is charged on
	AssumedBasketValue = 40
	// StarterPoints seeds a new consumer profile
	StarterPoints = 50
	// SuperAdminStarterPoints seeds a bootstrapped super-admin profile
	SuperAdminStarterPoints = 999
	// PromptHistoryLimit caps the prompt history per owner
	PromptHistoryLimit = 50
)

const (
	DefaultBusinessName = "Local Business"
	DefaultDealDistance = "0.5 miles"
	SavedDealDistance   = "Varies"
)
