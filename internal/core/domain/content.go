package domain

// Program describes one of the organization's service programs.
type Program struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Eligibility []string `json:"eligibility"`
	HowToApply  string   `json:"how_to_apply"`
}

// BoardMember is a member of the board of directors.
type BoardMember struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Bio       string   `json:"bio"`
	Expertise []string `json:"expertise"`
	Email     string   `json:"email"`
}

// Sponsor is a supporting organization shown on the sponsors page.
type Sponsor struct {
	Name    string `json:"name"`
	Tier    string `json:"tier"`
	Website string `json:"website,omitempty"`
}

// GalleryItem is a single photo entry on the gallery page.
type GalleryItem struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// ValueStatement is a titled blurb on the about page: a core value or a
// served group.
type ValueStatement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ImpactStat is a headline figure shown on the public site.
type ImpactStat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AboutInfo is the organization's mission content.
type AboutInfo struct {
	Mission    string           `json:"mission"`
	Vision     string           `json:"vision"`
	Goal       string           `json:"goal"`
	Values     []ValueStatement `json:"values"`
	WhoWeServe []ValueStatement `json:"who_we_serve"`
	Impact     []ImpactStat     `json:"impact"`
}

// ContactInfo is the organization's public contact block.
type ContactInfo struct {
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OfficeHours string `json:"office_hours"`
}

// GivingLevel is a suggested donation amount with its stated impact.
type GivingLevel struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// GivingInfo describes ways to support the organization. Payment itself
// is handled off-platform.
type GivingInfo struct {
	DevelopmentEmail string        `json:"development_email"`
	MonthlyAvailable bool          `json:"monthly_available"`
	Levels           []GivingLevel `json:"levels"`
}
