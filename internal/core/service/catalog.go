package service

import "github.com/samaraworks/portal-api/internal/core/domain"

// Catalog serves the public site content: programs, board, sponsors and
// gallery. The content is curated and changes through deploys, so it lives
// in code rather than a datastore.
type Catalog struct {
	programs []domain.Program
	board    []domain.BoardMember
	sponsors []domain.Sponsor
	gallery  []domain.GalleryItem
}

func NewCatalog() *Catalog {
	return &Catalog{
		programs: programCatalog,
		board:    boardCatalog,
		sponsors: sponsorCatalog,
		gallery:  galleryCatalog,
	}
}

func (c *Catalog) Programs() []domain.Program {
	return c.programs
}

// Program returns the program with the given id, or nil.
func (c *Catalog) Program(id string) *domain.Program {
	for i := range c.programs {
		if c.programs[i].ID == id {
			return &c.programs[i]
		}
	}
	return nil
}

func (c *Catalog) Board() []domain.BoardMember {
	return c.board
}

func (c *Catalog) Sponsors() []domain.Sponsor {
	return c.sponsors
}

func (c *Catalog) About() domain.AboutInfo {
	return aboutInfo
}

func (c *Catalog) Contact() domain.ContactInfo {
	return contactInfo
}

func (c *Catalog) Giving() domain.GivingInfo {
	return givingInfo
}

// Gallery returns the gallery items, filtered by category when one is given.
func (c *Catalog) Gallery(category string) []domain.GalleryItem {
	if category == "" || category == "all" {
		return c.gallery
	}
	items := make([]domain.GalleryItem, 0, len(c.gallery))
	for _, item := range c.gallery {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

var programCatalog = []domain.Program{
	{
		ID:          "housing",
		Title:       "Housing Stability Support",
		Description: "We help families secure safe, affordable homes and stay housed through coaching, financial assistance, and landlord partnership.",
		Features: []string{
			"Emergency rental assistance",
			"Security deposit support",
			"Landlord mediation services",
			"Housing search assistance",
			"Financial coaching",
			"Utility bill assistance",
		},
		Eligibility: []string{
			"Families with children under 18",
			"Income at or below 80% of area median",
			"Facing eviction or homelessness",
			"Resident of Albany County",
		},
		HowToApply: "Complete our Family Support Request form. Our team will contact you within 48 hours to discuss your situation and available options.",
	},
	{
		ID:          "supplies",
		Title:       "Baby Supplies & Essentials",
		Description: "Diapers, wipes, formula, clothing, cribs, and car seats, delivered with dignity and care to families in need.",
		Features: []string{
			"Monthly diaper distribution",
			"Formula and baby food",
			"Clothing (newborn to 5T)",
			"Cribs and car seats",
			"Baby hygiene products",
			"Maternity supplies",
		},
		Eligibility: []string{
			"Expectant mothers",
			"Families with children under 5",
			"Income at or below 200% federal poverty level",
			"Resident of Albany County",
		},
		HowToApply: "Register for our monthly distribution events through the Family Portal or call our office to schedule a pickup.",
	},
	{
		ID:          "childcare",
		Title:       "Childcare & Early Childhood Programs",
		Description: "Quality care, developmental screenings, and parent coaching for the years that shape everything.",
		Features: []string{
			"Free pre-K readiness workshops",
			"Parent coaching and support",
			"Developmental screenings",
			"Referrals to quality childcare",
			"Early literacy programs",
			"Playgroup sessions",
		},
		Eligibility: []string{
			"Families with children ages 0-5",
			"Income-qualified families",
			"First-time parents",
			"Resident of Albany County",
		},
		HowToApply: "Sign up through our Family Portal or attend one of our monthly orientation sessions.",
	},
	{
		ID:          "emergency",
		Title:       "Emergency Family Assistance",
		Description: "When crisis hits, we respond with food, utilities, transportation, and a clear path to stability.",
		Features: []string{
			"24-48 hour response time",
			"Emergency food assistance",
			"Utility bill payment",
			"Transportation support",
			"Crisis counseling referrals",
			"Case management",
		},
		Eligibility: []string{
			"Families facing immediate crisis",
			"No income requirements for emergency aid",
			"Resident of Albany County",
			"Demonstrated need",
		},
		HowToApply: "Call our emergency hotline at 614-733-9624 or complete the Emergency Assistance Intake form online.",
	},
	{
		ID:          "community",
		Title:       "Community Revitalization",
		Description: "Building stronger neighborhoods through community engagement, volunteer programs, and partnership development.",
		Features: []string{
			"Neighborhood clean-up events",
			"Community garden projects",
			"Volunteer coordination",
			"Local partnership development",
			"Resident leadership training",
			"Community events",
		},
		Eligibility: []string{
			"Open to all residents",
			"Volunteers must complete orientation",
			"Partner organizations welcome",
		},
		HowToApply: "Join through our Volunteer Application form or contact our community engagement team.",
	},
}

var boardCatalog = []domain.BoardMember{
	{
		Name:      "Abdulai Mohamed",
		Role:      "President",
		Bio:       "Abdulai Mohamed brings over 20 years of experience in community development and nonprofit leadership. As President of Samara Works, he guides our strategic vision and oversees organizational growth. Previously, he served as Executive Director of the Albany Community Development Corporation, where he spearheaded initiatives that provided affordable housing to over 500 families.",
		Expertise: []string{"Strategic Planning", "Community Development", "Nonprofit Governance"},
		Email:     "abdulai@samaraworks.org",
	},
	{
		Name:      "Owusu Anne",
		Role:      "Board Member",
		Bio:       "Owusu Anne is a dedicated advocate for family welfare and children's rights. With a background in social work and public policy, she brings valuable insights to our program development and community outreach efforts. She currently serves as a Senior Policy Advisor at the New York State Department of Family Services.",
		Expertise: []string{"Social Work", "Public Policy", "Family Services"},
		Email:     "anne@samaraworks.org",
	},
	{
		Name:      "Benjamin Eseku",
		Role:      "Board Member",
		Bio:       "Benjamin Eseku is a financial professional with expertise in nonprofit finance and sustainable funding models. As CFO of a regional healthcare nonprofit, he manages budgets exceeding $50 million. His financial acumen ensures Samara Works maintains fiscal responsibility while maximizing our impact on the communities we serve.",
		Expertise: []string{"Nonprofit Finance", "Fundraising", "Operations Management"},
		Email:     "benjamin@samaraworks.org",
	},
}

var sponsorCatalog = []domain.Sponsor{
	{Name: "Albany Community Foundation", Tier: "Platinum"},
	{Name: "Hometown Bank", Tier: "Gold"},
	{Name: "BabyCare Products Inc.", Tier: "Platinum"},
	{Name: "Capital Region Housing Authority", Tier: "Partner"},
	{Name: "Smith Family Trust", Tier: "Silver"},
	{Name: "Healthy Start Pediatrics", Tier: "Partner"},
}

var galleryCatalog = []domain.GalleryItem{
	{Title: "Welcome Home", Category: "families", Image: "/images/gallery_welcome_home.jpg"},
	{Title: "Mother and Child", Category: "families", Image: "/images/gallery_mother_child.jpg"},
	{Title: "Keys to a New Beginning", Category: "programs", Image: "/images/housing_family_keys.jpg"},
	{Title: "Baby Essentials", Category: "programs", Image: "/images/supplies_baby_room.jpg"},
	{Title: "Learning Through Play", Category: "programs", Image: "/images/childcare_play_group.jpg"},
	{Title: "Emergency Support", Category: "programs", Image: "/images/emergency_volunteer_help.jpg"},
	{Title: "Our Volunteers", Category: "community", Image: "/images/gallery_volunteers.jpg"},
	{Title: "Joy in the Community", Category: "community", Image: "/images/gallery_community_joy.jpg"},
	{Title: "Community Gathering", Category: "events", Image: "/images/impact_community_event.jpg"},
	{Title: "Walking Together", Category: "families", Image: "/images/gallery_walking_together.jpg"},
	{Title: "Mentorship Moment", Category: "programs", Image: "/images/gallery_mentorship.jpg"},
	{Title: "Community Breakfast", Category: "events", Image: "/images/gallery_breakfast.jpg"},
	{Title: "Back-to-School Drive", Category: "events", Image: "/images/gallery_school_drive.jpg"},
	{Title: "Housing Partnership Launch", Category: "events", Image: "/images/gallery_partnership.jpg"},
	{Title: "Leadership", Category: "community", Image: "/images/gallery_leadership.jpg"},
}

var contactInfo = domain.ContactInfo{
	Address:     "22 Fairlawn Ave, Albany, NY 12203",
	Phone:       "614-733-9624",
	Email:       "info@samaraworks.org",
	OfficeHours: "Monday - Friday, 9:00 AM - 5:00 PM EST",
}

var givingInfo = domain.GivingInfo{
	DevelopmentEmail: "development@samaraworks.org",
	MonthlyAvailable: true,
	Levels: []domain.GivingLevel{
		{Amount: 25, Description: "Provides diapers for one baby for a week"},
		{Amount: 50, Description: "Feeds a family for three days"},
		{Amount: 100, Description: "Provides emergency rental assistance"},
		{Amount: 250, Description: "Supplies a crib and car seat"},
		{Amount: 500, Description: "Covers one month of childcare"},
		{Amount: 1000, Description: "Prevents a family from eviction"},
	},
}

var aboutInfo = domain.AboutInfo{
	Mission: "Samara Works is a nonprofit dedicated to helping mothers, children, and families thrive by providing housing stability, baby supplies, childcare support, and emergency assistance, so every family has a foundation to grow.",
	Vision:  "We envision a world where every family has access to safe housing, essential resources, and the support they need to build a bright future. A world where no mother worries about feeding her child, where every baby has a warm crib to sleep in, and where communities come together to lift each other up.",
	Goal:    "By 2030, we aim to support 50,000 families across New York State, creating a model for family-centered community support that can be replicated nationwide.",
	Values: []domain.ValueStatement{
		{Title: "Compassion", Description: "We meet every family with empathy, understanding, and genuine care for their wellbeing."},
		{Title: "Community", Description: "We believe in the power of collective action and mutual support to create lasting change."},
		{Title: "Stability", Description: "We work to provide the foundational security every family needs to thrive and grow."},
		{Title: "Dignity", Description: "We serve with respect, preserving the dignity of every individual we support."},
	},
	WhoWeServe: []domain.ValueStatement{
		{Title: "Mothers", Description: "Single mothers, new mothers, and mothers facing economic hardship."},
		{Title: "Children", Description: "Children from birth through age 12, with focus on early childhood development."},
		{Title: "Families", Description: "Families experiencing housing instability, financial crisis, or emergency situations."},
		{Title: "Community", Description: "Neighborhoods and communities seeking revitalization and stronger support networks."},
	},
	Impact: []domain.ImpactStat{
		{Value: "12,000+", Label: "Families Supported"},
		{Value: "90%", Label: "Housing Stability Rate"},
		{Value: "4,500+", Label: "Volunteer Hours"},
		{Value: "85%", Label: "Improved Stability"},
	},
}
