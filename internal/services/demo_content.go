package services

// DefaultDemoContent is the constant fallback table for demo previews, keyed
// by template slug then dotted field key. It fills the fields whose schema
// declares no default so a preview never renders half empty.
func DefaultDemoContent() map[string]map[string]string {
	return map[string]map[string]string{
		"classic": {
			"hero.tagline":         "Your trusted equipment partner since 1985",
			"hero.backgroundImage": "assets/demo/classic-hero.jpg",
			"featured.heading":     "Featured Equipment",
			"testimonials.items":   `[{"text":"Great people to deal with, fair prices.","name":"R. Hoffman"},{"text":"They keep our fleet running all season.","name":"Miller Farms"}]`,
			"servicePage.intro":    "Factory trained technicians for every brand we carry.",
			"contactPage.intro":    "Stop by the dealership or send us a message.",
			"contactPage.email":    "sales@example.com",
			"inventoryPage.intro":  "Browse our current in-stock equipment.",
			"rentalsPage.intro":    "Daily, weekly, and monthly rental rates available.",
		},
		"summit": {
			"hero.heading":         "Gear Up For The Season",
			"hero.tagline":         "Sales, service, and rentals under one roof",
			"hero.backgroundImage": "assets/demo/summit-hero.jpg",
			"featured.heading":     "This Month's Picks",
			"testimonials.items":   `[{"text":"Best service department in the county.","name":"T. Alvarez"}]`,
			"servicePage.intro":    "Book service online and we'll have you back in the field fast.",
			"contactPage.intro":    "Questions about a machine? Talk to a real person.",
			"contactPage.email":    "info@example.com",
			"inventoryPage.intro":  "New and used units updated daily.",
			"rentalsPage.intro":    "Reserve rental equipment ahead of the rush.",
		},
	}
}
