package config

import "github.com/pbaille/sitemapgen/internal/domain"

// Default returns the built-in configuration for the tools site
func Default() *Config {
	return &Config{
		BaseURL:       "https://dapsiwow.com",
		PagesDir:      "client/src/pages",
		PageExt:       ".tsx",
		ToolPrefix:    "/tools/",
		OutputDir:     "client/public",
		InputSitemap:  "sitemap.xml",
		InventoryFile: "client/src/data/tools.ts",
		CatchAll:      domain.CatchAll,
		Exclude: []string{
			"about-us", "contact-us", "privacy-policy", "terms-of-service",
			"help-center", "not-found", "home", "all-tools", "finance-tools",
			"health-tools", "text-tools", "tool-page",
		},
		Categories: []CategoryConfig{
			{
				Name: domain.CatchAll,
				Patterns: []string{
					`/$`, `/about`, `/contact`, `/privacy`, `/terms`, `/help`,
					`/tools$`, `/finance$`, `/health$`, `/text$`,
				},
			},
			{
				Name: "finance",
				Patterns: []string{
					`loan.*calculator`, `mortgage.*calculator`, `emi.*calculator`,
					`compound.*interest`, `simple.*interest`, `roi.*calculator`,
					`tax.*calculator`, `salary.*calculator`, `tip.*calculator`,
					`inflation.*calculator`, `savings.*calculator`, `debt.*calculator`,
					`investment.*calculator`, `retirement.*calculator`, `sip.*calculator`,
					`break.*even`, `business.*loan`, `car.*loan`, `home.*loan`,
					`education.*loan`, `credit.*card`, `percentage.*calculator`,
					`discount.*calculator`, `vat.*calculator`, `gst.*calculator`,
					`paypal.*fee`, `lease.*calculator`, `stock.*profit`,
					`net.*worth`, `cryptocurrency.*converter`, `currency.*converter`,
				},
			},
			{
				Name: "health",
				Patterns: []string{
					`bmi.*calculator`, `bmr.*calculator`, `calorie.*calculator`,
					`body.*fat`, `ideal.*weight`, `pregnancy.*calculator`,
					`water.*intake`, `protein.*calculator`, `carb.*calculator`,
					`keto.*calculator`, `fasting.*timer`, `step.*calorie`,
					`heart.*rate`, `blood.*pressure`, `sleep.*calculator`,
					`ovulation.*calculator`, `baby.*growth`, `tdee.*calculator`,
					`lean.*body`, `waist.*ratio`, `whr.*calculator`,
					`life.*expectancy`, `cholesterol.*calculator`, `running.*pace`,
					`cycling.*speed`, `swimming.*calorie`, `alcohol.*calorie`,
					`smoking.*cost`, `intermittent.*fasting`,
				},
			},
			{
				Name: "text",
				Patterns: []string{
					`word.*counter`, `character.*counter`, `sentence.*counter`,
					`paragraph.*counter`, `case.*converter`, `password.*generator`,
					`name.*generator`, `username.*generator`, `address.*generator`,
					`qr.*generator`, `qr.*text`, `font.*changer`, `reverse.*text`,
					`text.*to.*qr`, `qr.*to.*text`, `text.*to.*binary`,
					`binary.*to.*text`, `qr.*scanner`, `markdown.*to.*html`,
					`html.*to.*markdown`, `lorem.*ipsum`, `text.*encrypt`,
					`text.*decrypt`, `url.*encoder`, `url.*decoder`,
					`base64.*encode`, `base64.*decode`, `decimal.*to.*text`,
					`text.*to.*decimal`,
				},
			},
		},
		MainPages: []MainPage{
			{Path: "/", ChangeFreq: domain.Daily, Priority: "1.0"},
			{Path: "/about-us", ChangeFreq: domain.Monthly, Priority: "0.8"},
			{Path: "/contact-us", ChangeFreq: domain.Monthly, Priority: "0.8"},
			{Path: "/privacy-policy", ChangeFreq: domain.Yearly, Priority: "0.5"},
			{Path: "/terms-of-service", ChangeFreq: domain.Yearly, Priority: "0.5"},
			{Path: "/help-center", ChangeFreq: domain.Monthly, Priority: "0.7"},
			{Path: "/all-tools", ChangeFreq: domain.Weekly, Priority: "0.9"},
			{Path: "/finance-tools", ChangeFreq: domain.Weekly, Priority: "0.9"},
			{Path: "/health-tools", ChangeFreq: domain.Weekly, Priority: "0.9"},
			{Path: "/text-tools", ChangeFreq: domain.Weekly, Priority: "0.9"},
		},
		Defaults: RecordDefaults{
			ChangeFreq: domain.Weekly,
			Priority:   "0.8",
		},
	}
}
