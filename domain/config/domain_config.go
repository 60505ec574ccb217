package config

// DomainConfig holds the configurable defaults and bounds of the domain model
type DomainConfig struct {
	// Title constraints
	MinTitleLength int
	MaxTitleLength int

	// Node defaults
	DefaultNodeColor string

	// Link defaults
	DefaultLinkColor string
	DefaultLineStyle string

	// Idea capture
	DefaultIdeaCategory string

	// Pomodoro defaults, in minutes
	DefaultWorkMinutes  int
	DefaultBreakMinutes int

	// Query limits
	MaxSearchResults int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MinTitleLength: 1,
		MaxTitleLength: 500,

		DefaultNodeColor: "#FFFFFF",

		DefaultLinkColor: "#000000",
		DefaultLineStyle: "solid",

		DefaultIdeaCategory: "General",

		DefaultWorkMinutes:  25,
		DefaultBreakMinutes: 5,

		MaxSearchResults: 0, // unlimited
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Keep search payloads bounded for large maps
	config.MaxSearchResults = 200

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Short cycles make manual timer testing practical
	config.DefaultWorkMinutes = 1
	config.DefaultBreakMinutes = 1

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
