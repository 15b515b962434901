package models

// SettingsDocID is the key of the singleton settings document.
const SettingsDocID = "landingPage"

// Settings is the per-deployment configuration document rendered by the
// public page. The whole document is replaced on every save; there is no
// partial patching and no optimistic concurrency (last writer wins).
type Settings struct {
	Profile       Profile    `json:"profile"`
	Theme         Theme      `json:"theme"`
	Socials       []Social   `json:"socials,omitempty"`
	Resources     []Resource `json:"resources,omitempty"`
	TestDrive     TestDrive  `json:"testDrive"`
	Chatbot       Chatbot    `json:"chatbot"`
	Brochure      Brochure   `json:"brochure"`
	EnableChatbot *bool      `json:"enableChatbot,omitempty"`
}

// Profile holds the operator identity shown in the page header.
type Profile struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	Bio            string `json:"bio"`
	Image          string `json:"image"`
	Phone          string `json:"phone"`
	WhatsApp       string `json:"whatsapp"`
	Rating         string `json:"rating,omitempty"`
	DeliveredCount string `json:"deliveredCount,omitempty"`
}

// Theme is a bundle of four color values, optionally tied to a named preset.
type Theme struct {
	Preset          string `json:"preset,omitempty"`
	Custom          bool   `json:"custom,omitempty"`
	PrimaryColor    string `json:"primaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	CardColor       string `json:"cardColor"`
}

// Social is a footer social-media entry.
type Social struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Resource is an admin-configured link, PDF, or map entry.
type Resource struct {
	Type     string `json:"type"` // "link", "pdf", or "location"
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
}

// TestDrive holds the appointment-widget copy.
type TestDrive struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

// Chatbot holds the assistant toggle and operator-supplied knowledge text.
type Chatbot struct {
	Enabled            *bool  `json:"enabled,omitempty"`
	CustomInstructions string `json:"customInstructions,omitempty"`
}

// Brochure points at an optional PDF attached to chat requests.
type Brochure struct {
	URL string `json:"url,omitempty"`
}

// ChatbotEnabled reports whether the chat widget is on. Both the nested
// toggle and the legacy top-level flag must agree; either unset means on.
func (s *Settings) ChatbotEnabled() bool {
	if s.Chatbot.Enabled != nil && !*s.Chatbot.Enabled {
		return false
	}
	if s.EnableChatbot != nil && !*s.EnableChatbot {
		return false
	}
	return true
}

// DefaultSettings returns the fallback document used when nothing has been
// saved yet. Field values mirror the public page's built-in defaults.
func DefaultSettings() *Settings {
	enabled := true
	return &Settings{
		Profile: Profile{
			Name:     "Generic Auto Sales",
			Role:     "Premium Vehicle Consultant",
			Bio:      "Helping you find your dream car.",
			Image:    "https://ui-avatars.com/api/?name=Auto+Sales&background=0D8ABC&color=fff&size=128",
			Phone:    "+1234567890",
			WhatsApp: "1234567890",
		},
		Theme: Theme{
			PrimaryColor:    "#0D9488",
			BackgroundColor: "#111827",
			TextColor:       "#F9FAFB",
			CardColor:       "#1F2937",
		},
		Socials: []Social{
			{Type: "instagram", URL: "#", Enabled: &enabled},
			{Type: "linkedin", URL: "#", Enabled: &enabled},
		},
		Resources: []Resource{
			{Type: "location", Title: "Visit Showroom", Subtitle: "Find us on Google Maps", URL: "https://maps.google.com"},
		},
		TestDrive: TestDrive{
			Title:    "Book a Test Drive",
			Subtitle: "Schedule an appointment",
			Enabled:  &enabled,
		},
		Chatbot:       Chatbot{Enabled: &enabled},
		EnableChatbot: &enabled,
	}
}

// ThemePresets are the named color bundles offered in the admin console.
func ThemePresets() map[string]Theme {
	return map[string]Theme{
		"midnight": {
			Preset:          "midnight",
			PrimaryColor:    "#0D9488",
			BackgroundColor: "#111827",
			TextColor:       "#F9FAFB",
			CardColor:       "#1F2937",
		},
		"daylight": {
			Preset:          "daylight",
			PrimaryColor:    "#0D9488",
			BackgroundColor: "#F9FAFB",
			TextColor:       "#111827",
			CardColor:       "#FFFFFF",
		},
		"crimson": {
			Preset:          "crimson",
			PrimaryColor:    "#DC2626",
			BackgroundColor: "#18181B",
			TextColor:       "#FAFAFA",
			CardColor:       "#27272A",
		},
		"royal": {
			Preset:          "royal",
			PrimaryColor:    "#4F46E5",
			BackgroundColor: "#F8FAFC",
			TextColor:       "#0F172A",
			CardColor:       "#FFFFFF",
		},
	}
}
