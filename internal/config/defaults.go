package config

import "fmt"

// DefaultPromptTemplate is the system prompt used when the config does not
// override it. The {custom_instructions} and {inventory_context} tokens are
// replaced verbatim with operator- and caller-supplied text.
const DefaultPromptTemplate = `You are a helpful AI assistant for a business.

YOUR KNOWLEDGE BASE:
{custom_instructions}

CURRENT INVENTORY:
{inventory_context}

INSTRUCTIONS:
- Answer questions based on the inventory and knowledge base.
- Be polite, professional, and concise.
- If asked about something not in the inventory, suggest they contact us directly.
- Respond in Indonesian (Bahasa Indonesia) or English as appropriate based on the user's language.`

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/showroom/data/db/showroom.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/showroom/data/indices/inventory"
	}
	if cfg.Storage.AssetsDir == "" {
		cfg.Storage.AssetsDir = "/usr/local/var/showroom/data/assets"
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gemini-1.5-flash"
	}
	if cfg.Chat.APIKeyEnv == "" {
		cfg.Chat.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Chat.PromptTemplate == "" {
		cfg.Chat.PromptTemplate = DefaultPromptTemplate
	}
	if cfg.Chat.BrochureMode == "" {
		cfg.Chat.BrochureMode = "inline"
	}
	if cfg.Chat.FetchTimeoutSeconds == 0 {
		cfg.Chat.FetchTimeoutSeconds = 30
	}
}
