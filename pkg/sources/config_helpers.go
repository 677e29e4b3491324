package sources

import "strings"

// ConfigString returns the trimmed string value for key from source.Config or a fallback.
func ConfigString(cfg Source, key, fallback string) string {
	if cfg.Config != nil {
		if raw, ok := cfg.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigAPIKeyKey         = "api_key"
	ConfigEndpointKey       = "endpoint"
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptLanguageKey = "accept_language"
)

// Headers builds the common request headers from a source config (skips empty values).
func Headers(cfg Source) map[string]string {
	headers := make(map[string]string, 2)

	if v := ConfigString(cfg, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(cfg, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}

	return headers
}
