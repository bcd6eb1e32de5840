package llmfactory

import (
	"slices"

	"github.com/effective-security/x/configloader"
)

// Config describes the LLM providers available to the service.
type Config struct {
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers"`
	// DefaultProvider specifies the default provider to use
	DefaultProvider string `json:"default_provider" yaml:"default_provider"`
}

// ProviderConfig describes one LLM provider.
type ProviderConfig struct {
	Name string `json:"name" yaml:"name"`
	// Type specifies the type of provider: GOOGLEAI|OPENAI
	Type            string   `json:"type" yaml:"type"`
	Token           string   `json:"token,omitempty" yaml:"token,omitempty"`
	BaseURL         string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	DefaultModel    string   `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty" yaml:"available_models,omitempty"`
	// Organization specifies which organization's quota and billing should be
	// used when making API requests, OpenAI only.
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
}

// FindModel returns the first preferred model the provider offers, or the
// provider's default model.
func (c *ProviderConfig) FindModel(models ...string) string {
	for _, model := range models {
		if slices.Contains(c.AvailableModels, model) {
			return model
		}
	}
	return c.DefaultModel
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
