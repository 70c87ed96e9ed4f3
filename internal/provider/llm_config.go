package provider

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/CodexForgeBR/gptme-harness/internal/config"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
)

// Setter persists a single dot-separated settings key. Both *settings.Store
// and *config.Source satisfy it.
type Setter interface {
	SetValue(keyPath string, value any) error
}

// LLMAPIConfig holds the connection parameters for one provider.
type LLMAPIConfig struct {
	Endpoint *url.URL // optional
	Token    string
	Provider Provider
	Model    string // optional
}

// New builds and validates an LLMAPIConfig. endpoint and model may be empty.
func New(p Provider, token, model, endpoint string) (*LLMAPIConfig, error) {
	c := &LLMAPIConfig{Token: token, Provider: p, Model: model}
	if endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint: %w", err)
		}
		c.Endpoint = u
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the token is present, the provider is known and the
// endpoint, when set, is an absolute http(s) URL.
func (c *LLMAPIConfig) Validate() error {
	if c.Token == "" {
		return errors.New("token is required")
	}
	if !c.Provider.Valid() {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Endpoint != nil {
		if c.Endpoint.Scheme != "http" && c.Endpoint.Scheme != "https" || c.Endpoint.Host == "" {
			return fmt.Errorf("endpoint %q is not an http(s) URL", c.Endpoint)
		}
	}
	return nil
}

// EndpointVar returns the variable a custom endpoint is stored under, or ""
// when the provider does not support one.
func (c *LLMAPIConfig) EndpointVar() string {
	return c.Provider.EndpointVar()
}

// SaveToConfig persists the token and provider id, plus the model and
// endpoint for providers with a configurable endpoint. Each key is written
// separately; a failure part-way leaves the earlier keys in place.
func (c *LLMAPIConfig) SaveToConfig(s Setter) error {
	if err := s.SetValue("env."+EnvAPIKey, c.Token); err != nil {
		return fmt.Errorf("save %s: %w", EnvAPIKey, err)
	}
	if err := s.SetValue("env."+EnvProvider, c.Provider.String()); err != nil {
		return fmt.Errorf("save %s: %w", EnvProvider, err)
	}

	endpointVar := c.EndpointVar()
	if endpointVar == "" {
		logging.Warnf("Provider %s has no custom endpoint, skipping saving to config", c.Provider)
		return nil
	}
	if c.Model != "" {
		if err := s.SetValue("env."+EnvModel, c.Model); err != nil {
			return fmt.Errorf("save %s: %w", EnvModel, err)
		}
	}
	if c.Endpoint != nil {
		if err := s.SetValue("env."+endpointVar, c.Endpoint.String()); err != nil {
			return fmt.Errorf("save %s: %w", endpointVar, err)
		}
	}
	return nil
}

// FromConfig rebuilds an LLMAPIConfig from resolved configuration. The
// provider defaults to openai when API_PROVIDER is unset.
func FromConfig(cfg *config.Config) (*LLMAPIConfig, error) {
	token, err := cfg.GetEnvRequired(EnvAPIKey)
	if err != nil {
		return nil, err
	}
	p, err := Parse(cfg.GetEnv(EnvProvider, OpenAI.String()))
	if err != nil {
		return nil, err
	}
	endpoint := ""
	if v := p.EndpointVar(); v != "" {
		endpoint = cfg.GetEnv(v, "")
	}
	return New(p, token, cfg.GetEnv(EnvModel, ""), endpoint)
}
