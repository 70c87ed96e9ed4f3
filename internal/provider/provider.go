// Package provider describes the LLM API vendors the assistant can talk to and
// the connection parameters persisted for them.
package provider

import (
	"fmt"
	"sort"
	"strings"
)

// Provider identifies an LLM API vendor.
type Provider string

// Known providers. The string values are what gets persisted in API_PROVIDER.
const (
	OpenAI      Provider = "openai"
	AzureOpenAI Provider = "azure"
	Anthropic   Provider = "anthropic"
	OpenRouter  Provider = "openrouter"
	Local       Provider = "local"
)

type family int

const (
	openAIAlike family = iota
	anthropicAlike
)

// traits holds the per-provider rules.
type traits struct {
	family family
	// endpointVar is the variable holding a custom API endpoint. Providers
	// without one use a fixed endpoint.
	endpointVar string
}

// Environment variable names used to persist a provider configuration.
const (
	EnvAPIKey   = "API_KEY"
	EnvProvider = "API_PROVIDER"
	EnvModel    = "API_MODEL"
	EnvEndpoint = "API_ENDPOINT"
)

var table = map[Provider]traits{
	OpenAI:      {family: openAIAlike, endpointVar: EnvEndpoint},
	AzureOpenAI: {family: openAIAlike, endpointVar: EnvEndpoint},
	Anthropic:   {family: anthropicAlike},
	OpenRouter:  {family: openAIAlike},
	Local:       {family: openAIAlike},
}

// aliases maps accepted spellings onto their Provider.
var aliases = map[string]Provider{
	"azure_openai": AzureOpenAI,
}

// All returns every known provider, sorted by name.
func All() []Provider {
	all := make([]Provider, 0, len(table))
	for p := range table {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Parse converts a provider id into a Provider.
func Parse(s string) (Provider, error) {
	id := strings.ToLower(strings.TrimSpace(s))
	if p, ok := aliases[id]; ok {
		return p, nil
	}
	p := Provider(id)
	if _, ok := table[p]; !ok {
		return "", fmt.Errorf("unknown provider %q (expected one of %v)", s, All())
	}
	return p, nil
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	_, ok := table[p]
	return ok
}

func (p Provider) String() string { return string(p) }

// IsOpenAIAlike reports whether p speaks the OpenAI chat API.
func (p Provider) IsOpenAIAlike() bool {
	t, ok := table[p]
	return ok && t.family == openAIAlike
}

// IsAnthropicAlike reports whether p speaks the Anthropic messages API.
func (p Provider) IsAnthropicAlike() bool {
	t, ok := table[p]
	return ok && t.family == anthropicAlike
}

// IsOpenRouter reports whether p is OpenRouter.
func (p Provider) IsOpenRouter() bool { return p == OpenRouter }

// EndpointVar returns the environment variable holding a custom endpoint for
// p, or "" when p has a fixed endpoint.
func (p Provider) EndpointVar() string {
	return table[p].endpointVar
}
