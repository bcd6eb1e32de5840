package llmfactory_test

import (
	"testing"

	"github.com/effective-security/idagent/pkg/llmfactory"
	"github.com/effective-security/idagent/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-test-key")
	t.Setenv("OPENAI_API_KEY", "openai-test-key")

	cfg, err := llmfactory.LoadConfig("testdata/llm.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "gemini", cfg.DefaultProvider)
	assert.Equal(t, "gemini-test-key", cfg.Providers[0].Token)
	assert.Equal(t, "openai-test-key", cfg.Providers[1].Token)

	t.Run("empty location", func(t *testing.T) {
		cfg, err := llmfactory.LoadConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg.Providers)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := llmfactory.LoadConfig("testdata/missing.yaml")
		assert.Error(t, err)
	})
}

func TestFindModel(t *testing.T) {
	p := &llmfactory.ProviderConfig{
		DefaultModel:    "gemini-2.0-flash",
		AvailableModels: []string{"gemini-2.0-flash", "gemini-2.5-pro"},
	}
	assert.Equal(t, "gemini-2.5-pro", p.FindModel("gemini-2.5-pro"))
	assert.Equal(t, "gemini-2.0-flash", p.FindModel("gpt-5"))
	assert.Equal(t, "gemini-2.0-flash", p.FindModel())
}

func TestDefaultModel(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-test-key")
	t.Setenv("OPENAI_API_KEY", "openai-test-key")

	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)

	var created *llmfactory.ProviderConfig
	llmfactory.NewLLM = func(cfg *llmfactory.ProviderConfig, preferredModels ...string) (llms.Model, error) {
		created = cfg
		return llmfactory.CreateLLM(cfg, preferredModels...)
	}
	defer func() { llmfactory.NewLLM = llmfactory.CreateLLM }()

	model, err := f.DefaultModel()
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "gemini", created.Name)
	assert.Equal(t, "gemini-2.0-flash", model.GetName())
	assert.Equal(t, llms.ProviderGoogleAI, model.GetProviderType())
}

func TestModelByType(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-test-key")
	t.Setenv("OPENAI_API_KEY", "openai-test-key")

	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)

	model, err := f.ModelByType("OPENAI")
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOpenAI, model.GetProviderType())

	// cached on second call
	again, err := f.ModelByType("OPENAI")
	require.NoError(t, err)
	assert.Same(t, model, again)

	_, err = f.ModelByType("BEDROCK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider not found")
}

func TestCreateLLM_Unsupported(t *testing.T) {
	_, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		Name: "claude",
		Type: "ANTHROPIC",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider type")
}
