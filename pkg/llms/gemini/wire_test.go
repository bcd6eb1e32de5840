package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPart_UnmarshalFunctionCallSpellings(t *testing.T) {
	tcases := []struct {
		name string
		js   string
	}{
		{"camel", `{"functionCall":{"name":"ListUsers","args":{}}}`},
		{"snake", `{"function_call":{"name":"ListUsers","args":{}}}`},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			var p Part
			require.NoError(t, json.Unmarshal([]byte(tc.js), &p))
			require.NotNil(t, p.FunctionCall)
			assert.Equal(t, "ListUsers", p.FunctionCall.Name)
		})
	}
}

func TestPart_UnmarshalFunctionResponseSpellings(t *testing.T) {
	tcases := []struct {
		name string
		js   string
	}{
		{"camel", `{"functionResponse":{"name":"ListUsers","response":{"response":"[]"}}}`},
		{"snake", `{"function_response":{"name":"ListUsers","response":{"response":"[]"}}}`},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			var p Part
			require.NoError(t, json.Unmarshal([]byte(tc.js), &p))
			require.NotNil(t, p.FunctionResponse)
			assert.Equal(t, "ListUsers", p.FunctionResponse.Name)
		})
	}
}

func TestPart_UnmarshalCamelWinsOverSnake(t *testing.T) {
	js := `{"functionCall":{"name":"Camel"},"function_call":{"name":"Snake"}}`
	var p Part
	require.NoError(t, json.Unmarshal([]byte(js), &p))
	require.NotNil(t, p.FunctionCall)
	assert.Equal(t, "Camel", p.FunctionCall.Name)
}

func TestPart_MarshalCamelCaseOnly(t *testing.T) {
	p := Part{
		FunctionCall: &FunctionCall{
			Name: "GetTenantSettings",
		},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"functionCall":{"name":"GetTenantSettings"}}`, string(data))
	assert.NotContains(t, string(data), "function_call")

	p = Part{Text: "hello"}
	data, err = json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, string(data))
}

func TestPart_Roundtrip(t *testing.T) {
	orig := Part{
		FunctionResponse: &FunctionResponse{
			Name:     "ListSigningKeys",
			Response: map[string]any{"response": "[]"},
		},
	}
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got Part
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)
}
