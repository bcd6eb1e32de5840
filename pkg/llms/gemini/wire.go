package gemini

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Wire types for the generateContent endpoint. Only the subset used by this
// service is modeled.

type generateRequest struct {
	Contents          []*Content        `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []*Tool           `json:"tools,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Tool declares a set of functions the model may request.
type Tool struct {
	FunctionDeclarations []*FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// FunctionDeclaration describes one callable function to the model.
type FunctionDeclaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// GenerationConfig carries generation controls.
type GenerationConfig struct {
	CandidateCount  int32    `json:"candidateCount,omitempty"`
	MaxOutputTokens int32    `json:"maxOutputTokens,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty"`
}

// Content is a role with an ordered list of parts.
type Content struct {
	Role  string  `json:"role,omitempty"`
	Parts []*Part `json:"parts"`
}

// FunctionCall is the model's request to invoke a declared function.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries a function result back to the model.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Part is one element of a content message: text, a function call, or a
// function response.
//
// The service has been observed to emit the function-call member under both
// "functionCall" and "function_call" spellings; Unmarshal accepts either and
// normalizes. Marshal always emits the camelCase form.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

type wirePart struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Part) MarshalJSON() ([]byte, error) {
	return json.Marshal(wirePart{
		Text:             p.Text,
		FunctionCall:     p.FunctionCall,
		FunctionResponse: p.FunctionResponse,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Part) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text                  string            `json:"text"`
		FunctionCall          *FunctionCall     `json:"functionCall"`
		FunctionCallSnake     *FunctionCall     `json:"function_call"`
		FunctionResponse      *FunctionResponse `json:"functionResponse"`
		FunctionResponseSnake *FunctionResponse `json:"function_response"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Text = raw.Text
	p.FunctionCall = raw.FunctionCall
	if p.FunctionCall == nil {
		p.FunctionCall = raw.FunctionCallSnake
	}
	p.FunctionResponse = raw.FunctionResponse
	if p.FunctionResponse == nil {
		p.FunctionResponse = raw.FunctionResponseSnake
	}
	return nil
}

type generateResponse struct {
	Candidates []*Candidate  `json:"candidates"`
	Error      *errorMessage `json:"error,omitempty"`
}

// Candidate is one generated response alternative.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
