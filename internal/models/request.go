package models

// Provider names the AI backend that produced a response envelope
type Provider string

const (
	// ProviderEdge is an HTTP edge function fronting a Gemini style model
	ProviderEdge   Provider = "edge"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

// RequestPayload is what the report requester sends to the AI service.
// Only SystemInstruction and Prompt travel on the wire.
type RequestPayload struct {
	SystemInstruction string `json:"systemInstruction"`
	Prompt            string `json:"prompt"`

	// Schema describes the expected response (JSON schema subset) for
	// providers that support constrained output
	Schema map[string]any `json:"-"`

	ExpectedCount int               `json:"-"`
	TimeframeDays int               `json:"-"`
	AsOf          Date              `json:"-"`
	Summaries     []AnalysisSummary `json:"-"`
}

// Envelope is the raw provider-shaped response body
type Envelope struct {
	Provider Provider
	Body     []byte
}
