package dto

type GeminiTextRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   *int     `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
}

type GeminiTextResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}
