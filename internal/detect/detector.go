package detect

import "context"

// Result is the outcome of a language detection call.
type Result struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
	IsReliable bool    `json:"is_reliable"`
}

// Detector identifies the language of a piece of text. Implementations never
// return an error: backend failures degrade to a low-confidence default so
// the routing pipeline can proceed.
type Detector interface {
	Detect(ctx context.Context, text string) Result
}

// fallbackResult is returned whenever detection cannot be performed.
func fallbackResult() Result {
	return Result{Language: "en", Confidence: 0.5, IsReliable: false}
}
