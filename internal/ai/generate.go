// internal/ai/generate.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/newsdesk/stardesk/internal/ai/jsonx"
)

// jsonInstruction is appended to every structured-generation prompt.
// Models still wrap replies in fences often enough that jsonx has to exist.
const jsonInstruction = "\n\nIMPORTANT: respond with a single valid JSON object only. " +
	"No explanations, no surrounding text, no markdown code fences."

// ToJSON is the shared GenerateJSON implementation: append the JSON-only
// instruction, force a low temperature, generate, then recover the object
// from the reply. Extraction failures are wrapped with the provider name and
// prompt length so logs can tell which upstream misbehaved.
func ToJSON(ctx context.Context, p Provider, prompt string, opts GenerateOptions) (json.RawMessage, error) {
	opts.Temperature = JSONTemperature

	text, err := p.GenerateText(ctx, prompt+jsonInstruction, opts)
	if err != nil {
		return nil, err
	}

	data, err := jsonx.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("%s: recovering JSON for %d byte prompt: %w", p.Name(), len(prompt), err)
	}
	return data, nil
}
