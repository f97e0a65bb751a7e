// Package prompt builds the prompt text sent to AI providers. Keeping the
// wording here, out of the wire clients, means every backend asks the model
// the same thing.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

const explainTemplate = "You are an expert programmer. Please explain the following {{.Language}} code in a clear and concise way:\n\n```{{.Language}}\n{{.Code}}\n```"

const assistantFraming = "You are an AI programming assistant. You're helping the user with their code project."

var explainTmpl = template.Must(
	template.New("explain").Option("missingkey=error").Parse(explainTemplate),
)

// Explain renders the one-shot instructional prompt asking the model to
// explain code in the given language.
func Explain(code, language string) (string, error) {
	var buf bytes.Buffer
	err := explainTmpl.Execute(&buf, map[string]interface{}{
		"Code":     code,
		"Language": language,
	})
	if err != nil {
		return "", fmt.Errorf("rendering explain prompt: %w", err)
	}
	return buf.String(), nil
}

// System returns the system framing for a conversation. When projectContext
// is non-empty it is appended so the model knows what the user is working on.
func System(projectContext string) string {
	if projectContext == "" {
		return assistantFraming
	}
	return assistantFraming + " Project context: " + projectContext
}
