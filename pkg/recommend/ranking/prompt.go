package ranking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
)

// ErrMalformedRanking means the reasoning service answered with content
// that cannot be resolved against the candidate list.
var ErrMalformedRanking = errors.New("ranking returned an unusable response")

type promptComposer struct{}

func newPromptComposer() *promptComposer {
	return &promptComposer{}
}

// compose structures the ranking prompt. The reference and conversation
// blocks are omitted entirely when absent, keeping the prompt stable.
func (c *promptComposer) compose(query string, ref *model.Product, history []llm.Message, candidates []model.Product) string {
	var prompt strings.Builder

	prompt.WriteString("<system_role>\n")
	prompt.WriteString("You are a specialty coffee curator. You order the candidate products\n")
	prompt.WriteString("below by how well they answer the user's request, and explain each pick\n")
	prompt.WriteString("in one short sentence a customer would enjoy reading.\n")
	prompt.WriteString("</system_role>\n\n")

	c.writeReference(&prompt, ref)
	c.writeHistory(&prompt, history)

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<candidates>\n")
	for _, p := range candidates {
		c.writeCandidate(&prompt, p)
	}
	prompt.WriteString("</candidates>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString("Use ONLY ids from the candidate list. Never invent ids or products.\n")
	prompt.WriteString("Order from best to worst fit. You may leave weak candidates out.\n")
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("<output_structure>\n")
	prompt.WriteString("Respond with ONLY a JSON object:\n")
	prompt.WriteString(`{"products": [{"id": "<candidate id>", "reason": "<one sentence>"}]}`)
	prompt.WriteString("\n</output_structure>\n")
	return prompt.String()
}

// writeReference describes the product the user is comparing against, so
// explanations can relate picks back to it.
func (c *promptComposer) writeReference(prompt *strings.Builder, ref *model.Product) {
	if ref == nil {
		return
	}
	prompt.WriteString("<reference_product>\n")
	prompt.WriteString("The user is comparing against this product:\n")
	prompt.WriteString(fmt.Sprintf("Name: %s\n", ref.Name))
	prompt.WriteString(fmt.Sprintf("Brand: %s\n", ref.Brand))
	if len(ref.Origins) > 0 {
		prompt.WriteString(fmt.Sprintf("Origins: %s\n", strings.Join(ref.Origins, ", ")))
	}
	if ref.RoastLevel != "" {
		prompt.WriteString(fmt.Sprintf("Roast level: %s\n", ref.RoastLevel))
	}
	if notes := ref.NoteNames(); len(notes) > 0 {
		prompt.WriteString(fmt.Sprintf("Tasting notes: %s\n", strings.Join(notes, ", ")))
	}
	prompt.WriteString("</reference_product>\n\n")
}

// writeHistory replays the recent conversation window, same shape as the
// classification prompt.
func (c *promptComposer) writeHistory(prompt *strings.Builder, history []llm.Message) {
	if len(history) == 0 {
		return
	}
	windowSize := 6
	if len(history) < windowSize {
		windowSize = len(history)
	}
	prompt.WriteString("<conversation>\n")
	for _, msg := range history[len(history)-windowSize:] {
		speaker := "User"
		if msg.Role == "assistant" || msg.Role == "model" {
			speaker = "Assistant"
		}
		content := msg.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		prompt.WriteString(fmt.Sprintf("%s: %s\n", speaker, content))
	}
	prompt.WriteString("</conversation>\n\n")
}

// writeCandidate enumerates one product with a fixed field order so the
// prompt stays byte-stable for identical candidate lists.
func (c *promptComposer) writeCandidate(prompt *strings.Builder, p model.Product) {
	prompt.WriteString(fmt.Sprintf("id: %s\n", p.Id))
	prompt.WriteString(fmt.Sprintf("  name: %s\n", p.Name))
	prompt.WriteString(fmt.Sprintf("  brand: %s\n", p.Brand))
	if len(p.Origins) > 0 {
		prompt.WriteString(fmt.Sprintf("  origin: %s\n", strings.Join(p.Origins, ", ")))
	}
	if p.RoastLevel != "" {
		prompt.WriteString(fmt.Sprintf("  roast: %s\n", p.RoastLevel))
	}
	if len(p.Processes) > 0 {
		prompt.WriteString(fmt.Sprintf("  process: %s\n", strings.Join(p.Processes, ", ")))
	}
	if p.Price > 0 {
		prompt.WriteString(fmt.Sprintf("  price: %.2f %s\n", p.Price, p.Currency))
	}
	if notes := p.NoteNames(); len(notes) > 0 {
		prompt.WriteString(fmt.Sprintf("  flavors: %s\n", strings.Join(notes, ", ")))
	}
}
