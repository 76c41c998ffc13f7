package classifier

import (
	"fmt"
	"strings"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/retrieval"
)

// promptComposer structures the classification prompt. Blocks whose inputs
// are absent (no reference product, no stats, no history) are omitted
// entirely rather than rendered empty, keeping the prompt stable.
type promptComposer struct{}

func newPromptComposer() *promptComposer {
	return &promptComposer{}
}

func (c *promptComposer) compose(query string, ref *model.Product, stats *graph.Stats, history []llm.Message) string {
	var prompt strings.Builder

	c.writeRole(&prompt)
	c.writeQueryTypes(&prompt)
	c.writeTaxonomy(&prompt)
	c.writeReference(&prompt, ref)
	c.writeNeighborhood(&prompt, stats)
	c.writeHistory(&prompt, history)
	c.writeQuery(&prompt, query)
	c.writeOutputStructure(&prompt)

	return prompt.String()
}

func (c *promptComposer) writeRole(prompt *strings.Builder) {
	prompt.WriteString("<system_role>\n")
	prompt.WriteString("You are an intent classifier for a specialty coffee recommendation assistant.\n")
	prompt.WriteString("Your job is to map the user's request onto exactly one retrieval query type\n")
	prompt.WriteString("plus its filters. You never recommend products yourself.\n")
	prompt.WriteString("</system_role>\n\n")
}

func (c *promptComposer) writeQueryTypes(prompt *strings.Builder) {
	prompt.WriteString("<query_types>\n")
	prompt.WriteString("Choose ONE queryType from this closed list:\n")

	descriptions := map[retrieval.QueryType]string{
		retrieval.QueryByName:          "user asks about a specific product by name",
		retrieval.QueryByBrand:         "user asks for products from a specific roaster or brand",
		retrieval.QuerySimilarFlavor:   "user wants something tasting like the reference product",
		retrieval.QuerySameOrigin:      "user wants products from the same (or a named) origin",
		retrieval.QuerySameRoast:       "user wants products with the same (or a named) roast level",
		retrieval.QuerySameProcess:     "user wants products with the same (or a named) processing method",
		retrieval.QueryMoreCategory:    "user wants MORE of a flavor category than the reference has",
		retrieval.QueryLessCategory:    "user wants LESS of a flavor category than the reference has",
		retrieval.QueryMoreAxis:        "user wants MORE of a character axis (acidity, body, roast, complexity)",
		retrieval.QueryLessAxis:        "user wants LESS of a character axis",
		retrieval.QuerySimilarProfile:  "user wants an overall similar cup profile to the reference",
		retrieval.QueryComposite:       "user combines several hard filters (origin and roast and process...)",
		retrieval.QueryOriginCategory:  "user wants the reference's origin combined with a flavor category",
		retrieval.QueryOriginDiffRoast: "user wants the reference's origin but a different roast level",
	}
	for _, qt := range retrieval.AllQueryTypes {
		prompt.WriteString(fmt.Sprintf("  %s: %s\n", qt, descriptions[qt]))
	}
	prompt.WriteString("</query_types>\n\n")
}

func (c *promptComposer) writeTaxonomy(prompt *strings.Builder) {
	prompt.WriteString("<taxonomy>\n")
	prompt.WriteString("flavorCategory must be one of: ")
	prompt.WriteString(strings.Join(graph.FlavorCategories, ", "))
	prompt.WriteString("\n")
	prompt.WriteString("characterAxis must be one of: ")
	prompt.WriteString(strings.Join(graph.CharacterAxes, ", "))
	prompt.WriteString("\n")
	prompt.WriteString("</taxonomy>\n\n")
}

func (c *promptComposer) writeReference(prompt *strings.Builder, ref *model.Product) {
	if ref == nil {
		return
	}
	prompt.WriteString("<reference_product>\n")
	prompt.WriteString(fmt.Sprintf("Name: %s\n", ref.Name))
	prompt.WriteString(fmt.Sprintf("Brand: %s\n", ref.Brand))
	if len(ref.Origins) > 0 {
		prompt.WriteString(fmt.Sprintf("Origins: %s\n", strings.Join(ref.Origins, ", ")))
	}
	if ref.RoastLevel != "" {
		prompt.WriteString(fmt.Sprintf("Roast level: %s\n", ref.RoastLevel))
	}
	if len(ref.Processes) > 0 {
		prompt.WriteString(fmt.Sprintf("Processes: %s\n", strings.Join(ref.Processes, ", ")))
	}
	if notes := ref.NoteNames(); len(notes) > 0 {
		prompt.WriteString(fmt.Sprintf("Tasting notes: %s\n", strings.Join(notes, ", ")))
	}
	prompt.WriteString("</reference_product>\n\n")
}

func (c *promptComposer) writeNeighborhood(prompt *strings.Builder, stats *graph.Stats) {
	if stats == nil {
		return
	}
	prompt.WriteString("<catalog_neighborhood>\n")
	prompt.WriteString("How many catalog products relate to the reference:\n")
	prompt.WriteString(fmt.Sprintf("  same origin: %d\n", stats.SameOriginCount))
	prompt.WriteString(fmt.Sprintf("  same roast level: %d\n", stats.SameRoastCount))
	prompt.WriteString(fmt.Sprintf("  same process: %d\n", stats.SameProcessCount))
	prompt.WriteString(fmt.Sprintf("  overlapping tasting notes: %d\n", stats.SimilarFlavorCount))
	if len(stats.Origins) > 0 {
		prompt.WriteString(fmt.Sprintf("Known origins: %s\n", strings.Join(stats.Origins, ", ")))
	}
	if len(stats.Processes) > 0 {
		prompt.WriteString(fmt.Sprintf("Known processes: %s\n", strings.Join(stats.Processes, ", ")))
	}
	prompt.WriteString("</catalog_neighborhood>\n\n")
}

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

func (c *promptComposer) writeQuery(prompt *strings.Builder, query string) {
	prompt.WriteString("<user_query>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_query>\n\n")
}

func (c *promptComposer) writeOutputStructure(prompt *strings.Builder) {
	prompt.WriteString("<output_structure>\n")
	prompt.WriteString("Respond with ONLY a JSON object, no prose before or after:\n")
	prompt.WriteString(`{
  "queryType": "SIMILAR_FLAVOR",
  "filters": {
    "origin": "", "process": "", "roastLevel": "",
    "flavorCategory": "", "characterAxis": "",
    "productName": "", "brandName": "",
    "minPrice": null, "maxPrice": null
  },
  "response": "one short conversational sentence to show the user",
  "suggestedActions": [
    {"label": "More fruity", "intent": "more fruity notes", "icon": "sparkles"}
  ]
}`)
	prompt.WriteString("\n")
	prompt.WriteString("Leave filters you did not infer as empty strings or null.\n")
	prompt.WriteString("Only fill characterAxis for MORE_OF_AXIS / LESS_OF_AXIS, and\n")
	prompt.WriteString("flavorCategory for the category query types.\n")
	prompt.WriteString("</output_structure>\n")
}
