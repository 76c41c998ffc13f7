package classifier

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
)

func TestComposeOmitsAbsentBlocks(t *testing.T) {
	prompt := newPromptComposer().compose("something fruity", nil, nil, nil)

	for _, absent := range []string{"<reference_product>", "<catalog_neighborhood>", "<conversation>"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt should not contain %s without its inputs", absent)
		}
	}
	for _, present := range []string{"<system_role>", "<query_types>", "<taxonomy>", "<user_query>", "<output_structure>"} {
		if !strings.Contains(prompt, present) {
			t.Errorf("prompt is missing %s", present)
		}
	}
	if !strings.Contains(prompt, "something fruity") {
		t.Error("prompt is missing the user query")
	}
}

func TestComposeIncludesReferenceAndStats(t *testing.T) {
	ref := &model.Product{
		Id:         uuid.New(),
		Name:       "Kiambu AA",
		Brand:      "Square Mile",
		Origins:    datatypes.NewJSONSlice([]string{"Kenya"}),
		RoastLevel: "Light",
		TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
			{Note: "blackcurrant", Category: "fruity"},
		}),
	}
	stats := &graph.Stats{
		SameOriginCount: 4,
		Origins:         []string{"Kenya", "Ethiopia"},
	}

	prompt := newPromptComposer().compose("more like this", ref, stats, nil)

	for _, want := range []string{"<reference_product>", "Kiambu AA", "blackcurrant", "<catalog_neighborhood>", "same origin: 4"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestComposeListsEveryQueryType(t *testing.T) {
	prompt := newPromptComposer().compose("query", nil, nil, nil)
	for _, qt := range []string{"SIMILAR_FLAVOR", "MORE_OF_AXIS", "SAME_ORIGIN_DIFF_ROAST", "COMPOSITE", "BY_BRAND"} {
		if !strings.Contains(prompt, qt) {
			t.Errorf("prompt is missing query type %s", qt)
		}
	}
}

func TestComposeWindowsAndTruncatesHistory(t *testing.T) {
	long := strings.Repeat("x", 300)
	history := []llm.Message{
		{Role: "user", Content: "turn-1"},
		{Role: "assistant", Content: "turn-2"},
		{Role: "user", Content: "turn-3"},
		{Role: "assistant", Content: "turn-4"},
		{Role: "user", Content: "turn-5"},
		{Role: "assistant", Content: "turn-6"},
		{Role: "user", Content: long},
	}

	prompt := newPromptComposer().compose("query", nil, nil, history)

	if strings.Contains(prompt, "turn-1") {
		t.Error("oldest turn should fall outside the 6-message window")
	}
	if !strings.Contains(prompt, "turn-3") {
		t.Error("recent turns should be present")
	}
	if strings.Contains(prompt, long) {
		t.Error("long contents should be truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 200)+"...") {
		t.Error("truncation marker missing")
	}
}
