package monograph

import "github.com/satishskid/greylearn/internal/genai"

// sectionSchema supports one level of subsections. The subsection item schema
// is a copy of the scalar fields only: it deliberately omits "subsections" so
// the schema itself bounds nesting to two levels.
func sectionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"heading": {Type: genai.TypeString, Description: "Section title"},
			"content": {Type: genai.TypeString, Description: "Detailed explanatory text for this section. Should be comprehensive."},
			"key_concepts": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of key concepts or terms introduced in this section",
			},
			"subsections": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"heading":      {Type: genai.TypeString},
						"content":      {Type: genai.TypeString},
						"key_concepts": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
				},
			},
		},
		Required: []string{"heading", "content"},
	}
}

func monographSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":   {Type: genai.TypeString, Description: "The main title of the monograph"},
			"summary": {Type: genai.TypeString, Description: "A high-level executive summary of the topic"},
			"sections": {
				Type:  genai.TypeArray,
				Items: sectionSchema(),
			},
			"quiz": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":    {Type: genai.TypeString},
						"options":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"answer":      {Type: genai.TypeString, Description: "The correct answer option"},
						"explanation": {Type: genai.TypeString},
					},
				},
			},
		},
		Required: []string{"title", "summary", "sections", "quiz"},
	}
}
