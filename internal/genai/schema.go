package genai

// Schema is the declarative structured-output contract sent with a request.
// Descriptions are generation hints only; nothing is validated against them.
type Type string

const (
	TypeObject Type = "OBJECT"
	TypeArray  Type = "ARRAY"
	TypeString Type = "STRING"
)

type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}
