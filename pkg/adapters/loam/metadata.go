package loam

// DefinitionMetadata is the frontmatter of a catalog document.
// Numeric fields stay untyped because strict mode yields json.Number; they are
// normalized by the yaml adapter's decoder.
type DefinitionMetadata struct {
	Name            string `json:"name" mapstructure:"name"`
	States          any    `json:"states" mapstructure:"states"`
	NumStates       any    `json:"num_states" mapstructure:"num_states"`
	Accepting       any    `json:"accepting" mapstructure:"accepting"`
	AcceptingStates any    `json:"accepting_states" mapstructure:"accepting_states"`
	Alphabet        any    `json:"alphabet" mapstructure:"alphabet"`
	Transitions     any    `json:"transitions" mapstructure:"transitions"`
}

// empty reports whether the document carries no definition in its metadata.
func (m DefinitionMetadata) empty() bool {
	return m.States == nil && m.NumStates == nil && m.Alphabet == nil && m.Transitions == nil
}

func (m DefinitionMetadata) raw() map[string]any {
	raw := make(map[string]any)
	set := func(key string, v any) {
		if v != nil {
			raw[key] = v
		}
	}
	set("states", m.States)
	set("num_states", m.NumStates)
	set("accepting", m.Accepting)
	set("accepting_states", m.AcceptingStates)
	set("alphabet", m.Alphabet)
	set("transitions", m.Transitions)
	return raw
}
