package domain

// Definition is the raw record handed over by a loader, before validation.
type Definition struct {
	// Name is an optional label used by catalogs, logs and metrics.
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`

	// NumStates is the number of states. State ids are 0..NumStates-1 and 0 is initial.
	NumStates int `json:"states" yaml:"states" mapstructure:"states"`

	// Accepting lists the accepting state ids.
	Accepting []int `json:"accepting" yaml:"accepting" mapstructure:"accepting"`

	// Alphabet is the ordered list of input symbols.
	Alphabet []Symbol `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`

	// Transitions holds one row per state; row[k] is the target when reading Alphabet[k].
	Transitions [][]int `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}
