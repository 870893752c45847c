package ruleset

// yamlPattern is the on-disk form of a single pattern entry.
type yamlPattern struct {
	ID      int      `yaml:"id"`
	Pattern string   `yaml:"pattern"`
	Flags   []string `yaml:"flags,omitempty"`
}

// yamlPatternsFile is the top-level structure of a patterns YAML file.
type yamlPatternsFile struct {
	Patterns []yamlPattern `yaml:"patterns"`
}
