package script

// yamlScript is the intermediate struct for parsing script definitions.
// Pointer fields distinguish "not set" from an explicit empty value so that
// kind defaults can be applied.
type yamlScript struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Kind        string       `yaml:"kind"`
	Enabled     *bool        `yaml:"enabled,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Settings    yamlSettings `yaml:"settings,omitempty"`
}

type yamlSettings struct {
	Location       *string `yaml:"location,omitempty"`
	LayerNums      *string `yaml:"layer_nums,omitempty"`
	HeightNums     *string `yaml:"height_nums,omitempty"`
	InsertLocation *string `yaml:"insert_location,omitempty"`
	LayerNumber    *string `yaml:"layer_number,omitempty"`
	CommentOut     *bool   `yaml:"comment_out,omitempty"`
	Macro          *string `yaml:"macro,omitempty"`
}

// yamlScriptsFile represents the top-level structure of a script or pipeline file.
type yamlScriptsFile struct {
	Scripts []yamlScript `yaml:"scripts"`
}
