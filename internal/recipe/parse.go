package recipe

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// Parse decodes a TOML recipe document and validates it.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Marshal renders r back to its TOML form, used by `new` to write a
// template.
func Marshal(r *Recipe) ([]byte, error) {
	data, err := toml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal recipe: %w", err)
	}
	return data, nil
}

// Template returns a skeleton recipe for `forge new`, with the name
// filled in and placeholder download, build, and install steps (no
// uninstall or update steps).
func Template(name string) *Recipe {
	return &Recipe{
		Name:    name,
		Version: "0.0.1",
		Steps: []Step{
			{Phase: PhaseDownload, Kind: StepGitClone, URL: "https://example.com/change-me.git"},
			{Phase: PhaseBuild, Kind: StepRun, Cmd: "./configure --prefix=/usr"},
			{Phase: PhaseBuild, Kind: StepMake},
			{Phase: PhaseInstall, Kind: StepMake, Targets: []string{"install"}},
		},
	}
}
