package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
)

// workTagFile is the TOML layout of a work-mode tag configuration file:
//
//	[[tags]]
//	tag = "home"
//	label = "🏠 Home"
type workTagFile struct {
	Tags []workTagEntry `toml:"tags"`
}

type workTagEntry struct {
	Tag   string `toml:"tag"`
	Label string `toml:"label"`
}

// LoadWorkTags reads the work-mode tag options from a TOML file. An empty
// path yields the built-in defaults.
func LoadWorkTags(path string) ([]model.WorkTagOption, error) {
	if path == "" {
		return model.DefaultWorkTagOptions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read work-tag config", goerr.V("path", path))
	}

	var file workTagFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse work-tag config", goerr.V("path", path))
	}

	if len(file.Tags) == 0 {
		return nil, goerr.New("work-tag config has no tags", goerr.V("path", path))
	}

	seen := make(map[string]struct{}, len(file.Tags))
	options := make([]model.WorkTagOption, 0, len(file.Tags))
	for _, entry := range file.Tags {
		if entry.Tag == "" || entry.Label == "" {
			return nil, goerr.New("work-tag entry requires both tag and label",
				goerr.V("tag", entry.Tag), goerr.V("label", entry.Label))
		}
		if _, ok := seen[entry.Tag]; ok {
			return nil, goerr.New("duplicate work-tag", goerr.V("tag", entry.Tag))
		}
		seen[entry.Tag] = struct{}{}

		options = append(options, model.WorkTagOption{
			Tag:   types.WorkTag(entry.Tag),
			Label: entry.Label,
		})
	}

	logging.Default().Info("Loaded work-mode tags", "path", path, "count", len(options))
	return options, nil
}
