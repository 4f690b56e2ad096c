package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kintai-dev/workstamper/pkg/cli/config"
	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
)

func writeTagFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	return path
}

func TestLoadWorkTagsDefaults(t *testing.T) {
	options, err := config.LoadWorkTags("")
	gt.NoError(t, err).Required()
	gt.Array(t, options).Equal(model.DefaultWorkTagOptions())
}

func TestLoadWorkTagsFromFile(t *testing.T) {
	path := writeTagFile(t, `
[[tags]]
tag = "home"
label = "🏠 Remote"

[[tags]]
tag = "onsite"
label = "🏢 On site"
`)

	options, err := config.LoadWorkTags(path)
	gt.NoError(t, err).Required()
	gt.Array(t, options).Length(2).Required()
	gt.Value(t, options[0].Tag).Equal(types.WorkTag("home"))
	gt.Value(t, options[0].Label).Equal("🏠 Remote")
	gt.Value(t, options[1].Tag).Equal(types.WorkTag("onsite"))
}

func TestLoadWorkTagsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "not toml", content: "{]"},
		{name: "missing label", content: "[[tags]]\ntag = \"home\"\n"},
		{name: "missing tag", content: "[[tags]]\nlabel = \"Home\"\n"},
		{name: "duplicate tag", content: "[[tags]]\ntag = \"home\"\nlabel = \"A\"\n\n[[tags]]\ntag = \"home\"\nlabel = \"B\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadWorkTags(writeTagFile(t, tt.content))
			gt.Error(t, err)
		})
	}
}

func TestLoadWorkTagsMissingFile(t *testing.T) {
	_, err := config.LoadWorkTags(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err)
}
