package model

import "github.com/kintai-dev/workstamper/pkg/domain/types"

// WorkTagOption is one selectable work mode in the clock-in modal
type WorkTagOption struct {
	Tag   types.WorkTag
	Label string
}

// DefaultWorkTagOptions returns the built-in work modes used when no tag
// configuration file is provided
func DefaultWorkTagOptions() []WorkTagOption {
	return []WorkTagOption{
		{Tag: "home", Label: "🏠 Home"},
		{Tag: "office", Label: "🏢 Office"},
		{Tag: "field", Label: "💼 Client site"},
		{Tag: "travel", Label: "✈️ Business trip"},
	}
}
