package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningPath(t *testing.T) {
	tests := []struct {
		name       string
		topic      string
		firstTitle string
		steps      int
	}{
		{name: "getting started", topic: "getting-started with the portal", firstTitle: "Overview", steps: 5},
		{name: "api", topic: "api authentication", firstTitle: "API Overview", steps: 5},
		{name: "troubleshooting", topic: "troubleshooting errors", firstTitle: "Common Issues", steps: 4},
		{name: "unknown topic gets the default path", topic: "colour management", firstTitle: "Start Here", steps: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := LearningPath(tt.topic)

			require.Len(t, path, tt.steps)
			assert.Equal(t, tt.firstTitle, path[0].Title)
			for i, step := range path {
				assert.Equal(t, i+1, step.Step)
			}
		})
	}
}

func TestLearningPathMatchIsCaseInsensitive(t *testing.T) {
	path := LearningPath("API Reference")

	require.NotEmpty(t, path)
	assert.Equal(t, "API Overview", path[0].Title)
}
