package enrich

import "strings"

// LearningStep is one stop on a suggested reading order
type LearningStep struct {
	Step  int    `json:"step"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Curated reading orders for common documentation areas. learningPathOrder
// fixes lookup precedence so a topic matching several keys is stable.
var (
	learningPaths = map[string][]LearningStep{
		"getting-started": {
			{Step: 1, Title: "Overview", Path: "/overview"},
			{Step: 2, Title: "Installation", Path: "/installation"},
			{Step: 3, Title: "Configuration", Path: "/configuration"},
			{Step: 4, Title: "First Steps", Path: "/first-steps"},
			{Step: 5, Title: "Best Practices", Path: "/best-practices"},
		},
		"api": {
			{Step: 1, Title: "API Overview", Path: "/api/overview"},
			{Step: 2, Title: "Authentication", Path: "/api/authentication"},
			{Step: 3, Title: "Making Requests", Path: "/api/requests"},
			{Step: 4, Title: "Response Handling", Path: "/api/responses"},
			{Step: 5, Title: "Error Handling", Path: "/api/errors"},
		},
		"troubleshooting": {
			{Step: 1, Title: "Common Issues", Path: "/troubleshooting/common"},
			{Step: 2, Title: "Error Messages", Path: "/troubleshooting/errors"},
			{Step: 3, Title: "Debugging Steps", Path: "/troubleshooting/debugging"},
			{Step: 4, Title: "Getting Help", Path: "/support"},
		},
	}
	learningPathOrder = []string{"getting-started", "api", "troubleshooting"}

	defaultLearningPath = []LearningStep{
		{Step: 1, Title: "Start Here", Path: "/"},
		{Step: 2, Title: "Core Concepts", Path: "/concepts"},
		{Step: 3, Title: "Practical Guides", Path: "/guides"},
		{Step: 4, Title: "Reference", Path: "/reference"},
	}
)

// LearningPath suggests a reading order for the given topic
func LearningPath(topic string) []LearningStep {
	topicLower := strings.ToLower(topic)
	for _, key := range learningPathOrder {
		if strings.Contains(topicLower, key) {
			return learningPaths[key]
		}
	}
	return defaultLearningPath
}
