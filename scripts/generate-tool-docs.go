// Package main generates Markdown reference documentation from the
// registered MCP tool definitions.
//
// Usage: go run scripts/generate-tool-docs.go [-output docs/tools.md]
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/heretto-labs/heretto-mcp/internal/tools"
	"github.com/sirupsen/logrus"

	// Import all tool packages to register them
	_ "github.com/heretto-labs/heretto-mcp/internal/imports"
)

func main() {
	output := flag.String("output", "", "write to this file instead of stdout")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	config.Init(logger)
	registry.Init(logger)

	var b strings.Builder
	b.WriteString("# Tool Reference\n\n")
	b.WriteString("Generated from the registered tool definitions.\n")
	b.WriteString("Regenerate with `go run scripts/generate-tool-docs.go` rather than editing by hand.\n\n")

	for _, name := range registry.GetEnabledToolNames() {
		tool, ok := registry.GetTool(name)
		if !ok {
			continue
		}
		writeTool(&b, tool)
	}

	if *output == "" {
		fmt.Print(b.String())
		return
	}
	if err := os.WriteFile(*output, []byte(b.String()), 0644); err != nil {
		logger.WithError(err).Fatal("Failed to write output file")
	}
	logger.Infof("Wrote %s", *output)
}

func writeTool(b *strings.Builder, tool tools.Tool) {
	def := tool.Definition()

	fmt.Fprintf(b, "## %s\n\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(b, "%s\n\n", def.Description)
	}

	props := def.InputSchema.Properties
	if len(props) == 0 {
		b.WriteString("No parameters.\n\n")
	} else {
		required := make(map[string]bool, len(def.InputSchema.Required))
		for _, name := range def.InputSchema.Required {
			required[name] = true
		}

		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("| Parameter | Type | Required | Description |\n")
		b.WriteString("|-----------|------|----------|-------------|\n")
		for _, name := range names {
			prop, ok := props[name].(map[string]any)
			if !ok {
				continue
			}
			pType, _ := prop["type"].(string)
			pDesc, _ := prop["description"].(string)
			req := "no"
			if required[name] {
				req = "yes"
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", name, pType, req, tableCell(pDesc))
		}
		b.WriteString("\n")
	}

	provider, ok := tool.(tools.ExtendedHelpProvider)
	if !ok {
		return
	}
	help := provider.ProvideExtendedInfo()
	if help == nil {
		return
	}

	if help.WhenToUse != "" {
		fmt.Fprintf(b, "**When to use:** %s\n\n", help.WhenToUse)
	}
	for _, example := range help.Examples {
		fmt.Fprintf(b, "- %s\n", example.Description)
	}
	if len(help.Examples) > 0 {
		b.WriteString("\n")
	}
}

// tableCell flattens a description to a single line safe inside a
// Markdown table.
func tableCell(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
