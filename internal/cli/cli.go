// Package cli provides a direct command-line interface to the Heretto
// tools, bypassing the MCP server entirely. Tools run in-process through
// the registry, so a query can be tested against the live upstream API
// without a protocol round-trip.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/heretto-labs/heretto-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// OutputFormat controls how tool results are rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Runner executes CLI commands against the tool registry.
type Runner struct {
	logger *logrus.Logger
	cache  *sync.Map
	output OutputFormat
}

// NewRunner creates a Runner that uses the given logger, cache, and output format.
func NewRunner(logger *logrus.Logger, cache *sync.Map, output OutputFormat) *Runner {
	return &Runner{logger: logger, cache: cache, output: output}
}

// heading renders section titles in the text output
var heading = color.New(color.FgCyan, color.Bold).SprintFunc()

// ListTools prints all enabled tools grouped by category.
func (r *Runner) ListTools() error {
	enabled := registry.GetEnabledTools()

	type entry struct {
		name     string
		desc     string
		category string
	}
	entries := make([]entry, 0, len(enabled))
	for _, t := range enabled {
		def := t.Definition()
		entries = append(entries, entry{
			name:     def.Name,
			desc:     firstLine(def.Description),
			category: toolCategory(def.Name),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].category != entries[j].category {
			return entries[i].category < entries[j].category
		}
		return entries[i].name < entries[j].name
	})

	if r.output == OutputJSON {
		type jsonEntry struct {
			Name        string `json:"name"`
			Category    string `json:"category"`
			Description string `json:"description"`
		}
		out := make([]jsonEntry, len(entries))
		for i, e := range entries {
			out[i] = jsonEntry{Name: e.name, Category: e.category, Description: e.desc}
		}
		return writeJSON(os.Stdout, out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	lastCategory := ""
	for _, e := range entries {
		if e.category != lastCategory {
			if lastCategory != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", heading(e.category))
			lastCategory = e.category
		}
		fmt.Fprintf(w, "  %s\t%s\n", e.name, e.desc)
	}
	return w.Flush()
}

// toolCategory buckets a tool name for the grouped listing
func toolCategory(name string) string {
	switch {
	case strings.Contains(name, "portal"):
		return "Portal"
	case name == "get_tool_help":
		return "Utilities"
	default:
		return "Deployment"
	}
}

// HelpTool prints the schema and usage information for a single tool.
func (r *Runner) HelpTool(name string) error {
	resolved, found := resolveTool(name)
	if !found {
		return fmt.Errorf("unknown tool: %s", name)
	}
	tool, ok := registry.GetTool(resolved)
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}

	def := tool.Definition()

	if r.output == OutputJSON {
		return writeJSON(os.Stdout, def)
	}

	fmt.Fprintf(os.Stdout, "%s %s\n\n", heading("Tool:"), def.Name)
	if def.Description != "" {
		fmt.Fprintf(os.Stdout, "%s\n\n", def.Description)
	}

	props := def.InputSchema.Properties
	required := toSet(def.InputSchema.Required)

	if len(props) == 0 {
		fmt.Fprintln(os.Stdout, "No parameters.")
	} else {
		fmt.Fprintln(os.Stdout, heading("Parameters:"))

		names := make([]string, 0, len(props))
		for k := range props {
			names = append(names, k)
		}
		slices.Sort(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, pName := range names {
			pMap, ok := props[pName].(map[string]any)
			if !ok {
				continue
			}

			pType, _ := pMap["type"].(string)
			pDesc, _ := pMap["description"].(string)

			reqMark := ""
			if required[pName] {
				reqMark = " (required)"
			}

			fmt.Fprintf(w, "  --%s\t%s\t%s%s%s\n", toFlagName(pName), pType, firstLine(pDesc), reqMark, formatEnum(pMap))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if provider, ok := tool.(tools.ExtendedHelpProvider); ok {
		if help := provider.ProvideExtendedInfo(); help != nil {
			printExtendedHelp(help)
		}
	}
	return nil
}

// printExtendedHelp renders a tool's extended help for the terminal
func printExtendedHelp(help *tools.ExtendedHelp) {
	if help.WhenToUse != "" {
		fmt.Fprintf(os.Stdout, "\n%s\n  %s\n", heading("When to use:"), help.WhenToUse)
	}
	if len(help.Examples) > 0 {
		fmt.Fprintf(os.Stdout, "\n%s\n", heading("Examples:"))
		for _, example := range help.Examples {
			argsJSON, err := json.Marshal(example.Arguments)
			if err != nil {
				continue
			}
			fmt.Fprintf(os.Stdout, "  %s\n    %s\n", example.Description, string(argsJSON))
		}
	}
	if len(help.CommonPatterns) > 0 {
		fmt.Fprintf(os.Stdout, "\n%s\n", heading("Common patterns:"))
		for _, pattern := range help.CommonPatterns {
			fmt.Fprintf(os.Stdout, "  - %s\n", pattern)
		}
	}
	if len(help.Troubleshooting) > 0 {
		fmt.Fprintf(os.Stdout, "\n%s\n", heading("Troubleshooting:"))
		for _, tip := range help.Troubleshooting {
			fmt.Fprintf(os.Stdout, "  %s\n    %s\n", tip.Problem, tip.Solution)
		}
	}
}

// RunTool executes a tool by name with the given arguments.
// args can be:
//   - A single JSON string: '{"key": "value"}'
//   - Flag-style arguments: --key=value --flag
//   - Mixed: --key=value '{"other": "json"}'  (flags take precedence)
func (r *Runner) RunTool(ctx context.Context, name string, args []string) error {
	resolved, found := resolveTool(name)
	if !found {
		return fmt.Errorf("unknown tool: %s (run 'heretto-mcp tools' to see available tools)", name)
	}
	tool, ok := registry.GetTool(resolved)
	if !ok {
		return fmt.Errorf("unknown tool: %s (run 'heretto-mcp tools' to see available tools)", name)
	}

	def := tool.Definition()

	params, err := parseArgs(args, def)
	if err != nil {
		return fmt.Errorf("argument error: %w", err)
	}

	result, err := tool.Execute(ctx, r.logger, r.cache, params)
	if err != nil {
		return fmt.Errorf("tool error: %w", err)
	}

	return r.renderResult(result)
}

// parseArgs converts CLI arguments into the map a tool's Execute expects.
// Supports JSON input, --key=value flags, and --flag (boolean true).
func parseArgs(args []string, def mcp.Tool) (map[string]interface{}, error) {
	params := make(map[string]interface{})

	schema := buildSchemaInfo(def)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// JSON object argument
		if strings.HasPrefix(arg, "{") {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(arg), &obj); err != nil {
				return nil, fmt.Errorf("invalid JSON argument: %w", err)
			}
			// JSON values merge in (earlier flags take precedence)
			for k, v := range obj {
				if _, exists := params[k]; !exists {
					params[k] = v
				}
			}
			continue
		}

		// Flag-style argument
		if strings.HasPrefix(arg, "--") {
			key, val, err := parseFlag(arg, args, &i, schema)
			if err != nil {
				return nil, err
			}
			params[key] = val
			continue
		}

		return nil, fmt.Errorf("unexpected argument: %s (use --key=value flags or pass a JSON object)", arg)
	}

	return params, nil
}

// schemaInfo holds resolved schema information for argument parsing.
type schemaInfo struct {
	// typeMap maps actual parameter names to their JSON Schema types
	typeMap map[string]string
	// flagToParam maps kebab-case flag names to actual parameter names
	flagToParam map[string]string
}

// parseFlag parses a single --key=value or --key value or --flag (bool true).
func parseFlag(arg string, args []string, idx *int, schema schemaInfo) (string, interface{}, error) {
	stripped := strings.TrimPrefix(arg, "--")

	// --key=value
	if flagName, rawVal, found := strings.Cut(stripped, "="); found {
		paramName := schema.resolveParam(flagName)
		return paramName, coerceValue(rawVal, schema.typeMap[paramName]), nil
	}

	// --flag (boolean shorthand) or --key value
	flagName := stripped
	paramName := schema.resolveParam(flagName)

	// If the schema says this is a boolean, treat bare --flag as true
	if schema.typeMap[paramName] == "boolean" {
		return paramName, true, nil
	}

	// Otherwise consume the next arg as the value
	*idx++
	if *idx >= len(args) {
		return "", nil, fmt.Errorf("flag --%s requires a value", flagName)
	}
	return paramName, coerceValue(args[*idx], schema.typeMap[paramName]), nil
}

// resolveParam converts a kebab-case flag name to the actual parameter name
// by checking against known schema property names. Falls back to snake_case.
func (s schemaInfo) resolveParam(flagName string) string {
	if actual, ok := s.flagToParam[flagName]; ok {
		return actual
	}
	return strings.ReplaceAll(flagName, "-", "_")
}

// buildSchemaInfo extracts parameter types and builds a flag-to-param name
// mapping from the tool definition.
func buildSchemaInfo(def mcp.Tool) schemaInfo {
	info := schemaInfo{
		typeMap:     make(map[string]string, len(def.InputSchema.Properties)),
		flagToParam: make(map[string]string, len(def.InputSchema.Properties)),
	}
	for name, prop := range def.InputSchema.Properties {
		if pm, ok := prop.(map[string]any); ok {
			if t, ok := pm["type"].(string); ok {
				info.typeMap[name] = t
			}
		}
		info.flagToParam[toFlagName(name)] = name
	}
	return info
}

// coerceValue converts a string value to the type a tool handler expects.
// Handlers see JSON-decoded arguments, so numbers become float64.
func coerceValue(raw, schemaType string) interface{} {
	switch schemaType {
	case "number", "integer":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	case "boolean":
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
		return raw
	case "array":
		// Try JSON array
		var arr []interface{}
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return arr
		}
		// Comma-separated fallback
		parts := strings.Split(raw, ",")
		arr = make([]interface{}, len(parts))
		for i, p := range parts {
			arr[i] = p
		}
		return arr
	case "object":
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			return obj
		}
		return raw
	default:
		return raw
	}
}

// renderResult formats a CallToolResult for terminal output.
func (r *Runner) renderResult(result *mcp.CallToolResult) error {
	if result == nil {
		return nil
	}

	if r.output == OutputJSON {
		return writeJSON(os.Stdout, result)
	}

	// Text mode: extract text content
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			fmt.Fprintln(os.Stdout, c.Text)
		default:
			// Non-text content: render as JSON
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stdout, "%+v\n", c)
			} else {
				fmt.Fprintln(os.Stdout, string(data))
			}
		}
	}

	if result.IsError {
		return fmt.Errorf("tool returned an error")
	}
	return nil
}

// resolveTool looks up a tool by name, trying the name as-is first, then
// with hyphens converted to underscores (CLI users naturally type
// kebab-case but the tools register snake_case names).
func resolveTool(name string) (string, bool) {
	if _, ok := registry.GetTool(name); ok {
		return name, true
	}
	snakeName := strings.ReplaceAll(name, "-", "_")
	if snakeName != name {
		if _, ok := registry.GetTool(snakeName); ok {
			return snakeName, true
		}
	}
	return name, false
}

// --- helpers ---

func writeJSON(w *os.File, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstLine(s string) string {
	if before, _, found := strings.Cut(s, "\n"); found {
		return before
	}
	return s
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// toFlagName converts camelCase or snake_case to kebab-case for CLI flags.
func toFlagName(s string) string {
	s = strings.ReplaceAll(s, "_", "-")
	var out strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out.WriteByte('-')
			}
			out.WriteRune(r + 32) // toLower
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func formatEnum(pMap map[string]any) string {
	// In-memory definitions hold []string while JSON round-trips yield []any
	var vals []string
	switch arr := pMap["enum"].(type) {
	case []string:
		vals = arr
	case []any:
		vals = make([]string, len(arr))
		for i, v := range arr {
			vals[i] = fmt.Sprint(v)
		}
	}
	if len(vals) == 0 {
		return ""
	}
	return " [" + strings.Join(vals, "|") + "]"
}
