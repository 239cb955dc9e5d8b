package cli

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
	ParamTypeEnum  ParamType = "enum"
	ParamTypeRatio ParamType = "ratio"
	ParamTypePath  ParamType = "path"
)

// ValidationRule is the constraint set for one parameter, used to label
// prompts and to check input before a command is built.
type ValidationRule struct {
	Type        ParamType
	Required    bool
	Min         *float64
	Max         *float64
	EnumOptions []string
	Example     string
	Hint        string
}

// GenerateTooltip produces a tooltip string from a stdimg.CommandSpec.
func GenerateTooltip(c stdimg.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString(" Parameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if len(a.Options) > 0 {
			sb.WriteString(" [" + strings.Join(a.Options, "|") + "]")
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a stdimg.CommandSpec.
func GenerateValidationRules(c stdimg.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "float":
			t = ParamTypeFloat
		case "enum":
			t = ParamTypeEnum
		case "ratio":
			t = ParamTypeRatio
		default:
			t = ParamTypePath
		}
		rules[a.Name] = ValidationRule{
			Type:        t,
			Required:    a.Required,
			Min:         a.Min,
			Max:         a.Max,
			EnumOptions: a.Options,
			Example:     a.Default,
			Hint:        a.Description,
		}
	}
	return rules
}

// MetaStore indexes the command registry by name.
type MetaStore struct {
	Commands []stdimg.CommandSpec
	byName   map[string]stdimg.CommandSpec
}

// NewMetaStore creates a MetaStore from a command list.
func NewMetaStore(cmds []stdimg.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]stdimg.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// Get returns the command registered under name.
func (m *MetaStore) Get(name string) (stdimg.CommandSpec, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// Resolve maps user input to a command name: a 1-based menu number, an exact
// name or an unambiguous prefix, all case-insensitive.
func (m *MetaStore) Resolve(selection string) (string, error) {
	selection = strings.ToLower(strings.TrimSpace(selection))
	if selection == "" {
		return "", fmt.Errorf("empty selection")
	}
	if idx, err := strconv.Atoi(selection); err == nil {
		if idx < 1 || idx > len(m.Commands) {
			return "", fmt.Errorf("invalid selection %d", idx)
		}
		return m.Commands[idx-1].Name, nil
	}
	var matches []string
	for _, c := range m.Commands {
		name := strings.ToLower(c.Name)
		if name == selection {
			return c.Name, nil
		}
		if strings.HasPrefix(name, selection) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown command: %s", selection)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("ambiguous selection, candidates: %s", strings.Join(matches, ", "))
}

// NormalizeArgs checks raw user input against a command's metadata and
// returns canonical textual values in ArgSpec order. Empty optional values
// stay empty so the engine applies the registry default. Errors carry the
// input category.
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, ok := store.byName[cmdName]
	if !ok {
		return nil, apperrors.New(apperrors.CategoryInput, cmdName, fmt.Errorf("unknown command: %w", apperrors.ErrUnknownValue))
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, apperrors.New(apperrors.CategoryInput, cmdName, fmt.Errorf("missing required parameter: %s", a.Name))
			}
			continue
		}
		v, err := normalizeValue(rules[a.Name], raw)
		if err != nil {
			return nil, apperrors.New(apperrors.CategoryInput, cmdName, fmt.Errorf("parameter %s: %w", a.Name, err))
		}
		out[i] = v
	}
	return out, nil
}

func normalizeValue(vr ValidationRule, raw string) (string, error) {
	switch vr.Type {
	case ParamTypeInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", fmt.Errorf("expected integer, got %q", raw)
		}
		if err := checkBounds(vr, float64(v)); err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	case ParamTypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", fmt.Errorf("expected float, got %q", raw)
		}
		if err := checkBounds(vr, f); err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case ParamTypeEnum:
		low := strings.ToLower(raw)
		for _, o := range vr.EnumOptions {
			if low == o {
				return o, nil
			}
		}
		if mapped, ok := enumAliases[low]; ok {
			return mapped, nil
		}
		return "", fmt.Errorf("%q is not one of %s: %w", raw, strings.Join(vr.EnumOptions, ", "), apperrors.ErrUnknownValue)
	case ParamTypeRatio:
		r, err := stdimg.ParseAspectRatio(raw)
		if err != nil {
			return "", err
		}
		if r == nil {
			return "none", nil
		}
		return r.String(), nil
	case ParamTypePath:
		return raw, nil
	}
	return "", fmt.Errorf("unsupported param type %q", vr.Type)
}

func checkBounds(vr ValidationRule, v float64) error {
	if vr.Min != nil && v < *vr.Min {
		return fmt.Errorf("%v < min %v: %w", v, *vr.Min, apperrors.ErrOutOfRange)
	}
	if vr.Max != nil && v > *vr.Max {
		return fmt.Errorf("%v > max %v: %w", v, *vr.Max, apperrors.ErrOutOfRange)
	}
	return nil
}

// enumAliases accepts alternative spellings and maps them to the canonical
// option understood by the engine.
var enumAliases = map[string]string{
	"mirror":         "reflect",
	"edge":           "replicate",
	"zero":           "constant",
	"black":          "constant",
	"inverse":        "binary-inverse",
	"binary-inv":     "binary-inverse",
	"binary_inv":     "binary-inverse",
	"binary_inverse": "binary-inverse",
}
