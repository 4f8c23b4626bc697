package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a configuration key with its default value.
// The type of Value decides how the key is parsed from the command line and the environment.
type Field struct {
	Key         string
	Value       any
	Description string
	// Options restricts a string field to a set of values.
	Options []string
	// Min and Max bound an int field when Max is set.
	Min, Max int
}

func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Type names the kind of value the field holds.
func (f *Field) Type() string {
	return reflect.TypeOf(f.Value).String()
}

// Parse converts command line arguments to a value of the field's type.
// Only list fields accept more than one argument.
func (f *Field) Parse(args []string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s needs a value", f.Key)
	}

	if _, ok := f.Value.([]string); ok {
		return args, nil
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("%s takes a single %s value, got %d", f.Key, f.Type(), len(args))
	}

	raw := args[0]
	switch f.Value.(type) {
	case string:
		if len(f.Options) > 0 && !lo.Contains(f.Options, raw) {
			return nil, fmt.Errorf("invalid %s %q, expected one of: %s", f.Key, raw, strings.Join(f.Options, ", "))
		}
		return raw, nil
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q for %s", raw, f.Key)
		}
		if f.Max > 0 && (n < f.Min || n > f.Max) {
			return nil, fmt.Errorf("%s must be between %d and %d, got %d", f.Key, f.Min, f.Max, n)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q for %s", raw, f.Key)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", f.Key)
	}
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Options     []string `json:"options,omitempty"`
		Env         string   `json:"env"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.Type(),
		Options:     f.Options,
		Env:         f.Env(),
	})
}

// Pretty describes the field for the terminal. Values that differ from the default are highlighted.
func (f *Field) Pretty() string {
	label := style.Fg(color.Blue)
	current := viper.Get(f.Key)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", style.Bold(style.Fg(color.Purple)(f.Key)), style.Faint(f.Type()))
	for _, line := range strings.Split(f.Description, "\n") {
		fmt.Fprintf(&b, "  %s\n", style.Faint(line))
	}
	if len(f.Options) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", label("options"), strings.Join(f.Options, " | "))
	}
	if f.Max > 0 {
		fmt.Fprintf(&b, "  %s   %d..%d\n", label("range"), f.Min, f.Max)
	}
	fmt.Fprintf(&b, "  %s     %s\n", label("env"), f.Env())
	fmt.Fprintf(&b, "  %s   %s", label("value"), highlight(current))
	if !reflect.DeepEqual(current, f.Value) {
		fmt.Fprintf(&b, " %s", style.Faint("(default "+fmt.Sprint(f.Value)+")"))
	}
	return b.String()
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		return style.Fg(lo.Ternary(value, color.Green, color.Red))(strconv.FormatBool(value))
	case string:
		return style.Fg(color.Yellow)(strconv.Quote(value))
	default:
		return fmt.Sprint(value)
	}
}

// Lookup returns the field of key. Unknown keys get a suggestion of the closest one.
func Lookup(key string) (Field, error) {
	if field, ok := Default[key]; ok {
		return field, nil
	}

	closest := lo.MinBy(Keys(), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	return Field{}, fmt.Errorf("unknown key %s, did you mean %s?", style.Fg(color.Red)(key), style.Fg(color.Yellow)(closest))
}

// Keys returns every configuration key in order.
func Keys() []string {
	keys := lo.Keys(Default)
	sort.Strings(keys)
	return keys
}
