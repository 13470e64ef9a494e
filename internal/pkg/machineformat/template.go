package machineformat

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTemplates []byte

var ErrUnknownMachine = errors.New("unknown machine format")

type Layout string

const (
	LayoutInOut    Layout = "in_out"
	LayoutPunchLog Layout = "punch_log"
)

// Columns lists accepted header spellings per field. Matching ignores case and surrounding space.
type Columns struct {
	EmployeeCode []string `yaml:"employee_code" json:"employee_code,omitempty"`
	Name         []string `yaml:"name" json:"name,omitempty"`
	Date         []string `yaml:"date" json:"date,omitempty"`
	CheckIn      []string `yaml:"check_in" json:"check_in,omitempty"`
	CheckOut     []string `yaml:"check_out" json:"check_out,omitempty"`
	Time         []string `yaml:"time" json:"time,omitempty"`
	Timestamp    []string `yaml:"timestamp" json:"timestamp,omitempty"`
}

// Template describes one machine's export layout.
type Template struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Layout           Layout   `yaml:"layout" json:"layout"`
	Columns          Columns  `yaml:"columns" json:"columns"`
	DateLayouts      []string `yaml:"date_layouts" json:"date_layouts,omitempty"`
	TimeLayouts      []string `yaml:"time_layouts" json:"time_layouts,omitempty"`
	TimestampLayouts []string `yaml:"timestamp_layouts" json:"timestamp_layouts,omitempty"`
}

func (t Template) validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if len(t.Columns.EmployeeCode) == 0 && len(t.Columns.Name) == 0 {
		return fmt.Errorf("template %s: employee_code or name columns are required", t.ID)
	}
	switch t.Layout {
	case LayoutInOut:
		if len(t.Columns.Date) == 0 || len(t.Columns.CheckIn) == 0 {
			return fmt.Errorf("template %s: in_out layout needs date and check_in columns", t.ID)
		}
	case LayoutPunchLog:
		hasTimestamp := len(t.Columns.Timestamp) > 0 && len(t.TimestampLayouts) > 0
		hasDateTime := len(t.Columns.Date) > 0 && len(t.Columns.Time) > 0
		if !hasTimestamp && !hasDateTime {
			return fmt.Errorf("template %s: punch_log layout needs timestamp or date and time columns", t.ID)
		}
	default:
		return fmt.Errorf("template %s: unknown layout %q", t.ID, t.Layout)
	}
	return nil
}

type file struct {
	Machines []Template `yaml:"machines"`
}

// Registry is the immutable set of machine templates loaded at startup.
type Registry struct {
	templates map[string]Template
}

// LoadRegistry reads templates from path, or the embedded defaults when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	data := defaultTemplates
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read machine templates: %w", err)
		}
	}
	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse machine templates: %w", err)
	}
	if len(f.Machines) == 0 {
		return nil, fmt.Errorf("no machine templates defined")
	}

	r := &Registry{templates: make(map[string]Template, len(f.Machines))}
	for _, t := range f.Machines {
		t.ID = strings.ToLower(strings.TrimSpace(t.ID))
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate machine template %s", t.ID)
		}
		r.templates[t.ID] = t
	}
	return r, nil
}

func (r *Registry) Get(machineID string) (Template, error) {
	t, ok := r.templates[strings.ToLower(strings.TrimSpace(machineID))]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownMachine, machineID)
	}
	return t, nil
}

func (r *Registry) List() []Template {
	list := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
