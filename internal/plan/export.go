package plan

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"extras-generator/internal/model"
)

// DocumentVersion is the version of the exported plan document.
const DocumentVersion = "1"

// Document is the exported form of a planning result.
type Document struct {
	Version string     `yaml:"version" json:"version"`
	Models  []ModelDoc `yaml:"models" json:"models"`
}

// ModelDoc is the exported form of one stage plan. RequiredAncestor is the
// closest ancestor with a required extra.
type ModelDoc struct {
	Model            string     `yaml:"model" json:"model"`
	Target           string     `yaml:"target" json:"target"`
	Parent           string     `yaml:"parent,omitempty" json:"parent,omitempty"`
	RequiredAncestor string     `yaml:"required_ancestor,omitempty" json:"requiredAncestor,omitempty"`
	Entry            EntryDoc   `yaml:"entry" json:"entry"`
	Stages           []StageDoc `yaml:"stages,omitempty" json:"stages,omitempty"`
	Continues        string     `yaml:"continues,omitempty" json:"continues,omitempty"`
	Flattened        bool       `yaml:"flattened,omitempty" json:"flattened,omitempty"`
	AllSet           AllSetDoc  `yaml:"all_set" json:"allSet"`
	Required         []string   `yaml:"required,omitempty" json:"required,omitempty"`
	Optional         []string   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// EntryDoc is the exported form of the entry points.
type EntryDoc struct {
	Kind    string `yaml:"kind" json:"kind"`
	New     string `yaml:"new" json:"new"`
	Resume  string `yaml:"resume,omitempty" json:"resume,omitempty"`
	Returns string `yaml:"returns" json:"returns"`
}

// StageDoc is the exported form of one required stage.
type StageDoc struct {
	Type    string `yaml:"type" json:"type"`
	Setter  string `yaml:"setter" json:"setter"`
	Key     string `yaml:"key" json:"key"`
	Param   string `yaml:"param" json:"param"`
	Kind    string `yaml:"kind" json:"kind"`
	Returns string `yaml:"returns" json:"returns"`
}

// AllSetDoc is the exported form of the terminal type.
type AllSetDoc struct {
	Type      string      `yaml:"type" json:"type"`
	Embeds    string      `yaml:"embeds" json:"embeds"`
	Flattened bool        `yaml:"flattened,omitempty" json:"flattened,omitempty"`
	Setters   []SetterDoc `yaml:"setters,omitempty" json:"setters,omitempty"`
}

// SetterDoc is the exported form of one optional setter.
type SetterDoc struct {
	Setter string `yaml:"setter" json:"setter"`
	Key    string `yaml:"key" json:"key"`
	Param  string `yaml:"param" json:"param"`
	Kind   string `yaml:"kind" json:"kind"`
}

// Export converts a planning result into its document form.
func Export(result *Result) *Document {
	doc := &Document{
		Version: DocumentVersion,
		Models:  []ModelDoc{},
	}

	for _, sp := range result.Plans {
		doc.Models = append(doc.Models, exportPlan(sp))
	}

	return doc
}

// ExportYAML renders a planning result as YAML.
func ExportYAML(result *Result) ([]byte, error) {
	data, err := yaml.Marshal(Export(result))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	return data, nil
}

// ExportJSON renders a planning result as indented JSON.
func ExportJSON(result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(Export(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	return append(data, '\n'), nil
}

func exportPlan(sp *StagePlan) ModelDoc {
	pkg := sp.Model.PkgPath

	md := ModelDoc{
		Model:     sp.Model.String(),
		Target:    sp.TargetName,
		Flattened: sp.Flattened,
		Entry: EntryDoc{
			Kind:   sp.Entry.Kind.String(),
			New:    sp.Entry.New,
			Resume: sp.Entry.Resume,
		},
		AllSet: AllSetDoc{
			Type:      sp.AllSet.Name,
			Embeds:    "extras.AllSetState",
			Flattened: sp.AllSet.Flattened,
		},
	}

	if sp.Parent != (model.TypeID{}) {
		md.Parent = sp.Parent.String()
	}

	if sp.RequiredAncestor != (model.TypeID{}) {
		md.RequiredAncestor = sp.RequiredAncestor.String()
	}

	if sp.Entry.Kind == EntryAllSet {
		md.Entry.Returns = "*" + sp.AllSet.Resolved
	} else {
		md.Entry.Returns = sp.Entry.Stage.In(pkg)
	}

	if !sp.AllSet.Embeds.IsZero() {
		md.AllSet.Embeds = sp.AllSet.Embeds.In(pkg)
	}

	for _, st := range sp.Stages {
		param, _ := st.Setter.Value.Render(pkg)

		returns := st.Next
		if returns == "" {
			returns = sp.AllSet.Name
			if sp.Tail != nil {
				returns = sp.Tail.Stage.In(pkg)
			}
		}

		md.Stages = append(md.Stages, StageDoc{
			Type:    st.Name,
			Setter:  st.Setter.Name,
			Key:     st.Setter.Key,
			Param:   param,
			Kind:    st.Setter.Value.Kind.String(),
			Returns: returns,
		})
	}

	if sp.Tail != nil {
		md.Continues = sp.Tail.Model.String()
	}

	for _, s := range sp.AllSet.Setters {
		param, _ := s.Value.Render(pkg)
		md.AllSet.Setters = append(md.AllSet.Setters, SetterDoc{
			Setter: s.Name,
			Key:    s.Key,
			Param:  param,
			Kind:   s.Value.Kind.String(),
		})
	}

	for _, s := range sp.required {
		md.Required = append(md.Required, s.Key)
	}

	for _, s := range sp.optional {
		md.Optional = append(md.Optional, s.Key)
	}

	return md
}
