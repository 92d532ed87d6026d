package prompt

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a template kind is not registered
var ErrUnknownKind = errors.New("unknown template kind")

// Kind identifies one of the registered prompt archetypes
type Kind string

const (
	// KindNextQuestion asks the model for the next interview question
	KindNextQuestion Kind = "nextQuestion"

	// KindEvaluation asks the model to review a candidate's answer
	KindEvaluation Kind = "evaluation"

	// KindFollowUp asks the model to explain a difficult topic
	KindFollowUp Kind = "followUp"
)

// Kinds lists every registered template kind in a stable order
var Kinds = []Kind{KindNextQuestion, KindEvaluation, KindFollowUp}

// String returns string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// ParseKind validates a string key against the closed set of kinds
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Context carries the per-request values interpolated into a prompt.
// Section and Level are expected to be set; empty optional fields are omitted.
type Context struct {
	Section        string
	Level          string
	Topics         []string
	AskedQuestions []string
}

// Tag is a named example of an allowed markup construct
type Tag struct {
	Name    string
	Example string
}

// FormattingConfig holds formatting directives interpolated verbatim into a prompt
type FormattingConfig struct {
	Rules       []string
	ListExample string
	AllowedTags []Tag
}

// Subsection is a titled group of items inside a Section
type Subsection struct {
	Title   string
	Content string
	Items   []string
}

// Section is one block of the expected answer layout
type Section struct {
	Title       string
	Content     string
	Subsections []Subsection
	Items       []string
}

// ResponseFormat describes the layout the model should answer in
type ResponseFormat struct {
	Sections []Section
}

// Base is shared by every template variant
type Base struct {
	RoleDescription string
	Style           []string
}

// Template is a sealed union over PlainTemplate, FormattedTemplate and StructuredTemplate
type Template interface {
	base() Base
}

// PlainTemplate carries only a role and a communication style. Rules and
// QuestionFormat are kept with the template but are not written into the prompt.
type PlainTemplate struct {
	Base
	Rules          []string
	QuestionFormat string
}

// FormattedTemplate adds formatting directives to the base
type FormattedTemplate struct {
	Base
	Formatting FormattingConfig
}

// StructuredTemplate adds formatting directives and a response layout to the base
type StructuredTemplate struct {
	Base
	Formatting FormattingConfig
	Response   ResponseFormat
}

func (t PlainTemplate) base() Base      { return t.Base }
func (t FormattedTemplate) base() Base  { return t.Base }
func (t StructuredTemplate) base() Base { return t.Base }

// Registry maps kinds to templates. It is built once and only read afterwards.
type Registry struct {
	templates map[Kind]Template
}

// NewRegistry copies the given templates into a read-only registry
func NewRegistry(templates map[Kind]Template) *Registry {
	r := &Registry{templates: make(map[Kind]Template, len(templates))}
	for k, t := range templates {
		r.templates[k] = t
	}
	return r
}

// Lookup returns the template registered for kind
func (r *Registry) Lookup(kind Kind) (Template, bool) {
	t, ok := r.templates[kind]
	return t, ok
}
