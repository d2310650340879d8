package policies

import (
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const (
	globalPrefix  = "/"
	privatePrefix = "~"
	dynamicMarker = "?"
)

// NamePolicy resolves ROS graph names of interface entries relative to a
// node and matches names declared with dynamic segments.
type NamePolicy struct {
	NodeName  string
	Namespace string
}

// NewNamePolicy splits a fully qualified node name such as
// /camera/prosilica into its namespace and private namespace.
func NewNamePolicy(nodeFQN string) (NamePolicy, error) {
	trimmed := strings.TrimSpace(nodeFQN)
	if trimmed == "" {
		return NamePolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("node name must not be empty")
	}
	if strings.ContainsAny(trimmed, privatePrefix+dynamicMarker) {
		return NamePolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("node name must not contain ~ or ?: " + trimmed)
	}
	full := canonical(globalPrefix + strings.TrimPrefix(trimmed, globalPrefix))
	idx := strings.LastIndex(full, globalPrefix)
	namespace := full[:idx]
	if namespace == "" {
		namespace = globalPrefix
	}
	return NamePolicy{NodeName: full, Namespace: namespace}, nil
}

// PrivateNamespace is the namespace that ~ resolves to.
func (p NamePolicy) PrivateNamespace() string {
	return p.NodeName
}

// ResolveEntry returns the full name of an entry declared with the given
// name and namespace hint.
func (p NamePolicy) ResolveEntry(name string, namespaceHint string) string {
	return p.Resolve(name, p.resolveNamespace(namespaceHint))
}

// Resolve resolves name against namespace: global names are kept, ~names go
// to the private namespace, anything else is joined to namespace.
func (p NamePolicy) Resolve(name string, namespace string) string {
	switch {
	case strings.HasPrefix(name, globalPrefix):
		return canonical(name)
	case strings.HasPrefix(name, privatePrefix):
		return join(p.PrivateNamespace(), strings.TrimPrefix(strings.TrimPrefix(name, privatePrefix), globalPrefix))
	case name == "":
		return canonical(namespace)
	default:
		return join(namespace, name)
	}
}

func (p NamePolicy) resolveNamespace(hint string) string {
	trimmed := strings.TrimSpace(hint)
	switch {
	case trimmed == "":
		return p.Namespace
	case trimmed == privatePrefix:
		return p.PrivateNamespace()
	default:
		return p.Resolve(trimmed, p.Namespace)
	}
}

// IsDynamic reports whether name contains a runtime-computed segment.
func IsDynamic(name string) bool {
	return strings.Contains(name, dynamicMarker)
}

// MatchName reports whether candidate is name, or matches name when name
// contains ? markers standing for one or more characters.
func MatchName(name string, candidate string) bool {
	if !IsDynamic(name) {
		return name == candidate
	}
	return dynamicPattern(name).MatchString(candidate)
}

func dynamicPattern(name string) *regexp.Regexp {
	parts := strings.Split(name, dynamicMarker)
	for idx, part := range parts {
		parts[idx] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, "(?:.+?)") + "$")
}

func join(namespace string, name string) string {
	if name == "" {
		return canonical(namespace)
	}
	return canonical(strings.TrimSuffix(namespace, globalPrefix) + globalPrefix + name)
}

func canonical(name string) string {
	for strings.Contains(name, "//") {
		name = strings.ReplaceAll(name, "//", globalPrefix)
	}
	if len(name) > 1 {
		name = strings.TrimSuffix(name, globalPrefix)
	}
	if !strings.HasPrefix(name, globalPrefix) {
		name = globalPrefix + name
	}
	return name
}
