package shader

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	structDeclRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	attributeRegex    = regexp.MustCompile(`@(\w+)\s*(?:\(([^)]*)\))?`)
	memberRegex       = regexp.MustCompile(`^(\w+)\s*:\s*(.+)$`)
	entryPointRegex   = regexp.MustCompile(`@(vertex|fragment)\s+fn\s+(\w+)`)
	resourceDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// wgslMember is one struct member. location is -1 when the member has no @location.
type wgslMember struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type wgslStruct struct {
	name    string
	members []wgslMember
}

// wgslResource is one module-scope @group/@binding variable.
type wgslResource struct {
	group    int
	binding  int
	space    string
	name     string
	typeName string
}

// wgslModule is the module-scope outline of a WGSL program: the declarations reflection
// cares about, in source order. Function bodies are not parsed.
type wgslModule struct {
	vertexEntry   string
	fragmentEntry string
	structs       []wgslStruct
	resources     []wgslResource
}

// scanModule outlines WGSL source. Comments are removed once up front; everything else
// works on the stripped text.
//
// Parameters:
//   - source: the raw WGSL source
//
// Returns:
//   - wgslModule: the outline
func scanModule(source string) wgslModule {
	src := stripComments(source)
	var m wgslModule

	for _, match := range entryPointRegex.FindAllStringSubmatch(src, -1) {
		switch {
		case match[1] == "vertex" && m.vertexEntry == "":
			m.vertexEntry = match[2]
		case match[1] == "fragment" && m.fragmentEntry == "":
			m.fragmentEntry = match[2]
		}
	}

	for _, match := range structDeclRegex.FindAllStringSubmatch(src, -1) {
		st := wgslStruct{name: match[1]}
		for _, decl := range splitMembers(match[2]) {
			if member, ok := parseMember(decl); ok {
				st.members = append(st.members, member)
			}
		}
		m.structs = append(m.structs, st)
	}

	for _, match := range resourceDeclRegex.FindAllStringSubmatch(src, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		// var<uniform> and var<storage, read> both name the space first
		space, _, _ := strings.Cut(match[3], ",")
		m.resources = append(m.resources, wgslResource{
			group:    group,
			binding:  binding,
			space:    strings.TrimSpace(space),
			name:     match[4],
			typeName: strings.TrimSpace(match[5]),
		})
	}
	return m
}

// structNamed looks a struct up by name.
func (m wgslModule) structNamed(name string) (wgslStruct, bool) {
	for _, st := range m.structs {
		if st.name == name {
			return st, true
		}
	}
	return wgslStruct{}, false
}

// resourceAt returns the variable bound at group/binding.
func (m wgslModule) resourceAt(group, binding int) (wgslResource, bool) {
	for _, r := range m.resources {
		if r.group == group && r.binding == binding {
			return r, true
		}
	}
	return wgslResource{}, false
}

// parseMember reads one "@attr(...) name: type" declaration.
func parseMember(decl string) (wgslMember, bool) {
	member := wgslMember{location: -1}
	for _, attr := range attributeRegex.FindAllStringSubmatch(decl, -1) {
		switch attr[1] {
		case "location":
			if loc, err := strconv.Atoi(strings.TrimSpace(attr[2])); err == nil {
				member.location = loc
			}
		case "builtin":
			member.builtin = true
		}
	}

	rest := strings.TrimSpace(attributeRegex.ReplaceAllString(decl, ""))
	match := memberRegex.FindStringSubmatch(rest)
	if match == nil {
		return wgslMember{}, false
	}
	member.name = match[1]
	member.typeName = strings.TrimSpace(match[2])
	return member, true
}

// splitMembers splits a struct body at the commas between members, leaving the commas
// inside template lists like array<f32, 4> alone.
func splitMembers(body string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, body[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, body[start:])

	decls := out[:0]
	for _, d := range out {
		if d = strings.TrimSpace(d); d != "" {
			decls = append(decls, d)
		}
	}
	return decls
}

// stripComments blanks out line comments and block comments. WGSL block comments nest.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end
		case strings.HasPrefix(src[i:], "/*"):
			depth := 0
			for i < len(src) {
				if strings.HasPrefix(src[i:], "/*") {
					depth++
					i += 2
				} else if strings.HasPrefix(src[i:], "*/") {
					depth--
					i += 2
					if depth == 0 {
						break
					}
				} else {
					i++
				}
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(src[i])
			i++
		}
	}
	return b.String()
}
