package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> world: mat4x4<f32>;
	// or handle types: @group(1) @binding(0) var diffuse: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Reflection is the resource usage of one WGSL entry point, in the counts the
// explicit GPU API asks for at shader creation.
type Reflection struct {
	EntryPoint         string
	NumUniformBuffers  uint32
	NumStorageBuffers  uint32
	NumSamplers        uint32
	NumStorageTextures uint32
}

type resourceDecl struct {
	group, binding int
	addressSpace   string
	name           string
	typeName       string
}

// ReflectWGSL inspects WGSL source and reports the entry point of the given stage
// and the resources that entry point references directly. Uniform buffers must
// live in group 0 at bindings 0..n-1, since binding i is uniform slot i.
//
// Parameters:
//   - source: the WGSL source code
//   - stage: the stage whose entry point is inspected
//   - entryPoint: the entry point name, or "" to use the first entry point of the stage
//
// Returns:
//   - Reflection: the entry point and its resource counts
//   - error: if no entry point is found or the uniform bindings are not slot shaped
func ReflectWGSL(source string, stage gpu.ShaderStage, entryPoint string) (Reflection, error) {
	cleaned := stripComments(source)

	if entryPoint == "" {
		entryPoint = parseEntryPoint(cleaned, stage)
		if entryPoint == "" {
			return Reflection{}, fmt.Errorf("no @%s entry point found", stage)
		}
	}

	body, ok := functionBody(cleaned, entryPoint)
	if !ok {
		return Reflection{}, fmt.Errorf("entry point %q not found", entryPoint)
	}

	r := Reflection{EntryPoint: entryPoint}
	uniformSlots := make(map[int]bool)
	for _, decl := range parseResourceDecls(cleaned) {
		if !referencesIdent(body, decl.name) {
			continue
		}
		switch {
		case decl.addressSpace == "uniform":
			if decl.group != 0 {
				return Reflection{}, fmt.Errorf("uniform %q must be in group 0, found group %d", decl.name, decl.group)
			}
			uniformSlots[decl.binding] = true
		case strings.HasPrefix(decl.addressSpace, "storage"):
			r.NumStorageBuffers++
		case strings.HasPrefix(decl.typeName, "sampler"):
			r.NumSamplers++
		case strings.HasPrefix(decl.typeName, "texture_storage"):
			r.NumStorageTextures++
		}
	}

	for slot := range len(uniformSlots) {
		if !uniformSlots[slot] {
			return Reflection{}, fmt.Errorf("uniform bindings of %q are not contiguous from 0", entryPoint)
		}
	}
	r.NumUniformBuffers = uint32(len(uniformSlots))
	return r, nil
}

// parseEntryPoint extracts the entry point function name for the given stage
// from WGSL source. Returns an empty string if no matching entry point annotation is found.
func parseEntryPoint(source string, stage gpu.ShaderStage) string {
	re := vertexEntryRegex
	if stage == gpu.ShaderStageFragment {
		re = fragmentEntryRegex
	}
	if match := re.FindStringSubmatch(source); match != nil {
		return match[1]
	}
	return ""
}

func parseResourceDecls(source string) []resourceDecl {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(source, -1)
	decls := make([]resourceDecl, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		decls = append(decls, resourceDecl{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(strings.SplitN(match[3], ",", 2)[0]),
			name:         strings.TrimSpace(match[4]),
			typeName:     strings.TrimSpace(match[5]),
		})
	}
	return decls
}

// functionBody returns the text between the braces of fn name.
func functionBody(source, name string) (string, bool) {
	loc := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(name) + `\s*\(`).FindStringIndex(source)
	if loc == nil {
		return "", false
	}
	open := strings.IndexByte(source[loc[1]:], '{')
	if open < 0 {
		return "", false
	}
	start := loc[1] + open + 1
	depth := 1
	for i := start; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[start:i], true
			}
		}
	}
	return "", false
}

func referencesIdent(body, ident string) bool {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(ident) + `\b`).MatchString(body)
}

// stripComments removes line and block comments from WGSL source.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from WGSL source.
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments (/* ... */) from WGSL source,
// handling nested block comments per the WGSL specification.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}
