package softgl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pbr-viewer/render"
)

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	defineRe     = regexp.MustCompile(`(?m)^\s*#define\s+(\w+)\s+(\S+)`)
	structRe     = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}\s*;`)
	memberRe     = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[\s*(\w+)\s*\])?\s*;`)
	uniformRe    = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\w+)\s*\])?\s*;`)
	varyingIn    = regexp.MustCompile(`(?m)^\s*in\s+(\w+)\s+(\w+)\s*;`)
	varyingOut   = regexp.MustCompile(`(?m)^\s*out\s+(\w+)\s+(\w+)\s*;`)
	mainRe       = regexp.MustCompile(`void\s+main\s*\(\s*\)`)
)

// shaderInfo is what the software device understands of a GLSL stage:
// its declared uniforms and interface variables. The body is never executed;
// the device runs a shading.Pipeline instead.
type shaderInfo struct {
	uniforms []render.UniformInfo // Location unset
	ins      map[string]string
	outs     map[string]string
}

func stripComments(src string) string {
	return lineComment.ReplaceAllString(blockComment.ReplaceAllString(src, ""), "")
}

// parseShader performs the checks a driver front end would reject first and
// collects the declarations. Errors are formatted like driver diagnostics.
func parseShader(src string) (*shaderInfo, error) {
	code := stripComments(src)
	if !strings.HasPrefix(strings.TrimSpace(code), "#version") {
		return nil, fmt.Errorf("0:1: error: #version directive missing")
	}
	if err := checkBalanced(code); err != nil {
		return nil, err
	}
	if !mainRe.MatchString(code) {
		return nil, fmt.Errorf("0:0: error: no definition of void main()")
	}

	defines := make(map[string]string)
	for _, m := range defineRe.FindAllStringSubmatch(code, -1) {
		defines[m[1]] = m[2]
	}
	arraySize := func(tok string) (int, error) {
		if tok == "" {
			return 0, nil
		}
		if v, ok := defines[tok]; ok {
			tok = v
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("0:0: error: array size %q is not a positive integer constant", tok)
		}
		return n, nil
	}

	type member struct {
		typ, name string
		size      int
	}
	structs := make(map[string][]member)
	for _, m := range structRe.FindAllStringSubmatch(code, -1) {
		var members []member
		for _, f := range memberRe.FindAllStringSubmatch(m[2], -1) {
			n, err := arraySize(f[3])
			if err != nil {
				return nil, err
			}
			members = append(members, member{typ: f[1], name: f[2], size: n})
		}
		structs[m[1]] = members
	}

	info := &shaderInfo{
		ins:  make(map[string]string),
		outs: make(map[string]string),
	}
	var expand func(prefix, typ string, size int) error
	expand = func(prefix, typ string, size int) error {
		names := []string{prefix}
		if size > 0 {
			names = names[:0]
			for i := 0; i < size; i++ {
				names = append(names, fmt.Sprintf("%s[%d]", prefix, i))
			}
		}
		for _, name := range names {
			members, isStruct := structs[typ]
			if !isStruct {
				info.uniforms = append(info.uniforms, render.UniformInfo{Name: name, Type: glslType(typ)})
				continue
			}
			for _, f := range members {
				if err := expand(name+"."+f.name, f.typ, f.size); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, m := range uniformRe.FindAllStringSubmatch(code, -1) {
		n, err := arraySize(m[3])
		if err != nil {
			return nil, err
		}
		if err := expand(m[2], m[1], n); err != nil {
			return nil, err
		}
	}

	for _, m := range varyingIn.FindAllStringSubmatch(code, -1) {
		info.ins[m[2]] = m[1]
	}
	for _, m := range varyingOut.FindAllStringSubmatch(code, -1) {
		info.outs[m[2]] = m[1]
	}
	return info, nil
}

func checkBalanced(code string) error {
	line := 1
	var stack []byte
	pairs := map[byte]byte{')': '(', '}': '{', ']': '['}
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, c)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return fmt.Errorf("0:%d: error: unexpected '%c'", line, c)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("0:%d: error: unexpected end of file, unclosed '%c'", line, stack[len(stack)-1])
	}
	return nil
}

func glslType(t string) render.UniformType {
	switch t {
	case "float":
		return render.UniformFloat
	case "int":
		return render.UniformInt
	case "bool":
		return render.UniformBool
	case "vec3":
		return render.UniformVec3
	case "mat4":
		return render.UniformMat4
	case "sampler2D":
		return render.UniformSampler2D
	default:
		return render.UniformUnsupported
	}
}

// link matches the fragment inputs against the vertex outputs and merges the
// uniforms of both stages. Locations are assigned in name order.
func link(vs, fs *shaderInfo) ([]render.UniformInfo, error) {
	var missing []string
	for name, typ := range fs.ins {
		if vs.outs[name] != typ {
			missing = append(missing, fmt.Sprintf("%s %s", typ, name))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("error: fragment shader input(s) %s not written by the vertex shader", strings.Join(missing, ", "))
	}

	byName := make(map[string]render.UniformInfo)
	for _, u := range append(vs.uniforms, fs.uniforms...) {
		if prev, ok := byName[u.Name]; ok && prev.Type != u.Type {
			return nil, fmt.Errorf("error: uniform %s declared as %s and %s", u.Name, prev.Type, u.Type)
		}
		byName[u.Name] = u
	}
	out := make([]render.UniformInfo, 0, len(byName))
	for _, u := range byName {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	for i := range out {
		out[i].Location = int32(i)
	}
	return out, nil
}
