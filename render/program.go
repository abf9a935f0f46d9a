package render

import (
	"sort"
)

// ProgramSource is the GLSL of one program.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
}

// Program is a linked shader program and the uniform table captured at link
// time. Samplers are assigned texture units by their rank in name order.
type Program struct {
	Name string

	id       uint32
	ctx      *Context
	uniforms []UniformInfo // sorted by name
	samplers []UniformInfo // sorted by name; index is the texture unit
}

func newProgram(name string, id uint32, ctx *Context, uniforms []UniformInfo) *Program {
	p := &Program{Name: name, id: id, ctx: ctx}
	p.uniforms = append([]UniformInfo(nil), uniforms...)
	sort.Slice(p.uniforms, func(i, j int) bool { return p.uniforms[i].Name < p.uniforms[j].Name })
	for _, u := range p.uniforms {
		if u.Type == UniformSampler2D {
			p.samplers = append(p.samplers, u)
		}
	}
	return p
}

// Uniforms returns the active uniforms sorted by name.
func (p *Program) Uniforms() []UniformInfo {
	return append([]UniformInfo(nil), p.uniforms...)
}

// Uniform looks up an active uniform by its full name.
func (p *Program) Uniform(name string) (UniformInfo, bool) {
	i := sort.Search(len(p.uniforms), func(i int) bool { return p.uniforms[i].Name >= name })
	if i < len(p.uniforms) && p.uniforms[i].Name == name {
		return p.uniforms[i], true
	}
	return UniformInfo{}, false
}

// TextureUnit returns the unit reserved for a sampler uniform.
func (p *Program) TextureUnit(name string) (int, bool) {
	for unit, s := range p.samplers {
		if s.Name == name {
			return unit, true
		}
	}
	return 0, false
}

// SamplerCount is the number of texture units the program needs.
func (p *Program) SamplerCount() int {
	return len(p.samplers)
}
