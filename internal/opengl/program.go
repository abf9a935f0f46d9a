package opengl

import (
	"strconv"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"pbr-viewer/render"
)

// CreateProgram compiles both stages, links them and reflects the active
// uniforms. Partially created objects are deleted on failure.
func (d *Device) CreateProgram(vertSrc, fragSrc string) (uint32, []render.UniformInfo, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER, render.StageVertex)
	if err != nil {
		return 0, nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER, render.StageFragment)
	if err != nil {
		return 0, nil, err
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, nil, &render.ShaderLinkError{Log: strings.TrimRight(log, "\x00")}
	}

	gl.DetachShader(prog, vert)
	gl.DetachShader(prog, frag)
	return prog, activeUniforms(prog), nil
}

func (d *Device) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func compileShader(src string, shaderType uint32, stage render.ShaderStage) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(glString(src))
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &render.ShaderCompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

// activeUniforms lists every active uniform with its location. Arrays of
// basic types are expanded to one entry per element; struct arrays are
// already reported per member by the driver.
func activeUniforms(prog uint32) []render.UniformInfo {
	var count, maxLen int32
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	var out []render.UniformInfo
	buf := make([]byte, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(prog, uint32(i), maxLen+1, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		typ := uniformType(xtype)

		if size > 1 && strings.HasSuffix(name, "[0]") {
			base := strings.TrimSuffix(name, "[0]")
			for e := int32(0); e < size; e++ {
				elem := base + "[" + strconv.Itoa(int(e)) + "]"
				out = append(out, render.UniformInfo{
					Name:     elem,
					Location: gl.GetUniformLocation(prog, gl.Str(elem+"\x00")),
					Type:     typ,
				})
			}
			continue
		}
		out = append(out, render.UniformInfo{
			Name:     name,
			Location: gl.GetUniformLocation(prog, gl.Str(name+"\x00")),
			Type:     typ,
		})
	}
	return out
}

func uniformType(xtype uint32) render.UniformType {
	switch xtype {
	case gl.FLOAT:
		return render.UniformFloat
	case gl.INT:
		return render.UniformInt
	case gl.BOOL:
		return render.UniformBool
	case gl.FLOAT_VEC3:
		return render.UniformVec3
	case gl.FLOAT_MAT4:
		return render.UniformMat4
	case gl.SAMPLER_2D:
		return render.UniformSampler2D
	default:
		return render.UniformUnsupported
	}
}
