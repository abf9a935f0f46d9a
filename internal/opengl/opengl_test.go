package opengl

import (
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"pbr-viewer/render"
)

func TestUniformType(t *testing.T) {
	tests := []struct {
		xtype uint32
		want  render.UniformType
	}{
		{gl.FLOAT, render.UniformFloat},
		{gl.INT, render.UniformInt},
		{gl.BOOL, render.UniformBool},
		{gl.FLOAT_VEC3, render.UniformVec3},
		{gl.FLOAT_MAT4, render.UniformMat4},
		{gl.SAMPLER_2D, render.UniformSampler2D},
		{gl.FLOAT_VEC2, render.UniformUnsupported},
		{gl.SAMPLER_CUBE, render.UniformUnsupported},
	}
	for _, tt := range tests {
		if got := uniformType(tt.xtype); got != tt.want {
			t.Errorf("uniformType(0x%x) = %v, want %v", tt.xtype, got, tt.want)
		}
	}
}

func TestGLString(t *testing.T) {
	if got := glString("main"); got != "main\x00" {
		t.Errorf("glString = %q", got)
	}
	if got := glString("main\x00"); got != "main\x00" {
		t.Errorf("already terminated: %q", got)
	}
}
