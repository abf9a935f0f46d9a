package shading

import "pbr-viewer/math"

// ToneMapping selects the HDR to LDR operator. The values match uMode.tone.
type ToneMapping int32

const (
	ToneACES     ToneMapping = 0
	ToneReinhard ToneMapping = 1
)

func (t ToneMapping) String() string {
	if t == ToneReinhard {
		return "Reinhard"
	}
	return "ACES"
}

// LightingMode selects the lighting path. The values match uMode.mode.
type LightingMode int32

const (
	LightingBRDF LightingMode = 0
	LightingIBL  LightingMode = 1
)

func (m LightingMode) String() string {
	if m == LightingIBL {
		return "IBL"
	}
	return "BRDF"
}

func Reinhard(x math.Vec3) math.Vec3 {
	return x.Map(func(c float32) float32 { return c / (c + 1) })
}

// ACES is Narkowicz's fit of the ACES filmic curve.
func ACES(x math.Vec3) math.Vec3 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return x.Map(func(v float32) float32 {
		return math.Clamp((v*(a*v+b))/(v*(c*v+d)+e), 0, 1)
	})
}

func (t ToneMapping) Apply(x math.Vec3) math.Vec3 {
	if t == ToneReinhard {
		return Reinhard(x)
	}
	return ACES(x)
}
