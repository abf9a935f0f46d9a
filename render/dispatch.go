package render

import (
	"log/slog"
)

// bindingState mirrors the device's implicit binding state for one Context.
type bindingState struct {
	program uint32
	units   []uint32 // texture id bound to each unit, 0 if none
}

func (s *bindingState) reset() {
	s.program = 0
	s.resetUnits()
}

func (s *bindingState) resetUnits() {
	for i := range s.units {
		s.units[i] = 0
	}
}

// Dispatcher binds a Uniforms mapping to the active uniforms of a program.
type Dispatcher struct {
	dev   Device
	state *bindingState
}

// Dispatch walks the program's uniform table and uploads every value found
// in u under the same name. Names in u that the program does not declare are
// ignored, and declared uniforms missing from u keep their current value.
// The program must already be in use.
func (d *Dispatcher) Dispatch(p *Program, u Uniforms) error {
	if avail := d.dev.MaxTextureUnits(); len(p.samplers) > avail {
		return &TooManyTextureUnitsError{Program: p.Name, Samplers: len(p.samplers), Available: avail}
	}
	if len(d.state.units) < len(p.samplers) {
		d.state.units = append(d.state.units, make([]uint32, len(p.samplers)-len(d.state.units))...)
	}

	for _, info := range p.uniforms {
		v, ok := u[info.Name]
		if !ok {
			continue
		}
		if v == nil {
			return &UniformTypeError{Program: p.Name, Name: info.Name, Want: info.Type, Got: UniformUnsupported}
		}
		if !info.Type.accepts(v.Kind()) {
			return &UniformTypeError{Program: p.Name, Name: info.Name, Want: info.Type, Got: v.Kind()}
		}

		switch v := v.(type) {
		case Float:
			d.dev.SetFloat(info.Location, float32(v))
		case Int:
			d.dev.SetInt(info.Location, int32(v))
		case Vec3:
			d.dev.SetVec3(info.Location, v.vec())
		case Mat4:
			d.dev.SetMat4(info.Location, v.mat())
		case TextureRef:
			d.bindTexture(p, info, v)
		}
	}
	return nil
}

// bindTexture binds the texture to the unit reserved for the sampler. The
// sampler-to-unit assignment was uploaded when the program was created, so
// only the texture binding can change between draws.
func (d *Dispatcher) bindTexture(p *Program, info UniformInfo, ref TextureRef) {
	if ref.Texture == nil || ref.Texture.id == 0 {
		return
	}
	unit, _ := p.TextureUnit(info.Name)
	if d.state.units[unit] == ref.Texture.id {
		return
	}
	d.dev.BindTexture(unit, ref.Texture.id)
	d.state.units[unit] = ref.Texture.id
	Logger().Debug("render: bind texture", slog.String("uniform", info.Name), slog.Int("unit", unit))
}
