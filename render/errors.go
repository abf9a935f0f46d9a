package render

import (
	"fmt"
)

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// ResourceCreationError is returned when the device rejects a buffer or
// texture allocation.
type ResourceCreationError struct {
	Resource string // "mesh", "texture"
	Reason   string
	Err      error
}

func (e *ResourceCreationError) Error() string {
	msg := fmt.Sprintf("create %s: %s", e.Resource, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResourceCreationError) Unwrap() error { return e.Err }

// ShaderCompileError carries the compiler diagnostic of the failing stage.
type ShaderCompileError struct {
	Program string
	Stage   ShaderStage
	Log     string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("compile %s shader of %q: %s", e.Stage, e.Program, e.Log)
}

type ShaderLinkError struct {
	Program string
	Log     string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("link program %q: %s", e.Program, e.Log)
}

// TooManyTextureUnitsError means a program declares more samplers than the
// device has texture units.
type TooManyTextureUnitsError struct {
	Program   string
	Samplers  int
	Available int
}

func (e *TooManyTextureUnitsError) Error() string {
	return fmt.Sprintf("program %q declares %d samplers, device has %d texture units",
		e.Program, e.Samplers, e.Available)
}

// UniformTypeError means a value variant does not match the declared type.
type UniformTypeError struct {
	Program string
	Name    string
	Want    UniformType
	Got     UniformType
}

func (e *UniformTypeError) Error() string {
	if e.Got == UniformUnsupported {
		return fmt.Sprintf("program %q: uniform %s is %s, got a nil value", e.Program, e.Name, e.Want)
	}
	return fmt.Sprintf("program %q: uniform %s is %s, got a %s value",
		e.Program, e.Name, e.Want, e.Got)
}
