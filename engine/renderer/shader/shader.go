package shader

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies whether a shader is a render shader or a compute shader.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	shaderType    ShaderType
	entryPoint    string
	workGroupSize [3]uint32
}

var _ Shader = &shader{}

// Shader defines the interface for a WGSL shader source paired with its
// entry point. Shaders are compiled in, so no parsing happens at runtime;
// the renderer declares matching bind group layouts and vertex layouts
// explicitly when it builds pipelines.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// Type retrieves the shader's type.
	//
	// Returns:
	//   - ShaderType: the shader type
	Type() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// WorkGroupSize returns the compute workgroup dimensions. Only
	// meaningful for compute shaders.
	//
	// Returns:
	//   - [3]uint32: the x, y, z workgroup sizes
	WorkGroupSize() [3]uint32

	// ModuleDescriptor builds the wgpu descriptor used to create the GPU
	// shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor for this shader
	ModuleDescriptor() *wgpu.ShaderModuleDescriptor
}

// NewShaderOption is a functional option for configuring a new Shader.
type NewShaderOption func(*shader)

// WithWorkGroupSize sets the compute workgroup dimensions.
//
// Parameters:
//   - x, y, z: the workgroup sizes per axis
//
// Returns:
//   - NewShaderOption: the option to apply
func WithWorkGroupSize(x, y, z uint32) NewShaderOption {
	return func(s *shader) {
		s.workGroupSize = [3]uint32{x, y, z}
	}
}

// NewShader constructs a Shader from an embedded WGSL source.
//
// Parameters:
//   - key: the unique identifier for the shader
//   - source: the WGSL source code
//   - shaderType: the type of shader
//   - entryPoint: the entry point function name
//   - opts: optional configuration options
//
// Returns:
//   - Shader: the constructed shader
func NewShader(key, source string, shaderType ShaderType, entryPoint string, opts ...NewShaderOption) Shader {
	s := &shader{
		key:           key,
		source:        source,
		shaderType:    shaderType,
		entryPoint:    entryPoint,
		workGroupSize: [3]uint32{1, 1, 1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Type() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) WorkGroupSize() [3]uint32 {
	return s.workGroupSize
}

func (s *shader) ModuleDescriptor() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label:          s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.source},
	}
}
