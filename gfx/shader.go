package gfx

import "github.com/go-gl/mathgl/mgl32"

// Program names understood by Factory.NewShader.
const (
	ShaderQuad           = "Renderer2D_Quad"
	ShaderCircle         = "Renderer2D_Circle"
	ShaderLine2D         = "Renderer2D_Line"
	ShaderSphere         = "Renderer3D_Sphere"
	ShaderLine3D         = "Renderer3D_Line"
	ShaderIBLBackground  = "IBL_Background"
	ShaderEquirectToCube = "IBL_EquirectangularToCubemap"
	ShaderIrradiance     = "IBL_IrradianceConvolution"
	ShaderPrefilter      = "IBL_Prefilter"
	ShaderBRDF           = "IBL_Brdf"
)

// Shader is a linked program with named uniform setters. Setters apply to
// the program regardless of which program is currently bound.
type Shader interface {
	Name() string
	Bind()
	Unbind()

	SetInt(name string, v int32)
	SetIntArray(name string, v []int32)
	SetFloat(name string, v float32)
	SetFloat3(name string, v mgl32.Vec3)
	SetFloat3Array(name string, v []mgl32.Vec3)
	SetFloat4(name string, v mgl32.Vec4)
	SetMat4(name string, m mgl32.Mat4)

	Destroy()
}
