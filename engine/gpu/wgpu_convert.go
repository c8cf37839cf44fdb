package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

func toWGPUBlendFactor(f BlendFactor) wgpu.BlendFactor {
	switch f {
	case BlendFactorOne:
		return wgpu.BlendFactorOne
	case BlendFactorSrcColor:
		return wgpu.BlendFactorSrc
	case BlendFactorOneMinusSrcColor:
		return wgpu.BlendFactorOneMinusSrc
	case BlendFactorDstColor:
		return wgpu.BlendFactorDst
	case BlendFactorOneMinusDstColor:
		return wgpu.BlendFactorOneMinusDst
	case BlendFactorSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	case BlendFactorDstAlpha:
		return wgpu.BlendFactorDstAlpha
	case BlendFactorOneMinusDstAlpha:
		return wgpu.BlendFactorOneMinusDstAlpha
	default:
		return wgpu.BlendFactorZero
	}
}

func toWGPUBlendOp(op BlendOp) wgpu.BlendOperation {
	switch op {
	case BlendOpSubtract:
		return wgpu.BlendOperationSubtract
	case BlendOpReverseSubtract:
		return wgpu.BlendOperationReverseSubtract
	case BlendOpMin:
		return wgpu.BlendOperationMin
	case BlendOpMax:
		return wgpu.BlendOperationMax
	default:
		return wgpu.BlendOperationAdd
	}
}

func toWGPUWriteMask(m ColorComponent) wgpu.ColorWriteMask {
	var out wgpu.ColorWriteMask
	if m&ColorComponentR != 0 {
		out |= wgpu.ColorWriteMaskRed
	}
	if m&ColorComponentG != 0 {
		out |= wgpu.ColorWriteMaskGreen
	}
	if m&ColorComponentB != 0 {
		out |= wgpu.ColorWriteMaskBlue
	}
	if m&ColorComponentA != 0 {
		out |= wgpu.ColorWriteMaskAlpha
	}
	return out
}

func toWGPUBlendState(s ColorTargetBlendState) *wgpu.BlendState {
	if !s.EnableBlend {
		return nil
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: toWGPUBlendFactor(s.SrcColorBlendFactor),
			DstFactor: toWGPUBlendFactor(s.DstColorBlendFactor),
			Operation: toWGPUBlendOp(s.ColorBlendOp),
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: toWGPUBlendFactor(s.SrcAlphaBlendFactor),
			DstFactor: toWGPUBlendFactor(s.DstAlphaBlendFactor),
			Operation: toWGPUBlendOp(s.AlphaBlendOp),
		},
	}
}

func toWGPUTopology(p PrimitiveType) wgpu.PrimitiveTopology {
	switch p {
	case PrimitiveTypeTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case PrimitiveTypeLineList:
		return wgpu.PrimitiveTopologyLineList
	case PrimitiveTypeLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case PrimitiveTypePointList:
		return wgpu.PrimitiveTopologyPointList
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func toWGPUCullMode(c CullMode) wgpu.CullMode {
	switch c {
	case CullModeFront:
		return wgpu.CullModeFront
	case CullModeBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

func toWGPUFrontFace(f FrontFace) wgpu.FrontFace {
	if f == FrontFaceClockwise {
		return wgpu.FrontFaceCW
	}
	return wgpu.FrontFaceCCW
}

func toWGPUVertexFormat(f VertexElementFormat) (wgpu.VertexFormat, error) {
	if f == VertexElementFormatFloat4 {
		return wgpu.VertexFormatFloat32x4, nil
	}
	return 0, fmt.Errorf("unsupported vertex element format %d", int(f))
}

func toWGPUStepMode(r VertexInputRate) wgpu.VertexStepMode {
	if r == VertexInputRateInstance {
		return wgpu.VertexStepModeInstance
	}
	return wgpu.VertexStepModeVertex
}

func toWGPUTextureFormat(f TextureFormat) (wgpu.TextureFormat, error) {
	switch f {
	case TextureFormatB8G8R8A8Unorm:
		return wgpu.TextureFormatBGRA8Unorm, nil
	case TextureFormatB8G8R8A8UnormSrgb:
		return wgpu.TextureFormatBGRA8UnormSrgb, nil
	case TextureFormatR8G8B8A8Unorm:
		return wgpu.TextureFormatRGBA8Unorm, nil
	case TextureFormatR8G8B8A8UnormSrgb:
		return wgpu.TextureFormatRGBA8UnormSrgb, nil
	default:
		return 0, fmt.Errorf("unsupported texture format %s", f)
	}
}

func fromWGPUTextureFormat(f wgpu.TextureFormat) TextureFormat {
	switch f {
	case wgpu.TextureFormatBGRA8Unorm:
		return TextureFormatB8G8R8A8Unorm
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return TextureFormatB8G8R8A8UnormSrgb
	case wgpu.TextureFormatRGBA8Unorm:
		return TextureFormatR8G8B8A8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return TextureFormatR8G8B8A8UnormSrgb
	default:
		return TextureFormatInvalid
	}
}

func toWGPULoadOp(op LoadOp) wgpu.LoadOp {
	if op == LoadOpClear {
		return wgpu.LoadOpClear
	}
	return wgpu.LoadOpLoad
}

func toWGPUStoreOp(op StoreOp) wgpu.StoreOp {
	if op == StoreOpDontCare {
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpStore
}

func toWGPUIndexFormat(s IndexElementSize) wgpu.IndexFormat {
	if s == IndexElementSize16Bit {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}
