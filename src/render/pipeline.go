package render

import (
	"encoding/binary"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// PipelineConfig is the shader binary collaborator contract: SPIR-V
// module bytes in, pipeline handle out. The vertex stage is expected
// to synthesize its geometry from the vertex index; no vertex buffers
// are bound.
type PipelineConfig struct {
	VertexShader   []byte
	FragmentShader []byte

	ColorFormat vk.Format
	DepthFormat vk.Format
	SampleCount vk.SampleCountFlagBits
	Width       uint32
	Height      uint32
}

// pushConstantSize is one column-major mat4 handed to the vertex
// stage.
const pushConstantSize = 64

func newShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error) {
	words, err := sliceUint32(code)
	if err != nil {
		return vk.NullShaderModule, err
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module)
	if IsError(ret) {
		return vk.NullShaderModule, NewError(ret)
	}
	return module, nil
}

func sliceUint32(data []byte) ([]uint32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a positive multiple of 4", len(data))
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out, nil
}

// newRenderPass builds the single-subpass colour+depth pass. The
// colour attachment finishes in colour-attachment layout: the XR
// compositor consumes the image, there is no present engine.
func newRenderPass(device vk.Device, cfg *PipelineConfig) (vk.RenderPass, error) {
	attachments := []vk.AttachmentDescription{{
		Format:         cfg.ColorFormat,
		Samples:        cfg.SampleCount,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
	}, {
		Format:         cfg.DepthFormat,
		Samples:        cfg.SampleCount,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}}

	colorRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	depthRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	var renderPass vk.RenderPass
	ret := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses: []vk.SubpassDescription{{
			PipelineBindPoint:       vk.PipelineBindPointGraphics,
			ColorAttachmentCount:    1,
			PColorAttachments:       []vk.AttachmentReference{colorRef},
			PDepthStencilAttachment: &depthRef,
		}},
		DependencyCount: 1,
		PDependencies: []vk.SubpassDependency{{
			SrcSubpass: vk.SubpassExternal,
			DstSubpass: 0,
			SrcStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
				vk.PipelineStageEarlyFragmentTestsBit),
			SrcAccessMask: 0,
			DstStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
				vk.PipelineStageEarlyFragmentTestsBit),
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit |
				vk.AccessDepthStencilAttachmentWriteBit),
		}},
	}, nil, &renderPass)
	if IsError(ret) {
		return vk.NullRenderPass, NewError(ret)
	}
	return renderPass, nil
}

func newPipeline(device vk.Device, renderPass vk.RenderPass, cfg *PipelineConfig) (vk.PipelineLayout, vk.Pipeline, error) {
	nullLayout := vk.NullPipelineLayout
	nullPipeline := vk.NullPipeline

	vertModule, err := newShaderModule(device, cfg.VertexShader)
	if err != nil {
		return nullLayout, nullPipeline, fmt.Errorf("vertex shader: %w", err)
	}
	defer vk.DestroyShaderModule(device, vertModule, nil)
	fragModule, err := newShaderModule(device, cfg.FragmentShader)
	if err != nil {
		return nullLayout, nullPipeline, fmt.Errorf("fragment shader: %w", err)
	}
	defer vk.DestroyShaderModule(device, fragModule, nil)

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			Offset:     0,
			Size:       pushConstantSize,
		}},
	}, nil, &layout)
	if IsError(ret) {
		return nullLayout, nullPipeline, NewError(ret)
	}

	entry := safeString("main")
	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: 2,
		PStages: []vk.PipelineShaderStageCreateInfo{{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertModule,
			PName:  entry,
		}, {
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragModule,
			PName:  entry,
		}},
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopologyTriangleList,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			PViewports: []vk.Viewport{{
				Width:    float32(cfg.Width),
				Height:   float32(cfg.Height),
				MinDepth: 0,
				MaxDepth: 1,
			}},
			ScissorCount: 1,
			PScissors: []vk.Rect2D{{
				Extent: vk.Extent2D{Width: cfg.Width, Height: cfg.Height},
			}},
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeNone),
			FrontFace:   vk.FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: cfg.SampleCount,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  vk.True,
			DepthWriteEnable: vk.True,
			DepthCompareOp:   vk.CompareOpLess,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit |
					vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
			}},
		},
		Layout:     layout,
		RenderPass: renderPass,
		Subpass:    0,
	}

	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateGraphicsPipelines(device, vk.NullPipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{pipelineInfo}, nil, pipelines)
	if IsError(ret) {
		vk.DestroyPipelineLayout(device, layout, nil)
		return nullLayout, nullPipeline, NewError(ret)
	}
	return layout, pipelines[0], nil
}
