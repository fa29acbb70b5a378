package render

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// Renderer records and submits the work for one eye at a time against
// whichever colour/depth image pair the runtime handed out, then
// blocks on a fence until the GPU is done. One command buffer and one
// fence are reused for every view: each eye renders to completion
// before the next starts. The host-side stall per view per frame is a
// known cost of the minimal pipeline; a production engine would
// double-buffer fences instead.
type Renderer struct {
	dev *Device

	renderPass vk.RenderPass
	layout     vk.PipelineLayout
	pipeline   vk.Pipeline

	cmdPool vk.CommandPool
	cmd     vk.CommandBuffer
	fence   vk.Fence

	width  uint32
	height uint32

	// framebuffers are cached per (colour, depth) image-view pair;
	// the set is bounded by the two swapchains' image counts.
	framebuffers map[[2]vk.ImageView]vk.Framebuffer
}

// NewRenderer builds the render pass, the fixed pipeline and the
// submission plumbing on an already-created device.
func NewRenderer(dev *Device, cfg *PipelineConfig) (*Renderer, error) {
	r := &Renderer{
		dev:          dev,
		width:        cfg.Width,
		height:       cfg.Height,
		framebuffers: make(map[[2]vk.ImageView]vk.Framebuffer),
	}

	var err error
	r.renderPass, err = newRenderPass(dev.Device, cfg)
	if err != nil {
		return nil, err
	}
	r.layout, r.pipeline, err = newPipeline(dev.Device, r.renderPass, cfg)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	ret := vk.CreateCommandPool(dev.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dev.QueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &r.cmdPool)
	if IsError(ret) {
		r.Destroy()
		return nil, NewError(ret)
	}

	cmds := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(dev.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        r.cmdPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmds)
	if IsError(ret) {
		r.Destroy()
		return nil, NewError(ret)
	}
	r.cmd = cmds[0]

	ret = vk.CreateFence(dev.Device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &r.fence)
	if IsError(ret) {
		r.Destroy()
		return nil, NewError(ret)
	}
	return r, nil
}

func (r *Renderer) framebuffer(color, depth vk.ImageView) (vk.Framebuffer, error) {
	key := [2]vk.ImageView{color, depth}
	if fb, ok := r.framebuffers[key]; ok {
		return fb, nil
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(r.dev.Device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      r.renderPass,
		AttachmentCount: 2,
		PAttachments:    []vk.ImageView{color, depth},
		Width:           r.width,
		Height:          r.height,
		Layers:          1,
	}, nil, &fb)
	if IsError(ret) {
		return vk.NullFramebuffer, NewError(ret)
	}
	r.framebuffers[key] = fb
	return fb, nil
}

// RenderView draws the fixed triangle into the given image pair with
// the supplied view-projection matrix and waits for completion.
func (r *Renderer) RenderView(color, depth vk.ImageView, viewProj mgl32.Mat4) error {
	fb, err := r.framebuffer(color, depth)
	if err != nil {
		return err
	}

	ret := vk.ResetCommandBuffer(r.cmd, 0)
	if IsError(ret) {
		return NewError(ret)
	}
	ret = vk.BeginCommandBuffer(r.cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if IsError(ret) {
		return NewError(ret)
	}

	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0.0, 0.0, 0.05, 1.0}),
		vk.NewClearDepthStencil(1.0, 0),
	}
	vk.CmdBeginRenderPass(r.cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  r.renderPass,
		Framebuffer: fb,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{Width: r.width, Height: r.height},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	vk.CmdBindPipeline(r.cmd, vk.PipelineBindPointGraphics, r.pipeline)
	vk.CmdPushConstants(r.cmd, r.layout, vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		0, pushConstantSize, unsafe.Pointer(&viewProj[0]))
	vk.CmdDraw(r.cmd, 3, 1, 0, 0)
	vk.CmdEndRenderPass(r.cmd)

	ret = vk.EndCommandBuffer(r.cmd)
	if IsError(ret) {
		return NewError(ret)
	}

	ret = vk.QueueSubmit(r.dev.Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{r.cmd},
	}}, r.fence)
	if IsError(ret) {
		return NewError(ret)
	}

	ret = vk.WaitForFences(r.dev.Device, 1, []vk.Fence{r.fence}, vk.True, vk.MaxUint64)
	if IsError(ret) {
		return NewError(ret)
	}
	ret = vk.ResetFences(r.dev.Device, 1, []vk.Fence{r.fence})
	if IsError(ret) {
		return NewError(ret)
	}
	return nil
}

func (r *Renderer) Destroy() {
	if r.dev == nil || r.dev.Device == nil {
		return
	}
	vk.DeviceWaitIdle(r.dev.Device)
	for _, fb := range r.framebuffers {
		vk.DestroyFramebuffer(r.dev.Device, fb, nil)
	}
	r.framebuffers = make(map[[2]vk.ImageView]vk.Framebuffer)
	if r.fence != vk.NullFence {
		vk.DestroyFence(r.dev.Device, r.fence, nil)
		r.fence = vk.NullFence
	}
	if r.cmdPool != vk.NullCommandPool {
		vk.DestroyCommandPool(r.dev.Device, r.cmdPool, nil)
		r.cmdPool = vk.NullCommandPool
	}
	if r.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(r.dev.Device, r.pipeline, nil)
		r.pipeline = vk.NullPipeline
	}
	if r.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(r.dev.Device, r.layout, nil)
		r.layout = vk.NullPipelineLayout
	}
	if r.renderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(r.dev.Device, r.renderPass, nil)
		r.renderPass = vk.NullRenderPass
	}
}
