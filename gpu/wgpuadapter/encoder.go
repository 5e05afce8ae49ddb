package wgpuadapter

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/quartzengine/quartz/gpu"
)

// commandEncoder adapts a hal encoder to the contract. Encoders are
// single-goroutine by contract, so no locking is needed here.
type commandEncoder struct {
	device  *Device
	label   string
	encoder hal.CommandEncoder
	err     error
	open    bool
}

func (e *commandEncoder) check() error {
	if e.err != nil {
		return &gpu.BackendError{Msg: e.err.Error()}
	}
	if e.open {
		return gpu.ErrPassOpen
	}
	return nil
}

func (e *commandEncoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) (gpu.RenderPassEncoder, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	if desc == nil || len(desc.ColorAttachments) == 0 && desc.DepthStencilAttachment == nil {
		return nil, fmt.Errorf("%w: render pass needs at least one attachment", gpu.ErrInvalidDescriptor)
	}

	halDesc := &hal.RenderPassDescriptor{Label: desc.Label}
	e.device.viewMu.RLock()
	for _, att := range desc.ColorAttachments {
		view, ok := e.device.views[att.View]
		if !ok {
			e.device.viewMu.RUnlock()
			return nil, fmt.Errorf("%w: texture view %d", gpu.ErrNotFound, att.View)
		}
		halAtt := hal.RenderPassColorAttachment{
			View:    view,
			LoadOp:  convertLoadOp(att.LoadOp),
			StoreOp: convertStoreOp(att.StoreOp),
			ClearValue: gputypes.Color{
				R: att.ClearValue.R,
				G: att.ClearValue.G,
				B: att.ClearValue.B,
				A: att.ClearValue.A,
			},
		}
		if att.ResolveTarget != gpu.InvalidID {
			resolve, ok := e.device.views[att.ResolveTarget]
			if !ok {
				e.device.viewMu.RUnlock()
				return nil, fmt.Errorf("%w: texture view %d", gpu.ErrNotFound, att.ResolveTarget)
			}
			halAtt.ResolveTarget = resolve
		}
		halDesc.ColorAttachments = append(halDesc.ColorAttachments, halAtt)
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		view, ok := e.device.views[ds.View]
		if !ok {
			e.device.viewMu.RUnlock()
			return nil, fmt.Errorf("%w: texture view %d", gpu.ErrNotFound, ds.View)
		}
		halDesc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       convertLoadOp(ds.DepthLoadOp),
			DepthStoreOp:      convertStoreOp(ds.DepthStoreOp),
			DepthClearValue:   ds.DepthClearValue,
			StencilLoadOp:     convertLoadOp(ds.StencilLoadOp),
			StencilStoreOp:    convertStoreOp(ds.StencilStoreOp),
			StencilClearValue: ds.StencilClearValue,
		}
	}
	e.device.viewMu.RUnlock()

	rp := e.encoder.BeginRenderPass(halDesc)
	e.open = true
	return &renderPass{encoder: e, pass: rp}, nil
}

func (e *commandEncoder) BeginComputePass(desc *gpu.ComputePassDescriptor) (gpu.ComputePassEncoder, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	label := ""
	if desc != nil {
		label = desc.Label
	}
	pass := e.encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: label})
	e.open = true
	return &computePass{encoder: e, pass: pass}, nil
}

func (e *commandEncoder) CopyBufferToBuffer(src gpu.BufferID, srcOffset uint64, dst gpu.BufferID, dstOffset, size uint64) error {
	if err := e.check(); err != nil {
		return err
	}
	srcEntry, ok := e.device.buffer(src)
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, src)
	}
	dstEntry, ok := e.device.buffer(dst)
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, dst)
	}
	if srcOffset+size > srcEntry.size || dstOffset+size > dstEntry.size {
		return fmt.Errorf("%w: buffer copy range", gpu.ErrOutOfBounds)
	}
	e.encoder.CopyBufferToBuffer(srcEntry.buffer, dstEntry.buffer, []hal.BufferCopy{
		{SrcOffset: srcOffset, DstOffset: dstOffset, Size: size},
	})
	return nil
}

func (e *commandEncoder) CopyBufferToTexture(src gpu.BufferID, layout gpu.TextureDataLayout, dst gpu.TextureID, origin gpu.Origin3D, size gpu.Extent3D) error {
	if err := e.check(); err != nil {
		return err
	}
	// The hal does not expose a buffer-to-texture encoder copy yet;
	// queue-side WriteTexture covers the upload path.
	return &gpu.BackendError{Msg: "buffer-to-texture copies are not exposed by this backend"}
}

func (e *commandEncoder) CopyTextureToBuffer(src gpu.TextureID, origin gpu.Origin3D, dst gpu.BufferID, layout gpu.TextureDataLayout, size gpu.Extent3D) error {
	if err := e.check(); err != nil {
		return err
	}
	e.device.textureMu.RLock()
	srcEntry, ok := e.device.textures[src]
	e.device.textureMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrNotFound, src)
	}
	dstEntry, ok := e.device.buffer(dst)
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, dst)
	}
	e.encoder.CopyTextureToBuffer(srcEntry.texture, dstEntry.buffer, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       layout.Offset,
			BytesPerRow:  layout.BytesPerRow,
			RowsPerImage: layout.RowsPerImage,
		},
		TextureBase: hal.ImageCopyTexture{Texture: srcEntry.texture, MipLevel: 0},
		Size: hal.Extent3D{
			Width:              size.Width,
			Height:             size.Height,
			DepthOrArrayLayers: size.DepthOrArrayLayers,
		},
	}})
	return nil
}

func (e *commandEncoder) CopyTextureToTexture(src gpu.TextureID, srcOrigin gpu.Origin3D, dst gpu.TextureID, dstOrigin gpu.Origin3D, size gpu.Extent3D) error {
	if err := e.check(); err != nil {
		return err
	}
	// Texture-to-texture blits are not exposed by the hal yet.
	return &gpu.BackendError{Msg: "texture-to-texture copies are not exposed by this backend"}
}

func (e *commandEncoder) WriteTimestamp(hook gpu.TimestampHook) error {
	if err := e.check(); err != nil {
		return err
	}
	// Timestamp queries are not exposed by the hal; the hook is
	// accepted and dropped so telemetry code stays backend-agnostic.
	return nil
}

func (e *commandEncoder) Finish() (gpu.CommandBufferID, error) {
	if e.err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: e.err.Error()}
	}
	if e.open {
		return gpu.InvalidID, gpu.ErrPassOpen
	}

	cb, err := e.encoder.EndEncoding()
	if err != nil {
		e.err = err
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}
	e.err = gpu.ErrEncoderFinished

	id := gpu.CommandBufferID(e.device.newID())
	e.device.submitMu.Lock()
	e.device.commandBuffers[id] = cb
	e.device.submitMu.Unlock()
	return id, nil
}

// renderPass adapts a hal render pass encoder.
type renderPass struct {
	encoder *commandEncoder
	pass    hal.RenderPassEncoder
	ended   bool
}

func (p *renderPass) SetPipeline(id gpu.RenderPipelineID) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	d := p.encoder.device
	d.renderPipelineMu.RLock()
	pipeline, ok := d.renderPipelines[id]
	d.renderPipelineMu.RUnlock()
	if !ok {
		return &gpu.InvalidRenderPipelineError{ID: id}
	}
	p.pass.SetPipeline(pipeline)
	return nil
}

func (p *renderPass) SetBindGroup(index uint32, group gpu.BindGroupID, dynamicOffsets []uint32) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	d := p.encoder.device
	d.bindGroupMu.RLock()
	bg, ok := d.bindGroups[group]
	d.bindGroupMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: bind group %d", gpu.ErrNotFound, group)
	}
	p.pass.SetBindGroup(index, bg, dynamicOffsets)
	return nil
}

func (p *renderPass) SetVertexBuffer(slot uint32, buffer gpu.BufferID, offset, size uint64) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	entry, ok := p.encoder.device.buffer(buffer)
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, buffer)
	}
	p.pass.SetVertexBuffer(slot, entry.buffer, offset)
	return nil
}

func (p *renderPass) SetIndexBuffer(buffer gpu.BufferID, format gpu.IndexFormat, offset, size uint64) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	if _, ok := p.encoder.device.buffer(buffer); !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, buffer)
	}
	// Indexed drawing is not exposed by the hal render pass yet.
	return &gpu.BackendError{Msg: "index buffers are not exposed by this backend"}
}

func (p *renderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	// The hal derives the viewport from the pass attachments.
}

func (p *renderPass) SetScissorRect(x, y, width, height uint32) {
	// Scissor state is not exposed by the hal render pass.
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if p.ended {
		return
	}
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	// Indexed drawing is not exposed by the hal render pass; see
	// SetIndexBuffer.
}

func (p *renderPass) End() error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	p.ended = true
	p.encoder.open = false
	p.pass.End()
	return nil
}

// computePass adapts a hal compute pass encoder.
type computePass struct {
	encoder *commandEncoder
	pass    hal.ComputePassEncoder
	ended   bool
}

func (p *computePass) SetPipeline(id gpu.ComputePipelineID) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	d := p.encoder.device
	d.computePipelineMu.RLock()
	pipeline, ok := d.computePipelines[id]
	d.computePipelineMu.RUnlock()
	if !ok {
		return &gpu.InvalidComputePipelineError{ID: id}
	}
	p.pass.SetPipeline(pipeline)
	return nil
}

func (p *computePass) SetBindGroup(index uint32, group gpu.BindGroupID, dynamicOffsets []uint32) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	d := p.encoder.device
	d.bindGroupMu.RLock()
	bg, ok := d.bindGroups[group]
	d.bindGroupMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: bind group %d", gpu.ErrNotFound, group)
	}
	p.pass.SetBindGroup(index, bg, dynamicOffsets)
	return nil
}

func (p *computePass) Dispatch(x, y, z uint32) {
	if p.ended {
		return
	}
	p.pass.Dispatch(x, y, z)
}

func (p *computePass) End() error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	p.ended = true
	p.encoder.open = false
	p.pass.End()
	return nil
}
