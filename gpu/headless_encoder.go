package gpu

import (
	"errors"
	"fmt"
)

// Encoder state errors.
var (
	// ErrEncoderFinished is returned when recording into an encoder
	// after Finish.
	ErrEncoderFinished = errors.New("gpu: command encoder already finished")

	// ErrPassOpen is returned when the encoder is used while a pass is
	// still recording.
	ErrPassOpen = errors.New("gpu: a pass is still open on this encoder")

	// ErrPassEnded is returned when recording into a pass after End.
	ErrPassEnded = errors.New("gpu: pass already ended")
)

// CommandKind discriminates recorded commands.
type CommandKind int

// Recorded command kinds.
const (
	CmdBeginRenderPass CommandKind = iota
	CmdBeginComputePass
	CmdSetRenderPipeline
	CmdSetComputePipeline
	CmdSetBindGroup
	CmdSetVertexBuffer
	CmdSetIndexBuffer
	CmdSetViewport
	CmdSetScissorRect
	CmdDraw
	CmdDrawIndexed
	CmdDispatch
	CmdEndPass
	CmdCopyBufferToBuffer
	CmdCopyBufferToTexture
	CmdCopyTextureToBuffer
	CmdCopyTextureToTexture
	CmdWriteTimestamp
)

// RecordedCommand is one entry of a headless command stream. Fields
// are populated according to Kind; unused fields are zero.
type RecordedCommand struct {
	Kind CommandKind

	RenderPipeline  RenderPipelineID
	ComputePipeline ComputePipelineID
	BindGroup       BindGroupID
	GroupIndex      uint32
	DynamicOffsets  []uint32

	SrcBuffer  BufferID
	DstBuffer  BufferID
	SrcTexture TextureID
	DstTexture TextureID
	SrcOffset  uint64
	DstOffset  uint64
	Size       uint64

	Slot        uint32
	IndexFormat IndexFormat

	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
	IndexCount    uint32
	FirstIndex    uint32
	BaseVertex    int32

	GroupsX, GroupsY, GroupsZ uint32

	Viewport [6]float32
	Scissor  [4]uint32

	Hook TimestampHook

	RenderPass  *RenderPassDescriptor
	ComputePass *ComputePassDescriptor
}

// RecordedCommandBuffer is a finished headless recording.
type RecordedCommandBuffer struct {
	Label    string
	Commands []RecordedCommand
}

// headlessEncoder validates and records commands for the headless
// device. Encoders are single-goroutine by contract.
type headlessEncoder struct {
	device   *HeadlessDevice
	label    string
	commands []RecordedCommand
	finished bool
	passOpen bool
}

func (e *headlessEncoder) checkRecordable() error {
	if e.finished {
		return ErrEncoderFinished
	}
	if e.passOpen {
		return ErrPassOpen
	}
	return nil
}

func (e *headlessEncoder) BeginRenderPass(desc *RenderPassDescriptor) (RenderPassEncoder, error) {
	if err := e.checkRecordable(); err != nil {
		return nil, err
	}
	if desc == nil || len(desc.ColorAttachments) == 0 && desc.DepthStencilAttachment == nil {
		return nil, fmt.Errorf("%w: render pass needs at least one attachment", ErrInvalidDescriptor)
	}
	e.device.viewMu.RLock()
	for _, att := range desc.ColorAttachments {
		if _, ok := e.device.views[att.View]; !ok {
			e.device.viewMu.RUnlock()
			return nil, fmt.Errorf("%w: texture view %d", ErrNotFound, att.View)
		}
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		if _, ok := e.device.views[ds.View]; !ok {
			e.device.viewMu.RUnlock()
			return nil, fmt.Errorf("%w: texture view %d", ErrNotFound, ds.View)
		}
	}
	e.device.viewMu.RUnlock()

	e.passOpen = true
	e.commands = append(e.commands, RecordedCommand{Kind: CmdBeginRenderPass, RenderPass: desc})
	return &headlessRenderPass{encoder: e}, nil
}

func (e *headlessEncoder) BeginComputePass(desc *ComputePassDescriptor) (ComputePassEncoder, error) {
	if err := e.checkRecordable(); err != nil {
		return nil, err
	}
	e.passOpen = true
	e.commands = append(e.commands, RecordedCommand{Kind: CmdBeginComputePass, ComputePass: desc})
	return &headlessComputePass{encoder: e}, nil
}

func (e *headlessEncoder) CopyBufferToBuffer(src BufferID, srcOffset uint64, dst BufferID, dstOffset, size uint64) error {
	if err := e.checkRecordable(); err != nil {
		return err
	}
	e.device.bufferMu.RLock()
	srcBuf, srcOK := e.device.buffers[src]
	dstBuf, dstOK := e.device.buffers[dst]
	e.device.bufferMu.RUnlock()
	if !srcOK {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, src)
	}
	if !dstOK {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, dst)
	}
	if srcOffset+size > srcBuf.desc.Size || dstOffset+size > dstBuf.desc.Size {
		return fmt.Errorf("%w: buffer copy range", ErrOutOfBounds)
	}
	e.commands = append(e.commands, RecordedCommand{
		Kind:      CmdCopyBufferToBuffer,
		SrcBuffer: src, SrcOffset: srcOffset,
		DstBuffer: dst, DstOffset: dstOffset,
		Size: size,
	})
	return nil
}

func (e *headlessEncoder) CopyBufferToTexture(src BufferID, layout TextureDataLayout, dst TextureID, origin Origin3D, size Extent3D) error {
	if err := e.checkRecordable(); err != nil {
		return err
	}
	e.device.bufferMu.RLock()
	_, srcOK := e.device.buffers[src]
	e.device.bufferMu.RUnlock()
	if !srcOK {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, src)
	}
	e.device.textureMu.RLock()
	_, dstOK := e.device.textures[dst]
	e.device.textureMu.RUnlock()
	if !dstOK {
		return fmt.Errorf("%w: texture %d", ErrNotFound, dst)
	}
	e.commands = append(e.commands, RecordedCommand{
		Kind:      CmdCopyBufferToTexture,
		SrcBuffer: src, DstTexture: dst,
		SrcOffset: layout.Offset,
	})
	return nil
}

func (e *headlessEncoder) CopyTextureToBuffer(src TextureID, origin Origin3D, dst BufferID, layout TextureDataLayout, size Extent3D) error {
	if err := e.checkRecordable(); err != nil {
		return err
	}
	e.device.textureMu.RLock()
	_, srcOK := e.device.textures[src]
	e.device.textureMu.RUnlock()
	if !srcOK {
		return fmt.Errorf("%w: texture %d", ErrNotFound, src)
	}
	e.device.bufferMu.RLock()
	_, dstOK := e.device.buffers[dst]
	e.device.bufferMu.RUnlock()
	if !dstOK {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, dst)
	}
	e.commands = append(e.commands, RecordedCommand{
		Kind:       CmdCopyTextureToBuffer,
		SrcTexture: src, DstBuffer: dst,
		DstOffset: layout.Offset,
	})
	return nil
}

func (e *headlessEncoder) CopyTextureToTexture(src TextureID, srcOrigin Origin3D, dst TextureID, dstOrigin Origin3D, size Extent3D) error {
	if err := e.checkRecordable(); err != nil {
		return err
	}
	e.device.textureMu.RLock()
	_, srcOK := e.device.textures[src]
	_, dstOK := e.device.textures[dst]
	e.device.textureMu.RUnlock()
	if !srcOK {
		return fmt.Errorf("%w: texture %d", ErrNotFound, src)
	}
	if !dstOK {
		return fmt.Errorf("%w: texture %d", ErrNotFound, dst)
	}
	e.commands = append(e.commands, RecordedCommand{
		Kind:       CmdCopyTextureToTexture,
		SrcTexture: src, DstTexture: dst,
	})
	return nil
}

func (e *headlessEncoder) WriteTimestamp(hook TimestampHook) error {
	if err := e.checkRecordable(); err != nil {
		return err
	}
	e.commands = append(e.commands, RecordedCommand{Kind: CmdWriteTimestamp, Hook: hook})
	return nil
}

func (e *headlessEncoder) Finish() (CommandBufferID, error) {
	if e.finished {
		return InvalidID, ErrEncoderFinished
	}
	if e.passOpen {
		return InvalidID, ErrPassOpen
	}
	e.finished = true

	id := CommandBufferID(e.device.nextCommandBufID.Add(1))
	cb := &RecordedCommandBuffer{Label: e.label, Commands: e.commands}
	e.commands = nil

	e.device.submitMu.Lock()
	e.device.commandBuffers[id] = cb
	e.device.submitMu.Unlock()
	return id, nil
}

// headlessRenderPass records draw state into its parent encoder.
type headlessRenderPass struct {
	encoder *headlessEncoder
	ended   bool
}

func (p *headlessRenderPass) record(cmd RecordedCommand) error {
	if p.ended {
		return ErrPassEnded
	}
	p.encoder.commands = append(p.encoder.commands, cmd)
	return nil
}

func (p *headlessRenderPass) SetPipeline(id RenderPipelineID) error {
	if p.ended {
		return ErrPassEnded
	}
	d := p.encoder.device
	d.renderPipelineMu.RLock()
	_, ok := d.renderPipelines[id]
	d.renderPipelineMu.RUnlock()
	if !ok {
		return &InvalidRenderPipelineError{ID: id}
	}
	return p.record(RecordedCommand{Kind: CmdSetRenderPipeline, RenderPipeline: id})
}

func (p *headlessRenderPass) SetBindGroup(index uint32, group BindGroupID, dynamicOffsets []uint32) error {
	if p.ended {
		return ErrPassEnded
	}
	d := p.encoder.device
	d.bindGroupMu.RLock()
	_, ok := d.bindGroups[group]
	d.bindGroupMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: bind group %d", ErrNotFound, group)
	}
	return p.record(RecordedCommand{
		Kind: CmdSetBindGroup, BindGroup: group, GroupIndex: index,
		DynamicOffsets: append([]uint32(nil), dynamicOffsets...),
	})
}

func (p *headlessRenderPass) SetVertexBuffer(slot uint32, buffer BufferID, offset, size uint64) error {
	if p.ended {
		return ErrPassEnded
	}
	d := p.encoder.device
	d.bufferMu.RLock()
	_, ok := d.buffers[buffer]
	d.bufferMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, buffer)
	}
	return p.record(RecordedCommand{
		Kind: CmdSetVertexBuffer, Slot: slot, SrcBuffer: buffer,
		SrcOffset: offset, Size: size,
	})
}

func (p *headlessRenderPass) SetIndexBuffer(buffer BufferID, format IndexFormat, offset, size uint64) error {
	if p.ended {
		return ErrPassEnded
	}
	d := p.encoder.device
	d.bufferMu.RLock()
	_, ok := d.buffers[buffer]
	d.bufferMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, buffer)
	}
	return p.record(RecordedCommand{
		Kind: CmdSetIndexBuffer, SrcBuffer: buffer, IndexFormat: format,
		SrcOffset: offset, Size: size,
	})
}

func (p *headlessRenderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	_ = p.record(RecordedCommand{
		Kind:     CmdSetViewport,
		Viewport: [6]float32{x, y, width, height, minDepth, maxDepth},
	})
}

func (p *headlessRenderPass) SetScissorRect(x, y, width, height uint32) {
	_ = p.record(RecordedCommand{
		Kind:    CmdSetScissorRect,
		Scissor: [4]uint32{x, y, width, height},
	})
}

func (p *headlessRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	_ = p.record(RecordedCommand{
		Kind:        CmdDraw,
		VertexCount: vertexCount, InstanceCount: instanceCount,
		FirstVertex: firstVertex, FirstInstance: firstInstance,
	})
}

func (p *headlessRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	_ = p.record(RecordedCommand{
		Kind:       CmdDrawIndexed,
		IndexCount: indexCount, InstanceCount: instanceCount,
		FirstIndex: firstIndex, BaseVertex: baseVertex, FirstInstance: firstInstance,
	})
}

func (p *headlessRenderPass) End() error {
	if p.ended {
		return ErrPassEnded
	}
	p.ended = true
	p.encoder.passOpen = false
	p.encoder.commands = append(p.encoder.commands, RecordedCommand{Kind: CmdEndPass})
	return nil
}

// headlessComputePass records dispatch state into its parent encoder.
type headlessComputePass struct {
	encoder *headlessEncoder
	ended   bool
}

func (p *headlessComputePass) SetPipeline(id ComputePipelineID) error {
	if p.ended {
		return ErrPassEnded
	}
	d := p.encoder.device
	d.computePipelineMu.RLock()
	_, ok := d.computePipelines[id]
	d.computePipelineMu.RUnlock()
	if !ok {
		return &InvalidComputePipelineError{ID: id}
	}
	p.encoder.commands = append(p.encoder.commands, RecordedCommand{Kind: CmdSetComputePipeline, ComputePipeline: id})
	return nil
}

func (p *headlessComputePass) SetBindGroup(index uint32, group BindGroupID, dynamicOffsets []uint32) error {
	if p.ended {
		return ErrPassEnded
	}
	d := p.encoder.device
	d.bindGroupMu.RLock()
	_, ok := d.bindGroups[group]
	d.bindGroupMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: bind group %d", ErrNotFound, group)
	}
	p.encoder.commands = append(p.encoder.commands, RecordedCommand{
		Kind: CmdSetBindGroup, BindGroup: group, GroupIndex: index,
		DynamicOffsets: append([]uint32(nil), dynamicOffsets...),
	})
	return nil
}

func (p *headlessComputePass) Dispatch(x, y, z uint32) {
	if p.ended {
		return
	}
	p.encoder.commands = append(p.encoder.commands, RecordedCommand{
		Kind: CmdDispatch, GroupsX: x, GroupsY: y, GroupsZ: z,
	})
}

func (p *headlessComputePass) End() error {
	if p.ended {
		return ErrPassEnded
	}
	p.ended = true
	p.encoder.passOpen = false
	p.encoder.commands = append(p.encoder.commands, RecordedCommand{Kind: CmdEndPass})
	return nil
}

var _ Device = (*HeadlessDevice)(nil)
