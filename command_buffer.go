package ecs

import "sync"

// CommandBuffer is a per-system deferred mutation log: systems append
// commands during their body, and the scheduler drains the buffer at the
// next barrier in a well-defined order (spec §3, §4.5). Buffers are
// pooled and reset between ticks rather than reallocated.
type CommandBuffer struct {
	mu       sync.Mutex
	commands []Command
}

var commandBufferPool = sync.Pool{
	New: func() any { return &CommandBuffer{} },
}

// AcquireCommandBuffer returns a reset buffer from the pool.
func AcquireCommandBuffer() *CommandBuffer {
	buf := commandBufferPool.Get().(*CommandBuffer)
	buf.commands = buf.commands[:0]
	return buf
}

// ReleaseCommandBuffer returns buf to the pool. Callers must not use buf
// after releasing it.
func ReleaseCommandBuffer(buf *CommandBuffer) {
	buf.commands = buf.commands[:0]
	commandBufferPool.Put(buf)
}

// Push appends a command for later application.
func (b *CommandBuffer) Push(cmd Command) {
	b.mu.Lock()
	b.commands = append(b.commands, cmd)
	b.mu.Unlock()
}

// Spawn is shorthand for Push(Spawn(target)).
func (b *CommandBuffer) Spawn(target *Entity) { b.Push(Spawn(target)) }

// Despawn is shorthand for Push(Despawn(id)).
func (b *CommandBuffer) Despawn(id Entity) { b.Push(Despawn(id)) }

// Len reports how many commands are currently queued.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.commands)
}

// Drain invokes fn for every queued command in append order, then clears
// the buffer. fn is expected to apply the command; Drain itself does not
// know about World so CommandBuffer stays reusable outside a single
// World's scope.
func (b *CommandBuffer) Drain(fn func(index int, cmd Command)) {
	b.mu.Lock()
	commands := b.commands
	b.commands = nil
	b.mu.Unlock()
	for i, cmd := range commands {
		fn(i, cmd)
	}
}
