package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandBufferDrainsInPushOrder(t *testing.T) {
	buf := AcquireCommandBuffer()
	defer ReleaseCommandBuffer(buf)

	var order []int
	buf.Push(recordingCommand{n: 1, record: &order})
	buf.Push(recordingCommand{n: 2, record: &order})
	buf.Push(recordingCommand{n: 3, record: &order})

	buf.Drain(func(i int, cmd Command) {
		_ = cmd.Apply(nil)
	})
	require.Equal(t, []int{1, 2, 3}, order)
	require.Equal(t, 0, buf.Len())
}

func TestCommandBufferReuseResetsState(t *testing.T) {
	buf := AcquireCommandBuffer()
	buf.Push(Spawn(nil))
	require.Equal(t, 1, buf.Len())
	ReleaseCommandBuffer(buf)

	buf2 := AcquireCommandBuffer()
	require.Equal(t, 0, buf2.Len())
	ReleaseCommandBuffer(buf2)
}

type recordingCommand struct {
	n      int
	record *[]int
}

func (c recordingCommand) Apply(*World) error {
	*c.record = append(*c.record, c.n)
	return nil
}
