package loopback

import (
	"context"
	"testing"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLog(t *testing.T) {
	c := NewCommand(4)
	require.NoError(t, c.Init())

	err := c.SetMany([]vehicle.BusFrame{
		{Bus: models.BusPT, Frame: can.Frame{ID: 0x122, Length: 8}},
		{Bus: models.BusCam, Frame: can.Frame{ID: 0x40, Length: 8}},
	})
	require.NoError(t, err)

	log := c.WriteLog()
	require.Len(t, log, 2)
	assert.Equal(t, uint32(0x122), log[0].Frame.ID)
	assert.Equal(t, models.BusCam, log[1].Bus)

	assert.Error(t, c.Set(vehicle.BusFrame{Bus: 7}))

	c.ClearWriteLog()
	assert.Empty(t, c.WriteLog())
}

func TestInject(t *testing.T) {
	c := NewCommand(1)

	require.NoError(t, c.Inject(models.BusCam, can.Frame{ID: 0x221}))
	assert.Error(t, c.Inject(models.BusCam, can.Frame{ID: 0x221}))
	assert.Error(t, c.Inject(9, can.Frame{}))

	frame := <-c.RxChan(models.BusCam)
	assert.Equal(t, uint32(0x221), frame.ID)
	assert.Nil(t, c.RxChan(9))
}

func TestStart(t *testing.T) {
	c := NewCommand(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Start(ctx), context.DeadlineExceeded)
	assert.NoError(t, c.Stop())
}
