package dbc

import (
	"testing"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForVariant(t *testing.T) {
	d, err := ForVariant(vehicle.Variant{Generation: vehicle.GenerationGlobal, TorqueClass: vehicle.TorqueClassStandard})
	require.NoError(t, err)
	assert.Equal(t, Global, d)

	d, err = ForVariant(vehicle.Variant{Generation: vehicle.GenerationPreGlobal, TorqueClass: vehicle.TorqueClassStandard})
	require.NoError(t, err)
	assert.Equal(t, PreGlobal, d)

	_, err = ForVariant(vehicle.Variant{})
	assert.ErrorIs(t, err, vehicle.ErrUnknownGeneration)
}

func TestSignalSignedEncoding(t *testing.T) {
	msg, err := Global.Message("ES_LKAS")
	require.NoError(t, err)
	sig, ok := msg.Signal("LKAS_Output")
	require.True(t, ok)

	word := sig.Encode(0, 1234)
	assert.Equal(t, float64(1234), sig.Decode(word))
	assert.Equal(t, int64(-1234), sig.Raw(word))

	word = sig.Encode(0, -4095)
	assert.Equal(t, float64(-4095), sig.Decode(word))

	// saturates at the 13 bit signed range
	word = sig.Encode(0, 5000)
	assert.Equal(t, int64(-4096), sig.Raw(word))
}

func TestSubaruChecksum(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, byte(0x3F), subaruChecksum(0x122, data))
	assert.Equal(t, byte(21), subaruPreGlobalChecksum(data))
}

func TestPackerParserRoundTrip(t *testing.T) {
	packer := NewPacker(Global)
	frame, err := packer.Pack(models.CanMessage{
		Name: "ES_LKAS",
		Bus:  models.BusPT,
		Values: map[string]float64{
			"Counter":      3,
			"LKAS_Output":  -50,
			"LKAS_Request": 1,
			"SET_1":        1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.BusPT, frame.Bus)
	assert.Equal(t, uint32(0x122), frame.Frame.ID)
	assert.Equal(t, uint8(8), frame.Frame.Length)
	assert.Equal(t, subaruChecksum(0x122, frame.Frame.Data[:]), frame.Frame.Data[0])

	parser, err := NewParser(Global, []MessageCheck{{Name: "ES_LKAS", Frequency: 50}})
	require.NoError(t, err)

	updated := parser.Update(0, []can.Frame{frame.Frame})
	assert.Equal(t, []uint32{0x122}, updated)
	assert.True(t, parser.CanValid())

	values := parser.Values("ES_LKAS")
	assert.Equal(t, float64(3), values["Counter"])
	assert.Equal(t, float64(-50), values["LKAS_Output"])
	assert.Equal(t, float64(1), values["LKAS_Request"])
	assert.Equal(t, float64(1), values["SET_1"])
}

func TestPackerAutoCounter(t *testing.T) {
	packer := NewPacker(PreGlobal)
	for i := 0; i < 10; i++ {
		frame, err := packer.Pack(models.CanMessage{Name: "ES_LKAS", Values: map[string]float64{"LKAS_Command": 10}})
		require.NoError(t, err)
		msg, _ := PreGlobal.Message("ES_LKAS")
		counter, _ := msg.Signal("Counter")
		assert.Equal(t, int64(i%8), counter.Raw(wordFromBytes(frame.Frame.Data[:])))
		assert.Equal(t, subaruPreGlobalChecksum(frame.Frame.Data[:]), frame.Frame.Data[7])
	}
}

func TestPackerUnknown(t *testing.T) {
	packer := NewPacker(Global)
	_, err := packer.Pack(models.CanMessage{Name: "Nope"})
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = packer.Pack(models.CanMessage{Name: "ES_LKAS", Values: map[string]float64{"Nope": 1}})
	assert.ErrorIs(t, err, ErrUnknownSignal)

	_, err = NewParser(Global, []MessageCheck{{Name: "Nope"}})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestParserRejectsBadChecksum(t *testing.T) {
	packer := NewPacker(Global)
	frame, err := packer.Pack(models.CanMessage{Name: "ES_Distance", Values: map[string]float64{"Close_Distance": 40}})
	require.NoError(t, err)
	frame.Frame.Data[0]++

	parser, err := NewParser(Global, []MessageCheck{{Name: "ES_Distance", Frequency: 20}})
	require.NoError(t, err)

	assert.Empty(t, parser.Update(0, []can.Frame{frame.Frame}))
	assert.False(t, parser.Seen("ES_Distance"))
	assert.False(t, parser.CanValid())
}

func TestParserTimeout(t *testing.T) {
	packer := NewPacker(Global)
	parser, err := NewParser(Global, []MessageCheck{{Name: "ES_Distance", Frequency: 20}})
	require.NoError(t, err)

	frame, err := packer.Pack(models.CanMessage{Name: "ES_Distance"})
	require.NoError(t, err)
	parser.Update(0, []can.Frame{frame.Frame})
	assert.True(t, parser.CanValid())

	parser.Update(400*time.Millisecond, nil)
	assert.True(t, parser.CanValid())

	parser.Update(501*time.Millisecond, nil)
	assert.False(t, parser.CanValid())
}

func TestParserCounterFailures(t *testing.T) {
	packer := NewPacker(Global)
	parser, err := NewParser(Global, []MessageCheck{{Name: "ES_Distance", Frequency: 20}})
	require.NoError(t, err)

	frame, err := packer.Pack(models.CanMessage{Name: "ES_Distance", Values: map[string]float64{"Counter": 7}})
	require.NoError(t, err)

	now := time.Duration(0)
	parser.Update(now, []can.Frame{frame.Frame})
	for i := 0; i < maxBadCounter-1; i++ {
		now += 50 * time.Millisecond
		parser.Update(now, []can.Frame{frame.Frame})
		assert.True(t, parser.CanValid())
	}
	now += 50 * time.Millisecond
	parser.Update(now, []can.Frame{frame.Frame})
	assert.False(t, parser.CanValid())

	// a good sequence recovers
	for i := 0; i < maxBadCounter; i++ {
		next, err := packer.Pack(models.CanMessage{Name: "ES_Distance", Values: map[string]float64{"Counter": float64((8 + i) % 16)}})
		require.NoError(t, err)
		now += 50 * time.Millisecond
		parser.Update(now, []can.Frame{next.Frame})
	}
	assert.True(t, parser.CanValid())
}
