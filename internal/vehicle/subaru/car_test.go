package subaru

import (
	"context"
	"testing"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/command/loopback"
	"github.com/Speshl/gorrc_subaru/internal/config"
	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCarConfig() config.CarConfig {
	return config.CarConfig{
		CyclePeriod:          10 * time.Millisecond,
		RequestTimeout:       time.Second,
		DisableAutoStopStart: true,
		NoRadarSleep:         true,
	}
}

func newTestCar(t *testing.T, variant vehicle.Variant) (*Car, *loopback.CommandDriver, chan *models.RadarData) {
	t.Helper()
	driver := loopback.NewCommand(64)
	radarChannel := make(chan *models.RadarData, 16)
	car, err := NewCar(testCarConfig(), variant, testParams(t, variant), testTable(t, variant), driver,
		make(chan models.ControlRequest, 1), radarChannel)
	require.NoError(t, err)
	require.NoError(t, car.Init())
	car.start = time.Now()
	return car, driver, radarChannel
}

func writtenFrames(driver *loopback.CommandDriver, address uint32) []vehicle.BusFrame {
	var frames []vehicle.BusFrame
	for _, record := range driver.WriteLog() {
		if record.Frame.ID == address {
			frames = append(frames, record.BusFrame)
		}
	}
	return frames
}

func TestCarCycleSteers(t *testing.T) {
	car, driver, _ := newTestCar(t, globalStandard)
	d := testTable(t, globalStandard)

	car.input.Submit(models.ControlRequest{Enabled: true, Actuators: models.Actuators{Steer: 1}})
	require.NoError(t, car.cycle(0))

	steering := writtenFrames(driver, d.Address(MsgEsLkas))
	require.Len(t, steering, 1)
	assert.Equal(t, models.BusPT, steering[0].Bus)

	parser, err := dbc.NewParser(d, []dbc.MessageCheck{{Name: MsgEsLkas}})
	require.NoError(t, err)
	parser.Update(0, []can.Frame{steering[0].Frame})
	assert.Equal(t, 50.0, parser.Values(MsgEsLkas)["LKAS_Output"])
	assert.Equal(t, 1.0, parser.Values(MsgEsLkas)["LKAS_Request"])

	assert.Equal(t, uint64(1), car.Stats().Cycles)
}

func TestCarCycleForwardsCameraFrames(t *testing.T) {
	car, driver, _ := newTestCar(t, globalStandard)
	d := testTable(t, globalStandard)
	frames := newFramePacker(t, d)

	require.NoError(t, driver.Inject(models.BusPT, frames.frame(MsgDashlights, map[string]float64{"STOP_START_STATE": 0})))
	require.NoError(t, driver.Inject(models.BusCam, frames.frame(MsgEsDistance, map[string]float64{"Close_Distance": 80})))

	require.NoError(t, car.cycle(1))

	dash := writtenFrames(driver, d.Address(MsgDashlights))
	require.Len(t, dash, 1)
	assert.Equal(t, models.BusCam, dash[0].Bus)

	distance := writtenFrames(driver, d.Address(MsgEsDistance))
	require.Len(t, distance, 1)
	assert.Equal(t, models.BusPT, distance[0].Bus)

	// the camera batch is handed to the radar loop
	assert.Len(t, car.radarFrames, 1)
}

func TestCarStartRuns(t *testing.T) {
	car, driver, radarChannel := newTestCar(t, globalStandard)
	frames := newFramePacker(t, testTable(t, globalStandard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- car.Start(ctx)
	}()

	require.NoError(t, driver.Inject(models.BusCam, frames.frame(MsgEsDashStatus, map[string]float64{"Car_Follow": 1, "Far_Distance": 4})))
	require.NoError(t, driver.Inject(models.BusCam, frames.frame(MsgEsDistance, map[string]float64{"Close_Distance": 255})))

	select {
	case data := <-radarChannel:
		require.Len(t, data.Points, 2)
		assert.Equal(t, 20.0, data.Points[0].DRel)
	case <-time.After(2 * time.Second):
		t.Fatal("no radar data published")
	}

	assert.Eventually(t, func() bool { return car.Stats().Cycles > 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("car did not stop")
	}
}

func TestCarWithoutRadar(t *testing.T) {
	variant := globalStandard
	variant.RadarPresent = false
	car, _, radarChannel := newTestCar(t, variant)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := car.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// empty snapshots keep flowing without a sensor
	require.NotEmpty(t, radarChannel)
	data := <-radarChannel
	assert.Empty(t, data.Points)
}
