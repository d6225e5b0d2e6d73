package subaru

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/config"
	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
	"golang.org/x/sync/errgroup"
)

func NewCar(cfg config.CarConfig, variant vehicle.Variant, params vehicle.Params, d *dbc.DBC, commandDriver vehicle.CommandDriverIFace,
	requestChannel chan models.ControlRequest, radarChannel chan *models.RadarData) (*Car, error) {
	log.Printf("setting up car %s\n", variant)

	params.DisableAutoStopStart = cfg.DisableAutoStopStart

	controller, err := NewCarController(variant, params, d)
	if err != nil {
		return nil, err
	}
	carState, err := NewCarStateParser(variant, d)
	if err != nil {
		return nil, err
	}
	radar, err := NewRadarInterface(variant, params, d, cfg.NoRadarSleep)
	if err != nil {
		return nil, err
	}

	return &Car{
		cfg:           cfg,
		variant:       variant,
		params:        params,
		commandDriver: commandDriver,
		input:         vehicle.NewControlInput(requestChannel, cfg.RequestTimeout),
		carState:      carState,
		controller:    controller,
		radar:         radar,
		packer:        dbc.NewPacker(d),
		radarFrames:   make(chan []can.Frame, radarFrameBuffer),
		radarChannel:  radarChannel,
	}, nil
}

func (c *Car) Init() error {
	err := c.commandDriver.Init()
	if err != nil {
		return fmt.Errorf("error: failed initializing car bus interface: %w", err)
	}
	return nil
}

func (c *Car) Stop() error {
	log.Println("stopping car")
	err := c.commandDriver.Stop()
	if err != nil {
		return fmt.Errorf("error: failed stopping bus driver: %w", err)
	}
	return nil
}

func (c *Car) Start(ctx context.Context) error {
	log.Println("starting car")
	errGroup, errGroupCtx := errgroup.WithContext(ctx)

	defer c.Stop()

	c.start = time.Now()

	errGroup.Go(func() error {
		return c.commandDriver.Start(errGroupCtx)
	})

	errGroup.Go(func() error {
		return c.input.Start(errGroupCtx)
	})

	errGroup.Go(func() error {
		return c.runRadar(errGroupCtx)
	})

	errGroup.Go(func() error {
		cycleTicker := time.NewTicker(c.cfg.CyclePeriod)
		defer cycleTicker.Stop()
		frame := 0
		for {
			select {
			case <-errGroupCtx.Done():
				log.Printf("stopping car control loop: %s\n", errGroupCtx.Err().Error())
				return errGroupCtx.Err()
			case <-cycleTicker.C:
				err := c.cycle(frame)
				if err != nil {
					return fmt.Errorf("failed running control cycle %d: %w", frame, err)
				}
				frame++
			}
		}
	})

	err := errGroup.Wait()
	if err != nil {
		return fmt.Errorf("car error group closed: %w", err)
	}
	return nil
}

// cycle runs one control step: read both buses, update the car state, encode
// the latest request and send the result.
func (c *Car) cycle(frame int) error {
	cycleStart := time.Now()

	ptFrames := drain(c.commandDriver.RxChan(models.BusPT))
	camFrames := drain(c.commandDriver.RxChan(models.BusCam))

	cs := c.carState.Update(time.Since(c.start), ptFrames, camFrames)
	request := c.input.Latest()

	msgs := c.controller.Update(request.Enabled, &cs, frame, request.Actuators, request.CruiseCancel, request.VisualAlert, request.Lanes)
	frames, err := c.packer.PackMany(msgs)
	if err != nil {
		// nothing is sent for a cycle that failed to pack
		log.Printf("failed packing cycle %d: %s\n", frame, err.Error())
		c.lock.Lock()
		c.stats.PackFailures++
		c.lock.Unlock()
	} else {
		err = c.commandDriver.SetMany(frames)
		if err != nil {
			return fmt.Errorf("failed sending car frames: %w", err)
		}
	}

	if c.variant.RadarPresent && len(camFrames) > 0 {
		select {
		case c.radarFrames <- camFrames:
		default:
			c.lock.Lock()
			c.stats.RadarDropped++
			c.lock.Unlock()
		}
	}

	c.recordCycle(time.Since(cycleStart))
	return nil
}

func (c *Car) runRadar(ctx context.Context) error {
	for {
		var data *models.RadarData
		if c.variant.RadarPresent {
			select {
			case <-ctx.Done():
				log.Printf("stopping radar loop: %s\n", ctx.Err().Error())
				return ctx.Err()
			case frames := <-c.radarFrames:
				data = c.radar.Update(time.Since(c.start), frames)
			}
		} else {
			if ctx.Err() != nil {
				log.Printf("stopping radar loop: %s\n", ctx.Err().Error())
				return ctx.Err()
			}
			data = c.radar.Update(time.Since(c.start), nil)
			if c.cfg.NoRadarSleep {
				// nothing paces the loop without the sleep
				select {
				case <-ctx.Done():
				case <-time.After(c.cfg.CyclePeriod):
				}
			}
		}

		if data == nil {
			continue
		}
		c.publishRadar(data)
	}
}

func (c *Car) publishRadar(data *models.RadarData) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.stats.RadarUpdates++
	if c.radarChannel == nil {
		return
	}
	select {
	case c.radarChannel <- data:
	default:
		c.stats.RadarDropped++
	}
}

func (c *Car) recordCycle(duration time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.stats.Cycles++
	c.stats.LastDuration = duration
	if duration > c.stats.MaxDuration {
		c.stats.MaxDuration = duration
	}
	if duration > c.cfg.CyclePeriod {
		c.stats.Overruns++
	}
}

func (c *Car) Stats() CycleStats {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.stats
}

func (c *Car) Controller() *CarController {
	return c.controller
}

func drain(rx <-chan can.Frame) []can.Frame {
	if rx == nil {
		return nil
	}
	frames := make([]can.Frame, 0, len(rx))
	for {
		select {
		case frame := <-rx:
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}
