package socketcan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Speshl/gorrc_subaru/internal/config"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownBus = errors.New("unknown bus")

type Bus struct {
	index int
	name  string
	bus   *can.Bus
	rx    chan can.Frame

	dropped uint64
}

type CommandDriver struct {
	cfg config.BusConfig

	lock     sync.Mutex
	buses    map[int]*Bus
	stopOnce sync.Once
}

func NewCommand(cfg config.BusConfig) *CommandDriver {
	return &CommandDriver{
		cfg: cfg,
	}
}

func (c *CommandDriver) Init() error {
	names := map[int]string{
		models.BusPT:  c.cfg.PTBus,
		models.BusAlt: c.cfg.AltBus,
		models.BusCam: c.cfg.CamBus,
	}

	buses := make(map[int]*Bus, len(names))
	for index, name := range names {
		if name == "" {
			continue
		}
		canBus, err := can.NewBusForInterfaceWithName(name)
		if err != nil {
			return fmt.Errorf("failed opening bus %d on %s: %w", index, name, err)
		}

		b := &Bus{
			index: index,
			name:  name,
			bus:   canBus,
			rx:    make(chan can.Frame, c.cfg.RxBuffer),
		}
		canBus.SubscribeFunc(b.receive)
		buses[index] = b
		log.Printf("bus added: %d on %s\n", index, name)
	}

	c.lock.Lock()
	c.buses = buses
	c.lock.Unlock()
	return nil
}

// receive never blocks the bus reader; a full buffer drops the frame.
func (b *Bus) receive(frame can.Frame) {
	select {
	case b.rx <- frame:
	default:
		b.dropped++
		if b.dropped%100 == 1 {
			log.Printf("bus %s rx buffer full, %d frames dropped\n", b.name, b.dropped)
		}
	}
}

func (c *CommandDriver) Start(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, b := range c.buses {
		bus := b
		group.Go(func() error {
			log.Printf("starting bus %s\n", bus.name)
			err := bus.bus.ConnectAndPublish()
			if err != nil && groupCtx.Err() == nil {
				return fmt.Errorf("bus %s stopped: %w", bus.name, err)
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		c.Stop()
		return groupCtx.Err()
	})

	return group.Wait()
}

func (c *CommandDriver) Stop() error {
	var stopErr error
	c.stopOnce.Do(func() {
		log.Println("disconnecting buses")
		for _, b := range c.buses {
			err := b.bus.Disconnect()
			if err != nil {
				stopErr = errors.Join(stopErr, fmt.Errorf("failed disconnecting bus %s: %w", b.name, err))
			}
		}
	})
	return stopErr
}

func (c *CommandDriver) SetMany(frames []vehicle.BusFrame) error {
	for i := range frames {
		err := c.Set(frames[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandDriver) Set(frame vehicle.BusFrame) error {
	b, ok := c.buses[frame.Bus]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBus, frame.Bus)
	}
	err := b.bus.Publish(frame.Frame)
	if err != nil {
		return fmt.Errorf("failed publishing 0x%X on %s: %w", frame.Frame.ID, b.name, err)
	}
	return nil
}

func (c *CommandDriver) RxChan(bus int) <-chan can.Frame {
	b, ok := c.buses[bus]
	if !ok {
		return nil
	}
	return b.rx
}
