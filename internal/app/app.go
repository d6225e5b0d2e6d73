package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/command/loopback"
	"github.com/Speshl/gorrc_subaru/internal/command/socketcan"
	"github.com/Speshl/gorrc_subaru/internal/config"
	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/Speshl/gorrc_subaru/internal/vehicle/subaru"
	"github.com/google/uuid"
	"github.com/prometheus/procfs"
	"golang.org/x/sync/errgroup"
)

const (
	requestBuffer = 100
	radarBuffer   = 100
)

var ErrUnknownBusDriver = errors.New("unknown bus driver")

type App struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	session uuid.UUID
	Cfg     config.Config
	variant vehicle.Variant

	car *subaru.Car

	requestChannel chan models.ControlRequest
	radarChannel   chan *models.RadarData
}

func NewApp(cfg config.Config) (*App, error) {
	variant, err := vehicle.NewVariant(cfg.VariantCfg.Generation, cfg.VariantCfg.TorqueClass, cfg.VariantCfg.RadarPresent)
	if err != nil {
		return nil, fmt.Errorf("error resolving vehicle variant: %w", err)
	}
	params, err := vehicle.NewParams(variant)
	if err != nil {
		return nil, fmt.Errorf("error resolving control params: %w", err)
	}
	table, err := dbc.ForVariant(variant)
	if err != nil {
		return nil, err
	}
	commandDriver, err := NewCommandDriver(cfg.BusCfg)
	if err != nil {
		return nil, err
	}

	requestChannel := make(chan models.ControlRequest, requestBuffer)
	radarChannel := make(chan *models.RadarData, radarBuffer)

	car, err := subaru.NewCar(cfg.CarCfg, variant, params, table, commandDriver, requestChannel, radarChannel)
	if err != nil {
		return nil, fmt.Errorf("error creating car: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:            ctx,
		ctxCancel:      cancel,
		session:        uuid.New(),
		Cfg:            cfg,
		variant:        variant,
		car:            car,
		requestChannel: requestChannel,
		radarChannel:   radarChannel,
	}, nil
}

func NewCommandDriver(cfg config.BusConfig) (vehicle.CommandDriverIFace, error) {
	switch cfg.BusDriver {
	case "socketcan":
		return socketcan.NewCommand(cfg), nil
	case "loopback":
		return loopback.NewCommand(cfg.RxBuffer), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBusDriver, cfg.BusDriver)
}

// Requests is where the planning side submits control requests.
func (a *App) Requests() chan<- models.ControlRequest {
	return a.requestChannel
}

func (a *App) Stop() {
	a.ctxCancel()
}

func (a *App) Start() error {
	group, groupCtx := errgroup.WithContext(a.ctx)
	log.Printf("starting session %s for %s\n", a.session, a.variant)

	err := a.car.Init()
	if err != nil {
		return fmt.Errorf("error initializing car: %w", err)
	}

	//kill listener
	group.Go(func() error {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(signalChannel)
		select {
		case sig := <-signalChannel:
			log.Printf("received signal: %s\n", sig)
			a.ctxCancel()
			return context.Canceled
		case <-groupCtx.Done():
			log.Println("closing signal goroutine")
			return groupCtx.Err()
		}
	})

	//Start car
	group.Go(func() error {
		return a.car.Start(groupCtx)
	})

	group.Go(func() error {
		return a.watchRadar(groupCtx)
	})

	group.Go(func() error {
		return a.healthCheck(groupCtx)
	})

	err = group.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Println("context was cancelled")
			return nil
		}
		return fmt.Errorf("stopping due to error - %w", err)
	}

	log.Println("shutting down")
	return nil
}

// watchRadar logs changes in the tracked objects and sensor link.
func (a *App) watchRadar(ctx context.Context) error {
	lastTracks := -1
	lastLinkError := false
	for {
		select {
		case <-ctx.Done():
			log.Println("radar watcher stopped")
			return ctx.Err()
		case data := <-a.radarChannel:
			linkError := data.HasError(models.RadarErrorSensorLink)
			if linkError != lastLinkError {
				log.Printf("distance sensor link error: %t\n", linkError)
				lastLinkError = linkError
			}
			if len(data.Points) != lastTracks {
				if len(data.Points) > 0 {
					log.Printf("tracking %d objects, lead %d at %.2fm\n", len(data.Points), data.Points[0].TrackID, data.Points[0].DRel)
				} else {
					log.Println("no objects tracked")
				}
				lastTracks = len(data.Points)
			}
		}
	}
}

func (a *App) healthCheck(ctx context.Context) error {
	p, err := procfs.Self()
	if err != nil {
		return fmt.Errorf("error: procfs could not get process: %w", err)
	}

	healthTicker := time.NewTicker(a.Cfg.HealthPeriod)
	defer healthTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("health checker stopped")
			return ctx.Err()
		case <-healthTicker.C:
			stats := a.car.Stats()
			stat, err := p.Stat()
			if err != nil {
				log.Printf("healthcheck: failed reading process stat: %s\n", err.Error())
				continue
			}
			log.Printf("healthcheck: session %s cycles %d overruns %d max %s radar %d (dropped %d) pack failures %d cpu %.1fs rss %dkB\n",
				a.session, stats.Cycles, stats.Overruns, stats.MaxDuration, stats.RadarUpdates, stats.RadarDropped,
				stats.PackFailures, stat.CPUTime(), stat.ResidentMemory()/1024)

			a.logBusHealth(p)
		}
	}
}

func (a *App) logBusHealth(p procfs.Proc) {
	netDev, err := p.NetDev()
	if err != nil {
		return
	}
	for _, name := range []string{a.Cfg.BusCfg.PTBus, a.Cfg.BusCfg.CamBus} {
		line, ok := netDev[name]
		if !ok {
			continue
		}
		log.Printf("healthcheck: bus %s rx %d (errors %d dropped %d) tx %d (errors %d)\n",
			name, line.RxPackets, line.RxErrors, line.RxDropped, line.TxPackets, line.TxErrors)
	}
}
