package subaru

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
)

// NewRadarInterface builds the object decoder. EyeSight has no radar; the lead
// distance comes from the camera's ES_Distance and ES_DashStatus frames.
func NewRadarInterface(variant vehicle.Variant, params vehicle.Params, d *dbc.DBC, noSleep bool) (*RadarInterface, error) {
	err := variant.Validate()
	if err != nil {
		return nil, fmt.Errorf("error: refusing to build radar interface: %w", err)
	}

	r := &RadarInterface{
		params:          params,
		radarOff:        !variant.RadarPresent,
		noSleep:         noSleep,
		sleep:           time.Sleep,
		updatedMessages: make(map[uint32]struct{}),
		points:          make(map[int]*models.RadarPoint, params.RadarSlots),
	}
	if r.radarOff {
		return r, nil
	}

	r.parser, err = dbc.NewParser(d, []dbc.MessageCheck{
		{Name: MsgEsDashStatus, Frequency: 10},
		{Name: MsgEsDistance, Frequency: 20},
	})
	if err != nil {
		return nil, fmt.Errorf("failed building radar parser: %w", err)
	}

	trigger, err := d.Message(params.RadarTriggerMsg)
	if err != nil {
		return nil, fmt.Errorf("failed resolving radar trigger: %w", err)
	}
	r.triggerMsg = trigger.Address
	return r, nil
}

// Update returns nil until the trigger message has arrived since the last
// snapshot. Without a distance sensor it returns an empty snapshot every call,
// pacing the caller like the real sensor link would.
func (r *RadarInterface) Update(monoTime time.Duration, frames []can.Frame) *models.RadarData {
	if r.radarOff {
		if !r.noSleep {
			r.sleep(r.params.RadarOffCycleSleep)
		}
		return &models.RadarData{}
	}

	for _, address := range r.parser.Update(monoTime, frames) {
		r.updatedMessages[address] = struct{}{}
	}

	if _, ok := r.updatedMessages[r.triggerMsg]; !ok {
		return nil
	}

	rr := r.update()
	for address := range r.updatedMessages {
		delete(r.updatedMessages, address)
	}
	return rr
}

func (r *RadarInterface) update() *models.RadarData {
	ret := &models.RadarData{}
	if !r.parser.CanValid() {
		ret.Errors = append(ret.Errors, models.RadarErrorSensorLink)
	}

	dash := r.parser.Values(MsgEsDashStatus)
	distance := r.parser.Values(MsgEsDistance)

	if dash["Car_Follow"] == 1 {
		r.leadLostCount = 0
		r.updatePoints(distance["Close_Distance"], dash["Far_Distance"])
	} else {
		r.leadLostCount++
		if r.params.LeadLostLimit > 0 && r.leadLostCount >= r.params.LeadLostLimit && len(r.points) > 0 {
			log.Printf("lead lost for %d updates, dropping %d tracks\n", r.leadLostCount, len(r.points))
			for slot := range r.points {
				delete(r.points, slot)
			}
		}
	}

	slots := make([]int, 0, len(r.points))
	for slot := range r.points {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	ret.Points = make([]models.RadarPoint, 0, len(slots))
	for _, slot := range slots {
		ret.Points = append(ret.Points, *r.points[slot])
	}
	return ret
}

func (r *RadarInterface) updatePoints(closeDistance, farDistance float64) {
	measured := closeDistance < r.params.CloseDistanceSaturation
	dRel := farDistance * r.params.FarDistanceScale
	if measured {
		dRel = closeDistance * r.params.NearDistanceRange / r.params.CloseDistanceSaturation
	}

	// the camera reports neither lateral position nor closing rate
	notMeasured := math.NaN()
	if r.params.RadarSlots == 1 {
		notMeasured = 0
	}

	for slot := 0; slot < r.params.RadarSlots; slot++ {
		pt, ok := r.points[slot]
		if !ok {
			pt = &models.RadarPoint{TrackID: r.nextTrackID}
			r.nextTrackID++
			r.points[slot] = pt
		}
		pt.DRel = dRel
		pt.YRel = 0
		pt.VRel = 0
		pt.ARel = notMeasured
		pt.YvRel = notMeasured
		pt.Measured = measured
	}
}
