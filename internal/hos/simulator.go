package hos

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/haulplan/eld-backend/internal/models"
)

// LocationResolver maps a coordinate to a human-readable place name. The
// schedule treats resolution as best-effort: an error or timeout degrades
// to a placeholder and never aborts the computation.
type LocationResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

// UnknownPlace is the placeholder used when location resolution fails.
const UnknownPlace = "Unknown, Unknown"

// noopResolver is the default when no resolver is injected
type noopResolver struct{}

func (noopResolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	return UnknownPlace, nil
}

// Simulator builds the ordered duty-event timeline for a trip. It is
// stateless between calls; every Simulate call owns a fresh
// simulationState, so one Simulator may serve concurrent requests.
type Simulator struct {
	resolver       LocationResolver
	resolveTimeout time.Duration
}

// NewSimulator creates a simulator with the given location resolver. A nil
// resolver disables place resolution.
func NewSimulator(resolver LocationResolver) *Simulator {
	if resolver == nil {
		resolver = noopResolver{}
	}
	return &Simulator{
		resolver:       resolver,
		resolveTimeout: 5 * time.Second,
	}
}

// Simulate interleaves driving, mandatory breaks, rest periods, fueling
// stops and pickup/dropoff overhead for the given legs into one contiguous
// timeline, starting at startTime. It fails only when legs is empty.
func (s *Simulator) Simulate(ctx context.Context, legs []models.RouteLeg, startTime time.Time, cfg Config) ([]models.DutyEvent, error) {
	if len(legs) == 0 {
		return nil, models.ErrInsufficientInput
	}

	st := newSimulationState(cfg, startTime)
	events := make([]models.DutyEvent, 0, 16)

	for legIndex, leg := range legs {
		place := s.resolvePlace(ctx, leg.Start)

		switch leg.Kind {
		case models.LegToPickup:
			st.recordWorkReporting(leg.Start)
			events = append(events, models.DutyEvent{
				Activity:      "Pre-Trip Inspection",
				Status:        models.StatusOnDutyNotDriving,
				StartTime:     st.now,
				DurationHours: InspectionHours,
				Location:      leg.Start,
				LocationName:  place,
			})
			st.advance(InspectionHours)
			st.shiftOnDutyHours += InspectionHours

		case models.LegToDropoff:
			events = append(events, models.DutyEvent{
				Activity:      "Pickup",
				Status:        models.StatusOnDutyNotDriving,
				StartTime:     st.now,
				DurationHours: PickupDropoffHours,
				Location:      leg.Start,
				LocationName:  place,
			})
			st.advance(PickupDropoffHours)
			st.shiftOnDutyHours += PickupDropoffHours
		}

		remaining := leg.DistanceMiles
		for remaining > floatTolerance {
			// A 30-minute break is due before any other consideration.
			if st.continuousDriving >= BreakRequiredAfter-floatTolerance {
				events = append(events, models.DutyEvent{
					Activity:      "30-Minute Break",
					Status:        models.StatusOffDuty,
					StartTime:     st.now,
					DurationHours: BreakDurationHours,
					Location:      leg.Start,
					LocationName:  place,
				})
				st.advance(BreakDurationHours)
				st.continuousDriving = 0
			}

			windowLimit := MaxShiftOnDutyHours
			shortHaulApplied := false
			if st.shortHaulEligible() {
				windowLimit = ShortHaulOnDutyHours
				shortHaulApplied = true
			}

			drivingCeiling := MaxShiftDrivingHours
			if cfg.AdverseConditions {
				drivingCeiling += AdverseDrivingBonus
			}

			if st.shiftDrivingHours >= drivingCeiling-floatTolerance ||
				st.shiftOnDutyHours >= windowLimit-floatTolerance ||
				st.weeklyRemaining <= floatTolerance {
				s.takeRest(st, &events, leg.Start, place, cfg, windowLimit, shortHaulApplied)
				// A split first segment leaves the on-duty window running,
				// so the rest-needed test must run again before driving.
				continue
			}

			hoursCanDrive := math.Min(drivingCeiling-st.shiftDrivingHours, windowLimit-st.shiftOnDutyHours)
			hoursCanDrive = math.Min(hoursCanDrive, BreakRequiredAfter-st.continuousDriving)
			hoursCanDrive = math.Min(hoursCanDrive, st.weeklyRemaining)

			milesUntilFuel := FuelingIntervalMiles - math.Mod(st.totalDistanceMiles, FuelingIntervalMiles)

			driveMiles := math.Min(remaining, hoursCanDrive*AverageSpeedMPH)
			driveMiles = math.Min(driveMiles, milesUntilFuel)
			if driveMiles <= 0 {
				// The rest selection above restored every budget, so a
				// zero-length increment is unreachable.
				panic("hos: duty schedule made no progress")
			}
			driveHours := driveMiles / AverageSpeedMPH

			events = append(events, models.DutyEvent{
				Activity:      "Driving",
				Status:        models.StatusDriving,
				StartTime:     st.now,
				DurationHours: driveHours,
				DistanceMiles: driveMiles,
				Location:      leg.Start,
				LocationName:  place,
			})
			st.advance(driveHours)
			st.shiftDrivingHours += driveHours
			st.shiftOnDutyHours += driveHours
			st.continuousDriving += driveHours
			st.totalDistanceMiles += driveMiles
			st.chargeCycle(driveHours)
			remaining -= driveMiles

			// Crossing a fueling boundary leaves the cumulative distance
			// with a remainder smaller than the distance just driven.
			if math.Mod(st.totalDistanceMiles, FuelingIntervalMiles) < driveMiles {
				events = append(events, models.DutyEvent{
					Activity:      "Fueling",
					Status:        models.StatusOnDutyNotDriving,
					StartTime:     st.now,
					DurationHours: FuelingDurationHours,
					Location:      leg.Start,
					LocationName:  place,
				})
				st.advance(FuelingDurationHours)
				st.shiftOnDutyHours += FuelingDurationHours
				st.chargeCycle(FuelingDurationHours)
			}
		}

		if legIndex == len(legs)-1 {
			endPlace := s.resolvePlace(ctx, leg.End)
			events = append(events, models.DutyEvent{
				Activity:      "Dropoff",
				Status:        models.StatusOnDutyNotDriving,
				StartTime:     st.now,
				DurationHours: PickupDropoffHours,
				Location:      leg.End,
				LocationName:  endPlace,
			})
			st.advance(PickupDropoffHours)

			events = append(events, models.DutyEvent{
				Activity:      "Post-Trip Inspection",
				Status:        models.StatusOnDutyNotDriving,
				StartTime:     st.now,
				DurationHours: InspectionHours,
				Location:      leg.End,
				LocationName:  endPlace,
			})
			st.advance(InspectionHours)
		}
	}

	assignOffsets(events)
	return events, nil
}

// takeRest selects and emits exactly one rest strategy. Precedence: split
// sleeper segment 1, split sleeper segment 2, full 34-hour restart,
// standard 10-hour rest. Every strategy clears the continuous-driving
// counter; what else resets depends on the strategy.
func (s *Simulator) takeRest(st *simulationState, events *[]models.DutyEvent, loc models.Coordinate, place string, cfg Config, windowLimit float64, shortHaulApplied bool) {
	onDutyAtRest := st.shiftOnDutyHours

	switch {
	case cfg.UseSplitSleeper && st.pendingSplitID == "":
		segID := uuid.New().String()
		*events = append(*events, models.DutyEvent{
			Activity:      "Split Sleeper Berth (Segment 1)",
			Status:        models.StatusSleeperBerth,
			StartTime:     st.now,
			DurationHours: SplitSegment1Hours,
			Location:      loc,
			LocationName:  place,
			Rest: &models.RestBreak{
				Kind:               models.RestSplitSegment1,
				SegmentID:          segID,
				ExcludedFromWindow: true,
			},
		})
		st.advance(SplitSegment1Hours)
		st.pendingSplitID = segID
		// First segment pauses only the driving clock; the on-duty window
		// keeps running until the pairing segment completes.
		st.shiftDrivingHours = 0
		st.restoreCycle(SplitSegment1Hours)

	case st.pendingSplitID != "":
		segID := uuid.New().String()
		*events = append(*events, models.DutyEvent{
			Activity:      "Split Sleeper Berth (Segment 2)",
			Status:        models.StatusSleeperBerth,
			StartTime:     st.now,
			DurationHours: SplitSegment2Hours,
			Location:      loc,
			LocationName:  place,
			Rest: &models.RestBreak{
				Kind:       models.RestSplitSegment2,
				SegmentID:  segID,
				PairedWith: st.pendingSplitID,
			},
		})
		backlinkSegment(*events, st.pendingSplitID, segID)
		st.advance(SplitSegment2Hours)
		st.pendingSplitID = ""
		st.shiftDrivingHours = 0
		st.shiftOnDutyHours = 0
		st.restoreCycle(SplitSegment2Hours)

	case st.weeklyRemaining < RestartThresholdHours:
		*events = append(*events, models.DutyEvent{
			Activity:      "34-Hour Restart",
			Status:        models.StatusOffDuty,
			StartTime:     st.now,
			DurationHours: RestartDurationHours,
			Location:      loc,
			LocationName:  place,
			Rest:          &models.RestBreak{Kind: models.RestFullRestart},
		})
		st.advance(RestartDurationHours)
		st.shiftDrivingHours = 0
		st.shiftOnDutyHours = 0
		st.resetCycle()

	default:
		*events = append(*events, models.DutyEvent{
			Activity:      "10-Hour Rest Break",
			Status:        models.StatusSleeperBerth,
			StartTime:     st.now,
			DurationHours: MinOffDutyHours,
			Location:      loc,
			LocationName:  place,
			Rest:          &models.RestBreak{Kind: models.RestFull},
		})
		st.advance(MinOffDutyHours)
		st.shiftDrivingHours = 0
		st.shiftOnDutyHours = 0
		st.restoreCycle(MinOffDutyHours)
	}

	st.continuousDriving = 0

	if shortHaulApplied && onDutyAtRest >= windowLimit-floatTolerance {
		st.shortHaulUsed++
	}
}

// backlinkSegment writes the pairing segment ID onto the earlier split
// sleeper segment so both events reference each other
func backlinkSegment(events []models.DutyEvent, segmentID, pairedWith string) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Rest != nil && events[i].Rest.SegmentID == segmentID {
			events[i].Rest.PairedWith = pairedWith
			return
		}
	}
}

// assignOffsets walks the finished timeline once and stamps contiguous
// cumulative start/end offsets onto every event
func assignOffsets(events []models.DutyEvent) {
	var cumulative float64
	for i := range events {
		events[i].StartOffsetHours = cumulative
		cumulative += events[i].DurationHours
		events[i].EndOffsetHours = cumulative
	}
}

func (s *Simulator) resolvePlace(ctx context.Context, c models.Coordinate) string {
	rctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	place, err := s.resolver.Resolve(rctx, c.Latitude, c.Longitude)
	if err != nil || place == "" {
		return UnknownPlace
	}
	return place
}
