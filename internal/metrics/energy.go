package metrics

import (
	"math"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Energetic is a plant that can report its total mechanical energy.
type Energetic interface {
	Energy(x dynamo.State) float64
}

// Energy is the mean plant energy over the run.
type Energy struct {
	name        string
	plant       Energetic
	samples     int
	totalEnergy float64
}

func NewEnergy(plant Energetic) *Energy {
	return &Energy{
		name:  "energy",
		plant: plant,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Sample) {
	e.totalEnergy += e.plant.Energy(s.State)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change in plant energy from the first
// tick. It shows how much work the controller put in or took out.
type EnergyDrift struct {
	name          string
	plant         Energetic
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(plant Energetic) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		plant: plant,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Sample) {
	energy := e.plant.Energy(s.State)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
