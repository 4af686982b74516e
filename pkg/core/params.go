package core

import "fmt"

// BlockParams holds the mutable physics state of one block. Flux fields are
// written by the external solver; rate and dose fields by the engines.
type BlockParams struct {
	// Flux state written by the solver.
	MgFlux      []float64 `yaml:"mgFlux,omitempty"`      // n/cm^2/s per group
	AdjMgFlux   []float64 `yaml:"adjMgFlux,omitempty"`   // adjoint flux per group
	MgFluxGamma []float64 `yaml:"mgFluxGamma,omitempty"` // photon flux per group
	ExtSrc      []float64 `yaml:"extSrc,omitempty"`      // external source per group
	Flux        float64   `yaml:"flux,omitempty"`        // group-summed flux
	FluxPeak    float64   `yaml:"fluxPeak,omitempty"`    // peak flux within the block

	// Power state.
	Power        float64 `yaml:"power,omitempty"` // W
	PowerDensity float64 `yaml:"powerDensity,omitempty"`
	ArealPd      float64 `yaml:"arealPd,omitempty"` // MW/m^2

	// One-group reaction rates, reactions/cm^3/s.
	RateCap        float64 `yaml:"rateCap,omitempty"`
	RateFis        float64 `yaml:"rateFis,omitempty"`
	RateProdN2n    float64 `yaml:"rateProdN2n,omitempty"`
	RateProdFis    float64 `yaml:"rateProdFis,omitempty"`
	RateProdNet    float64 `yaml:"rateProdNet,omitempty"`
	RateAbs        float64 `yaml:"rateAbs,omitempty"`
	FissionDensity float64 `yaml:"fisDens,omitempty"`    // fuel-normalized
	FissionDensHom float64 `yaml:"fisDensHom,omitempty"` // homogeneous

	// Cumulative dose state, mutated only by the dose engine.
	Residence        float64 `yaml:"residence,omitempty"` // days
	Fluence          float64 `yaml:"fluence,omitempty"`   // n/cm^2
	FastFluence      float64 `yaml:"fastFluence,omitempty"`
	FastFluencePeak  float64 `yaml:"fastFluencePeak,omitempty"`
	FastFluxFraction float64 `yaml:"fastFluxFr,omitempty"`

	DetailedDpa          float64 `yaml:"detailedDpa,omitempty"`
	DetailedDpaPeak      float64 `yaml:"detailedDpaPeak,omitempty"`
	DetailedDpaThisCycle float64 `yaml:"detailedDpaThisCycle,omitempty"`
	DetailedDpaRate      float64 `yaml:"detailedDpaRate,omitempty"`     // dpa/s
	DetailedDpaPeakRate  float64 `yaml:"detailedDpaPeakRate,omitempty"` // dpa/s
	NewDpa               float64 `yaml:"newDpa,omitempty"`              // this step's increment
	NewDpaPeak           float64 `yaml:"newDpaPeak,omitempty"`
	DpaPeakFromFluence   float64 `yaml:"dpaPeakFromFluence,omitempty"`

	// Burnup state; rates are written by a depletion collaborator.
	PercentBu     float64 `yaml:"percentBu,omitempty"`
	PercentBuPeak float64 `yaml:"percentBuPeak,omitempty"`
	BuRate        float64 `yaml:"buRate,omitempty"`     // %/day
	BuRatePeak    float64 `yaml:"buRatePeak,omitempty"` // %/day
	BuLimit       float64 `yaml:"buLimit,omitempty"`
	TimeToLimit   float64 `yaml:"timeToLimit,omitempty"`

	// Hex point-wise dose, six corner and six edge points when present.
	PointsCornerDpa     []float64 `yaml:"pointsCornerDpa,omitempty"`
	PointsCornerDpaRate []float64 `yaml:"pointsCornerDpaRate,omitempty"`
	PointsEdgeDpa       []float64 `yaml:"pointsEdgeDpa,omitempty"`
	PointsEdgeDpaRate   []float64 `yaml:"pointsEdgeDpaRate,omitempty"`
}

// AssemblyParams holds assembly-level aggregates over block state.
type AssemblyParams struct {
	MaxPercentBu      float64 `yaml:"maxPercentBu,omitempty"`
	MaxDpaPeak        float64 `yaml:"maxDpaPeak,omitempty"`
	TimeToLimit       float64 `yaml:"timeToLimit,omitempty"`
	BuLimit           float64 `yaml:"buLimit,omitempty"`
	KInf              float64 `yaml:"kInf,omitempty"`
	ArealPd           float64 `yaml:"arealPd,omitempty"`
	DaysSinceLastMove float64 `yaml:"daysSinceLastMove,omitempty"`
}

// CoreParams holds core-level state and cycle summaries.
type CoreParams struct {
	Keff    float64 `yaml:"keff,omitempty"`
	Power   float64 `yaml:"power,omitempty"` // specified power, W
	RxSwing float64 `yaml:"rxSwing,omitempty"`

	MaxPercentBu    float64 `yaml:"maxPercentBu,omitempty"`
	MaxPowerDensity float64 `yaml:"maxPowerDensity,omitempty"`
	MaxFlux         float64 `yaml:"maxFlux,omitempty"`
	MaxArealPd      float64 `yaml:"maxArealPd,omitempty"`

	MaxDetailedDpaPeak   float64 `yaml:"maxDetailedDpaPeak,omitempty"`
	MaxDpa               float64 `yaml:"maxDpa,omitempty"`
	MaxGridDpa           float64 `yaml:"maxGridDpa,omitempty"`
	PeakGridDpaAt60Years float64 `yaml:"peakGridDpaAt60Years,omitempty"`

	MaxDetailedDpaThisCycle float64 `yaml:"maxDetailedDpaThisCycle,omitempty"`
	DpaFullWidthHalfMax     float64 `yaml:"dpaFullWidthHalfMax,omitempty"`
	ElevationOfACLP3Cycles  float64 `yaml:"elevationOfACLP3Cycles,omitempty"`
	ElevationOfACLP7Cycles  float64 `yaml:"elevationOfACLP7Cycles,omitempty"`

	LoadPadDpaPeak         float64 `yaml:"loadPadDpaPeak,omitempty"`
	LoadPadDpaAvg          float64 `yaml:"loadPadDpaAvg,omitempty"`
	LoadPadDpaPeakAssembly string  `yaml:"loadPadDpaPeakAssembly,omitempty"`
	LoadPadDpaAvgAssembly  string  `yaml:"loadPadDpaAvgAssembly,omitempty"`
}

// ScalarParam is an addressable scalar block parameter, used where external
// collaborators select parameters by name (symmetry rescale subsets).
type ScalarParam func(*BlockParams) *float64

var scalarParams = map[string]ScalarParam{
	"flux":                func(p *BlockParams) *float64 { return &p.Flux },
	"fluxPeak":            func(p *BlockParams) *float64 { return &p.FluxPeak },
	"power":               func(p *BlockParams) *float64 { return &p.Power },
	"powerDensity":        func(p *BlockParams) *float64 { return &p.PowerDensity },
	"arealPd":             func(p *BlockParams) *float64 { return &p.ArealPd },
	"rateCap":             func(p *BlockParams) *float64 { return &p.RateCap },
	"rateFis":             func(p *BlockParams) *float64 { return &p.RateFis },
	"rateProdN2n":         func(p *BlockParams) *float64 { return &p.RateProdN2n },
	"rateProdFis":         func(p *BlockParams) *float64 { return &p.RateProdFis },
	"rateProdNet":         func(p *BlockParams) *float64 { return &p.RateProdNet },
	"rateAbs":             func(p *BlockParams) *float64 { return &p.RateAbs },
	"detailedDpaRate":     func(p *BlockParams) *float64 { return &p.DetailedDpaRate },
	"detailedDpaPeakRate": func(p *BlockParams) *float64 { return &p.DetailedDpaPeakRate },
}

// ScalarParamByName resolves a named scalar block parameter.
func ScalarParamByName(name string) (ScalarParam, error) {
	p, ok := scalarParams[name]
	if !ok {
		return nil, fmt.Errorf("unknown scalar block parameter %q", name)
	}
	return p, nil
}
