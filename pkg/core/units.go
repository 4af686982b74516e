package core

// Physical unit conversions shared by the flux and dose engines.
const (
	// Cm2PerBarn converts microscopic cross sections in barns to cm^2.
	Cm2PerBarn = 1.0e-24

	// Cm2PerM2 converts per-m^2 quantities to per-cm^2.
	Cm2PerM2 = 1.0e4

	// WattsPerMW converts watts to megawatts.
	WattsPerMW = 1.0e6

	// SecondsPerDay is the length of a day in seconds.
	SecondsPerDay = 86400.0

	// SecondsPerYear is the length of a Julian-ish year in seconds.
	SecondsPerYear = 31556926.0

	// AbsReactivityToPCM converts absolute reactivity to pcm.
	AbsReactivityToPCM = 1.0e5
)
