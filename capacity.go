package tsc

// Enabled is false when the package is built with the tsc_off tag. In that
// case Capacity is zero, and the package-level Start, Insert, and export
// functions compile down to no-ops.
const Enabled = Capacity > 0
