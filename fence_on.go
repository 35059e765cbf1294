//go:build tsc_lfence && (amd64 || 386)

package tsc

// Fenced is true when Counter issues LFENCE before and after the read.
const Fenced = true

const fenceSuffix = "+lfence"
