package tsc

// CounterSource names the instruction behind Counter on this build, e.g.
// "rdtsc", "rdtsc+lfence", or "cntvct_el0".
const CounterSource = counterName + fenceSuffix
