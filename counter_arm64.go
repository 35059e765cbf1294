package tsc

const counterName = "cntvct_el0"
