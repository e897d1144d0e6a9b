package discovery

import (
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/mem"
)

// counterMemoryPercent converts a fraction of *available* memory into
// the integer percentage of *total* memory the counter's --memory flag
// expects, floored to one decimal of the fraction. The counter knows
// nothing about what is free right now, so handing it the raw fraction
// would let it outgrow the machine.
func counterMemoryPercent(availFraction float64) (int, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("reading system memory: %w", err)
	}
	return rescaleMemoryFraction(availFraction, vm.Available, vm.Total), nil
}

func rescaleMemoryFraction(availFraction float64, available, total uint64) int {
	if total == 0 {
		return 0
	}
	frac := availFraction * float64(available) / float64(total)
	return int(math.Floor(frac*10)) * 10
}
