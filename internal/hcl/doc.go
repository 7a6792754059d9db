// Package hcl loads plans written in HCL and turns increment expressions
// into scheduler.PositionalIncrementFunc values.
//
//	strict = false
//
//	task "A" {
//	  depends_on = ["C"]
//	  increment  = 5
//	}
//
//	edge "C" "F" {}
//
//	scenario "timed" {
//	  workers       = 5
//	  base_duration = 60
//	  increment     = ordinal
//	  report        = ["duration"]
//	}
//
// With strict = true the universe is exactly the declared task blocks, so a
// strict plan without any is rejected.
//
// Increment expressions see the variables `task` (the identifier),
// `ordinal` (its 1-based alphabet rank, null for anything but a single
// letter) and `position` (its 0-based index among the run's sorted tasks),
// and the functions upper, lower, strlen, max, min and abs.
package hcl
