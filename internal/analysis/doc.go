// Package analysis characterizes the population dynamics of a run.
//
//   - [DominantPeriod]: strongest oscillation in a population series, via FFT
//   - [ExactPeriod]: smallest period the tail of a series repeats with
//   - [DamageSpreading]: growth of a single-cell perturbation between two
//     otherwise identical grids
//   - [RuleSweep]: populations reached across a range of threshold rules
//   - [ReturnMap]: population at t against population at t+lag
//
// # Oscillators
//
// A settled run with a period-p oscillator shows up in both measures:
//
//	p := analysis.ExactPeriod(result.Population, 60)
//	q := analysis.DominantPeriod(result.Series())
package analysis
