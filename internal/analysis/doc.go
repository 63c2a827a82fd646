// Package analysis inspects finished closed-loop runs.
//
//   - [DominantFrequency]: strongest oscillation in a signal, to spot ringing
//   - [PowerSpectrum]: one-sided magnitude spectrum via go-dsp
//   - [ErrorPortrait]: error against its rate of change
//   - [Response]: rise time, peak and steady-state error of a step response
//
// A well-damped loop has no dominant frequency above the noise floor:
//
//	f, mag := analysis.DominantFrequency(result.Series(errorOf), cfg.Dt)
//	if mag > 0.05 {
//	    // loop is ringing at f Hz
//	}
package analysis
