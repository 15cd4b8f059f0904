// Package analysis post-processes recorded flight telemetry.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation of a channel such
//     as the attitude angle while the stabilizer fights a disturbance
//   - [Portrait]: a two-channel scatter, e.g. angle against spin
//
// Example:
//
//	tel, _ := store.LoadTelemetry(id)
//	angle, _ := tel.Column("angle")
//	hz := analysis.DominantFrequency(angle, tel.Times[1]-tel.Times[0])
package analysis
