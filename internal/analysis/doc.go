// Package analysis extracts sensor-level views of generated fields.
//
//   - [Probe]: the time series observed by one sensor
//   - [PowerSpectrum]: magnitude spectrum of a probe series
//   - [Stats]: summary statistics of a whole field
//   - [Hodograph]: (u, v) trajectory at a sensor, with an ASCII renderer
//
// Sensor positions use the original-frame coordinates produced by the
// augment package:
//
//	coords, _ := augment.MapSensorToOriginal(placed, shape, augment.Horizontal)
//	series, _ := analysis.ProbeAll(p.U, coords)
package analysis
