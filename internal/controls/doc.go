// Package controls keeps the physics parameter widgets in step with the
// force field.
//
// Every tunable has two representations, held in a [Value]: a coarse
// Slider value and a precise numeric Field text. Editing either one updates the other and the
// engine, then reheats the simulation:
//
//	s := controls.New(engine, controls.Standard(), nil)
//	s.SetFromSlider(controls.LinkDistance, 140)
//	s.SetFromField(controls.ChargeStrength, "-35.5")
//	s.Reset()
//
// Numeric text that does not parse or falls outside the field bounds is
// rejected without touching either representation. Slider input is clamped.
package controls
