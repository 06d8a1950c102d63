/*
Package control holds the cooperative stop and pause signals of the Surveyor run loop.

Flags are plain process state: both start cleared and live for the whole process.
The run loop polls them only at step boundaries, so setting a flag never interrupts
a step in flight.

	control.StopAnalyses()     // the next step boundary ends Run
	control.ResumeAnalyses()   // clear it; calling Run again continues where it stopped
	control.EnableSingleStep() // hand control to the Inspector after every step

OS signals are one way to drive the flags (see NotifySignals); the HTTP adapter
is another.
*/
package control
