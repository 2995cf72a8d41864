// Package beacon drives a warning lamp on a GPIO output with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
//
// The lamp gives observatory staff a local alert indication that keeps
// working when the network link to the control room is down.
package beacon

// Driver controls the warning lamp output.
type Driver interface {
	// Set drives the lamp on or off.
	Set(on bool) error

	// Close turns the lamp off and releases GPIO resources.
	Close() error
}

// DefaultPin is the output line the lamp relay is wired to (BCM numbering).
const DefaultPin = 17
