package actor

import "context"

// FakeClient is a test double that returns scripted actor states.
type FakeClient struct {
	// Enclosure is returned by EnclosureStatus.
	Enclosure *EnclosureStatus

	// Overwatcher is returned by OverwatcherStatus.
	Overwatcher *OverwatcherStatus

	// EnclosureError, if set, is returned by EnclosureStatus.
	EnclosureError error

	// OverwatcherError, if set, is returned by OverwatcherStatus.
	OverwatcherError error

	// Closed tracks if Close was called.
	Closed bool
}

// EnclosureStatus returns the scripted enclosure state.
func (f *FakeClient) EnclosureStatus(_ context.Context) (*EnclosureStatus, error) {
	if f.EnclosureError != nil {
		return nil, f.EnclosureError
	}
	return f.Enclosure, nil
}

// OverwatcherStatus returns the scripted overwatcher state.
func (f *FakeClient) OverwatcherStatus(_ context.Context) (*OverwatcherStatus, error) {
	if f.OverwatcherError != nil {
		return nil, f.OverwatcherError
	}
	return f.Overwatcher, nil
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.Closed = true
	return nil
}

// Bool returns a pointer to v, for building scripted statuses.
func Bool(v bool) *bool { return &v }
