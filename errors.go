// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import "errors"

// Driver failure classes. Call sites wrap these with detail, test with
// errors.Is.
var (
	// ErrBusFailure wraps an error from the underlying SPI transfer. The
	// driver never retries bus failures; the current operation is aborted.
	ErrBusFailure = errors.New("sx1276: bus transfer failed")

	// ErrIdentityMismatch means the version register did not return the
	// expected chip signature, which points at wrong wiring or dead
	// hardware. Not retried.
	ErrIdentityMismatch = errors.New("sx1276: chip identity mismatch")

	// ErrInvalidParameter means a configuration value is outside the
	// chip's legal range. Raised before any register is written.
	ErrInvalidParameter = errors.New("sx1276: invalid parameter")

	// ErrIllegalTransition means an operation was requested from a mode
	// that does not support it. The current mode is left unchanged.
	ErrIllegalTransition = errors.New("sx1276: illegal mode transition")

	// ErrTimeout means a bounded wait exceeded the caller's budget. The
	// radio is returned to standby; the caller may retry.
	ErrTimeout = errors.New("sx1276: timeout")

	// ErrCRCMismatch is only surfaced when Opts.SurfaceCRCErrors is set.
	// By default a corrupt payload is silently dropped by Available.
	ErrCRCMismatch = errors.New("sx1276: payload crc mismatch")
)
