package domain

import "go.trai.ch/zerr"

var (
	// ErrVersionMissing is returned when a manifest declares no version.
	ErrVersionMissing = zerr.New("manifest declares no version")

	// ErrNoSetupCall is returned when a manifest contains no top-level setup call.
	ErrNoSetupCall = zerr.New("no setup call found in manifest")

	// ErrRequirementUnparseable is returned when a raw requirement string cannot be normalized.
	ErrRequirementUnparseable = zerr.New("unparseable requirement")

	// ErrInconsistentSpecifiers is returned when a requirement is declared with more
	// than one distinct version specifier across the tree.
	ErrInconsistentSpecifiers = zerr.New("inconsistent dependency specifiers")

	// ErrBaselineMismatch is returned when declared specifiers deviate from the
	// frozen baseline without an override.
	ErrBaselineMismatch = zerr.New("dependencies do not match frozen baseline")

	// ErrUnfrozenRequirements is returned when the scan finds requirements that
	// have no entry in the frozen baseline.
	ErrUnfrozenRequirements = zerr.New("requirements not present in frozen baseline")

	// ErrFreezeRefused is returned when freezing is requested while inconsistent
	// specifiers exist.
	ErrFreezeRefused = zerr.New("refusing to freeze inconsistent dependencies")

	// ErrRendererUnavailable is returned when a report is requested but no
	// renderer is wired.
	ErrRendererUnavailable = zerr.New("report renderer unavailable")
)
