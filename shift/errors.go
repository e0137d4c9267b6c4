package shift

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBlockModeConflict is returned when a block specifies both an
	// explicit weekday set and a days-on/days-off cycle.
	ErrBlockModeConflict = errors.New("block specifies both weekday set and on/off cycle")

	// ErrBlockModeMissing is returned when a block specifies neither mode.
	ErrBlockModeMissing = errors.New("block specifies neither weekday set nor on/off cycle")

	// ErrRotationBounds is returned when a shift's rotation length falls
	// outside the 1-52 week bound.
	ErrRotationBounds = errors.New("rotation length must be between 1 and 52 weeks")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrGenerationInProgress is returned when a regeneration is requested
	// for a shift that is already being generated.
	ErrGenerationInProgress = errors.New("generation already in progress for shift")
)

// =============================================================================
// DATA INTEGRITY ERROR - Malformed block discovered during generation
// =============================================================================

// DataIntegrityError aborts generation for one shift without corrupting
// others. It names the block so the bad configuration can be fixed.
type DataIntegrityError struct {
	ShiftID string
	BlockID string
	Reason  string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("shift %s block %s: %s", e.ShiftID, e.BlockID, e.Reason)
}
