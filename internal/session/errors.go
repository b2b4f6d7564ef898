package session

import "errors"

// Precondition failures are returned to the caller as user-visible
// messages; the operation is a no-op and no partial state change
// occurs. Operations referencing unknown player or court ids return
// nil instead, treated as already-resolved races.
var (
	ErrEmptyName     = errors.New("player name cannot be empty")
	ErrDuplicateName = errors.New("a player with that name already exists")
	ErrPlayerOnCourt = errors.New("remove the player from the court before deleting them")
	ErrCourtNotFull  = errors.New("court does not have four players, cannot start")
	ErrCourtOccupied = errors.New("clear the last court before removing it")
	ErrNoCourts      = errors.New("there are no courts")
	ErrNoCandidates  = errors.New("no available players in the waiting pool")
	ErrNothingToFill = errors.New("auto-assign could not fill any court (not enough players or no open court)")
)
