package domain

import "errors"

// ErrNotFound is returned when an itinerary, day, or activity referenced by ID
// does not exist. The caller's copy is stale; reloading fixes it.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. blank itinerary name, blank activity description, missing booking
// contact details).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicateDate is returned when a day is added to an itinerary that
// already has a day on the same calendar date.
// Handlers should map this to HTTP 409 Conflict.
var ErrDuplicateDate = errors.New("duplicate date")

// ErrStorageRead is returned when a stored snapshot exists but cannot be
// decoded into a valid itinerary collection.
var ErrStorageRead = errors.New("storage read error")

// ErrIO is returned when the persistence backend fails to read or write.
var ErrIO = errors.New("storage io error")

// ErrPayment is returned when the payment collaborator rejects or fails a
// charge. The wrapped message is the collaborator's own reason, verbatim.
// Handlers should map this to HTTP 402 Payment Required.
var ErrPayment = errors.New("payment error")
