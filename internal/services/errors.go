package services

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInfeasible       = errors.New("infeasible")
	ErrIncompleteMatrix = errors.New("distance matrix has no finite tour")
	ErrTooManyPlaces    = errors.New("too many places for exact ordering")
	ErrNoProvider       = errors.New("no distance provider configured")
)
