package population

import "errors"

var (
	ErrEmptyPopulation   = errors.New("population has no agents")
	ErrInvalidProportion = errors.New("keep proportion must be in (0, 1]")
	ErrInvalidMutation   = errors.New("mutation rate must be in [0, 1] and magnitude non-negative")
)
