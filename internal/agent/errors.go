package agent

import "errors"

var (
	ErrOutputWidth     = errors.New("network output width must equal the number of directions")
	ErrInputWidth      = errors.New("network input width does not match the board encoding")
	ErrUnknownEncoding = errors.New("unknown board encoding")
)
