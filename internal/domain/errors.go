package domain

import "errors"

var (
	ErrInvalidNode     = errors.New("invalid node")
	ErrInvalidEdge     = errors.New("invalid edge")
	ErrSelfLoop        = errors.New("edge connects a node to itself")
	ErrInvalidSchedule = errors.New("invalid schedule")
)
