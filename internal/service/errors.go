package service

import (
	"errors"

	"duo-ladder/internal/repository"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrAlreadyRecorded  = repository.ErrAlreadyRecorded
	ErrPlayerNotInMatch = errors.New("player not in match")
	ErrNotSameTeam      = errors.New("duo players were on opposing teams")
)
