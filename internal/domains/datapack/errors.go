package datapack

import "errors"

var (
	ErrPackNotFound   = errors.New("data pack not found")
	ErrNameTaken      = errors.New("pack name already in use")
	ErrPackInUse      = errors.New("pack is referenced by characters")
	ErrAlreadyOwned   = errors.New("pack already installed")
	ErrTemplateBroken = errors.New("prompt template is invalid")
)
