package domain

import "errors"

var (
	ErrUnknownKey     = errors.New("unknown_setting_key")
	ErrInvalidType    = errors.New("invalid_setting_type")
	ErrInvalidValue   = errors.New("invalid_setting_value")
	ErrReadOnly       = errors.New("read_only_setting")
	ErrDuplicateKey   = errors.New("duplicate_setting_key")
	ErrRegistryFrozen = errors.New("settings_registry_frozen")
)
