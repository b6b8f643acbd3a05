package entity

import "errors"

var (
	// ErrNoFeatures на кадре нет углов, кадр пропускается
	ErrNoFeatures = errors.New("no features in frame")
	// ErrNoReliableMatch голосование не дало однозначного смещения
	ErrNoReliableMatch = errors.New("no reliable match")
	// ErrInvalidDimensions размер кадра отличается от размера сессии
	ErrInvalidDimensions = errors.New("frame dimensions differ from session")
	// ErrExportEmpty ни один кадр ещё не размещён
	ErrExportEmpty = errors.New("nothing to export")
	// ErrNoSession у пользователя нет активной сессии склейки
	ErrNoSession = errors.New("no active stitch session")
)

// ErrSessionActive сессия склейки уже идёт
var ErrSessionActive = errors.New("stitch session already active")
