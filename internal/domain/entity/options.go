package entity

import (
	"errors"
	"fmt"
	"math"
)

// Options параметры сессии склейки
type Options struct {
	Direction           ScrollDirection
	SampleRate          float64 // доля поперечной стороны при уменьшении
	MinSampleSize       int     // нижняя граница поперечной стороны после уменьшения
	MaxSampleSize       int     // верхняя граница поперечной стороны после уменьшения
	CornerThreshold     uint8
	DescriptorPatchSize int
	MinSizeDelta        int // 0: вычисляется по первому кадру
	TryRollback         bool
}

// DefaultOptions значения по умолчанию настольного клиента
func DefaultOptions(direction ScrollDirection) Options {
	return Options{
		Direction:           direction,
		SampleRate:          1,
		MinSampleSize:       128,
		MaxSampleSize:       128,
		CornerThreshold:     24,
		DescriptorPatchSize: 28,
		MinSizeDelta:        0,
		TryRollback:         true,
	}
}

// Validate проверяет параметры
func (o Options) Validate() error {
	if o.Direction != Vertical && o.Direction != Horizontal {
		return fmt.Errorf("invalid direction %d", int(o.Direction))
	}
	if o.SampleRate <= 0 || o.SampleRate > 1 {
		return fmt.Errorf("sample rate %.3f out of (0,1]", o.SampleRate)
	}
	if o.MinSampleSize <= 0 || o.MaxSampleSize <= 0 {
		return errors.New("sample sizes must be positive")
	}
	if o.MinSampleSize > o.MaxSampleSize {
		return fmt.Errorf("min sample size %d exceeds max %d", o.MinSampleSize, o.MaxSampleSize)
	}
	if DescriptorLength(o.DescriptorPatchSize) < 2 {
		return fmt.Errorf("descriptor patch size %d too small", o.DescriptorPatchSize)
	}
	if o.MinSizeDelta < 0 {
		return fmt.Errorf("min size delta %d is negative", o.MinSizeDelta)
	}
	return nil
}

// ResolveMinSizeDelta порог перестройки индекса для стороны прокрутки
func (o Options) ResolveMinSizeDelta(scrollSide int) int {
	if o.MinSizeDelta > 0 {
		return o.MinSizeDelta
	}
	return int(math.Ceil(float64(scrollSide) * 0.8))
}

// SampleScale коэффициент уменьшения поперечной оси, не больше 1
func (o Options) SampleScale(crossSide int) float64 {
	if crossSide <= 0 {
		return 1
	}
	target := float64(crossSide) * o.SampleRate
	target = math.Max(math.Min(target, float64(o.MaxSampleSize)), float64(o.MinSampleSize))
	return math.Min(target/float64(crossSide), 1)
}
