package entity

import "image"

// StitchedFrame обрезанный кадр в списке края
type StitchedFrame struct {
	Image *image.RGBA
	// Overlay пиксели, на которые кадр заходит внутрь уже покрытой области
	Overlay int
}

// NewSpan новая область, которую кадр добавляет к краю
func (f StitchedFrame) NewSpan(direction ScrollDirection) int {
	b := f.Image.Bounds()
	return direction.ScrollSide(b.Dx(), b.Dy()) - f.Overlay
}

// Placement итог обработки одного кадра
type Placement struct {
	EdgePosition int  // внешний край кадра в координатах сессии
	Appended     bool // кадр добавил новую область
	Target       Edge // край, в список которого добавлен кадр (если Appended)
	Searched     Edge // край, по индексу которого найдено совпадение
	Unchanged    bool // вид не сдвинулся, нужен следующий кадр
}
