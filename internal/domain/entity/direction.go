package entity

import "fmt"

// ScrollDirection ось прокрутки, фиксированная на всю сессию склейки
type ScrollDirection int

const (
	Vertical   ScrollDirection = iota // прокрутка по вертикали
	Horizontal                        // прокрутка по горизонтали
)

func (d ScrollDirection) String() string {
	switch d {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("ScrollDirection(%d)", int(d))
	}
}

// ParseScrollDirection разбирает направление из конфигурации или команды
func ParseScrollDirection(s string) (ScrollDirection, error) {
	switch s {
	case "vertical", "v", "":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown scroll direction %q", s)
}

// ScrollSide возвращает размер кадра вдоль оси прокрутки
func (d ScrollDirection) ScrollSide(width, height int) int {
	if d == Horizontal {
		return width
	}
	return height
}

// CrossSide возвращает размер кадра поперёк оси прокрутки
func (d ScrollDirection) CrossSide(width, height int) int {
	if d == Horizontal {
		return height
	}
	return width
}

// Edge край склеенного изображения, к которому добавляются новые кадры
type Edge int

const (
	Trailing Edge = iota // низ или право: растёт по ходу прокрутки
	Leading              // верх или лево: растёт назад от первого кадра
)

func (e Edge) String() string {
	switch e {
	case Trailing:
		return "trailing"
	case Leading:
		return "leading"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Opposite возвращает противоположный край
func (e Edge) Opposite() Edge {
	if e == Leading {
		return Trailing
	}
	return Leading
}

// ParseEdge разбирает край из аргумента командной строки
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "trailing", "bottom", "down", "":
		return Trailing, nil
	case "leading", "top", "up":
		return Leading, nil
	}
	return Trailing, fmt.Errorf("unknown edge %q", s)
}
