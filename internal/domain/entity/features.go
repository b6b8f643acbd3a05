package entity

import "image"

// Keypoint угловая точка в координатах уменьшенного изображения
type Keypoint struct {
	X int
	Y int
}

// Descriptor грубый дескриптор окрестности точки:
// средние по строкам, затем по столбцам, нормированные в [0,1]
type Descriptor []float64

// DescriptorLength длина дескриптора для стороны патча (округление вниз до чётного)
func DescriptorLength(patchSize int) int {
	return patchSize &^ 1
}

// CornerTier чувствительность FAST-детектора
type CornerTier int

const (
	TierUndecided CornerTier = iota // выбирается по первому кадру сессии
	Tier12                          // строгий FAST-12
	Tier9                           // мягкий FAST-9
)

// TierSwitchCorners минимум углов FAST-12 на первом кадре, чтобы остаться на строгом уровне
const TierSwitchCorners = 200

// ArcLength длина непрерывной дуги сегментного теста
func (t CornerTier) ArcLength() int {
	if t == Tier9 {
		return 9
	}
	return 12
}

func (t CornerTier) String() string {
	switch t {
	case Tier12:
		return "fast12"
	case Tier9:
		return "fast9"
	default:
		return "undecided"
	}
}

// ExtractParams параметры извлечения признаков для одного кадра
type ExtractParams struct {
	Width     int        // ширина уменьшенного серого буфера
	Height    int        // высота уменьшенного серого буфера
	Threshold uint8      // порог FAST
	PatchSize int        // сторона патча дескриптора
	Tier      CornerTier // TierUndecided для первого кадра
}

// Features признаки одного кадра
type Features struct {
	Gray        *image.Gray
	Keypoints   []Keypoint
	Descriptors []Descriptor
	Tier        CornerTier // уровень, который фактически использовался
}

// BuildEffort усилие построения ANN-индекса
type BuildEffort int

const (
	EffortQuick    BuildEffort = iota // разовые индексы
	EffortThorough                    // долгоживущие индексы края
)
